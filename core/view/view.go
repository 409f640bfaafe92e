// Package view defines the saved-view model and the store contract the filter
// engine's surroundings consume. A saved view is a named, persisted filter
// tree scoped to an owner; the engine itself only ever reads its Filters.
package view

import (
	"context"
	"errors"
	"time"

	"github.com/iianarmas/ffsc-anniversary-management-sub000/core/filter"
)

// ErrNotFound is returned when a saved view id does not exist in the store.
var ErrNotFound = errors.New("saved view not found")

// ViewType identifies which data surface a saved view applies to.
type ViewType string

const (
	ViewTypeAttendees ViewType = "attendees"
	ViewTypeOrders    ViewType = "orders"
	ViewTypeTasks     ViewType = "tasks"
)

// Visibility controls who can load a saved view.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// SavedView is a persisted filter tree plus its presentation metadata.
type SavedView struct {
	ID         string             `json:"id"`
	OwnerID    string             `json:"ownerId"`
	Name       string             `json:"name"`
	ViewType   ViewType           `json:"viewType"`
	Visibility Visibility         `json:"visibility"`
	Filters    filter.FilterGroup `json:"filters"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Store is the persistence contract for saved views. Implementations must
// round-trip the filter tree losslessly; everything else about durability is
// up to the backing store.
type Store interface {
	Create(ctx context.Context, v *SavedView) error
	Get(ctx context.Context, id string) (*SavedView, error)
	Update(ctx context.Context, v *SavedView) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, ownerID string) ([]*SavedView, error)
}
