package view

import (
	"context"
	"time"

	"github.com/asaidimu/go-events"
)

// StoreEventType defines the lifecycle events a store wrapper emits.
type StoreEventType string

const (
	ViewCreateStart   StoreEventType = "view:create:start"
	ViewCreateSuccess StoreEventType = "view:create:success"
	ViewCreateFailed  StoreEventType = "view:create:failed"
	ViewReadStart     StoreEventType = "view:read:start"
	ViewReadSuccess   StoreEventType = "view:read:success"
	ViewReadFailed    StoreEventType = "view:read:failed"
	ViewUpdateStart   StoreEventType = "view:update:start"
	ViewUpdateSuccess StoreEventType = "view:update:success"
	ViewUpdateFailed  StoreEventType = "view:update:failed"
	ViewDeleteStart   StoreEventType = "view:delete:start"
	ViewDeleteSuccess StoreEventType = "view:delete:success"
	ViewDeleteFailed  StoreEventType = "view:delete:failed"
	ViewListStart     StoreEventType = "view:list:start"
	ViewListSuccess   StoreEventType = "view:list:success"
	ViewListFailed    StoreEventType = "view:list:failed"
)

// StoreEvent describes one store operation for observability consumers.
type StoreEvent struct {
	Type      StoreEventType `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Operation string         `json:"operation"`
	ViewID    string         `json:"viewId,omitempty"`
	OwnerID   string         `json:"ownerId,omitempty"`
	Error     *string        `json:"error,omitempty"`
	Duration  int64          `json:"duration"`
}

// EventEmittingStore wraps a Store and emits start, success and failure
// events around every operation.
type EventEmittingStore struct {
	store Store
	bus   *events.TypedEventBus[StoreEvent]
}

// NewEventEmittingStore creates the wrapper. A nil bus disables emission and
// makes the wrapper a transparent pass-through.
func NewEventEmittingStore(store Store, bus *events.TypedEventBus[StoreEvent]) *EventEmittingStore {
	return &EventEmittingStore{store: store, bus: bus}
}

var _ Store = (*EventEmittingStore)(nil)

func (s *EventEmittingStore) emit(eventType StoreEventType, operation, viewID, ownerID string, start time.Time, err error) {
	if s.bus == nil {
		return
	}
	event := StoreEvent{
		Type:      eventType,
		Timestamp: start.UnixMilli(),
		Operation: operation,
		ViewID:    viewID,
		OwnerID:   ownerID,
		Duration:  time.Since(start).Milliseconds(),
	}
	if err != nil {
		errStr := err.Error()
		event.Error = &errStr
	}
	s.bus.Emit(string(eventType), event)
}

// withEmission wraps an operation with its start/success/failed event triple.
func (s *EventEmittingStore) withEmission(operation string, start, success, failed StoreEventType, viewID, ownerID string, fn func() error) error {
	startTime := time.Now()
	s.emit(start, operation, viewID, ownerID, startTime, nil)
	err := fn()
	if err != nil {
		s.emit(failed, operation, viewID, ownerID, startTime, err)
		return err
	}
	s.emit(success, operation, viewID, ownerID, startTime, nil)
	return nil
}

func (s *EventEmittingStore) Create(ctx context.Context, v *SavedView) error {
	return s.withEmission("create", ViewCreateStart, ViewCreateSuccess, ViewCreateFailed, v.ID, v.OwnerID, func() error {
		return s.store.Create(ctx, v)
	})
}

func (s *EventEmittingStore) Get(ctx context.Context, id string) (*SavedView, error) {
	var result *SavedView
	err := s.withEmission("read", ViewReadStart, ViewReadSuccess, ViewReadFailed, id, "", func() error {
		var err error
		result, err = s.store.Get(ctx, id)
		return err
	})
	return result, err
}

func (s *EventEmittingStore) Update(ctx context.Context, v *SavedView) error {
	return s.withEmission("update", ViewUpdateStart, ViewUpdateSuccess, ViewUpdateFailed, v.ID, v.OwnerID, func() error {
		return s.store.Update(ctx, v)
	})
}

func (s *EventEmittingStore) Delete(ctx context.Context, id string) error {
	return s.withEmission("delete", ViewDeleteStart, ViewDeleteSuccess, ViewDeleteFailed, id, "", func() error {
		return s.store.Delete(ctx, id)
	})
}

func (s *EventEmittingStore) List(ctx context.Context, ownerID string) ([]*SavedView, error) {
	var result []*SavedView
	err := s.withEmission("list", ViewListStart, ViewListSuccess, ViewListFailed, "", ownerID, func() error {
		var err error
		result, err = s.store.List(ctx, ownerID)
		return err
	})
	return result, err
}
