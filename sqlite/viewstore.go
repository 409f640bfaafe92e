// Package sqlite provides a concrete implementation of the view.Store
// contract backed by a SQLite database. Filter trees are persisted as JSON
// columns and round-trip losslessly.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iianarmas/ffsc-anniversary-management-sub000/core/filter"
	"github.com/iianarmas/ffsc-anniversary-management-sub000/core/view"
)

const createViewsTable = `
CREATE TABLE IF NOT EXISTS saved_views (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	view_type  TEXT NOT NULL,
	visibility TEXT NOT NULL,
	filters    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_views_owner ON saved_views(owner_id);`

// ViewStore is the SQLite-backed saved-view store.
type ViewStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ view.Store = (*ViewStore)(nil)

// NewViewStore creates the store and bootstraps its schema. A nil logger is
// replaced with a no-op logger.
func NewViewStore(db *sql.DB, logger *zap.Logger) (*ViewStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(createViewsTable); err != nil {
		return nil, fmt.Errorf("failed to create saved_views table: %w", err)
	}
	return &ViewStore{db: db, logger: logger}, nil
}

// Create inserts a saved view. An empty id is replaced with a fresh one;
// timestamps are set to now.
func (s *ViewStore) Create(ctx context.Context, v *view.SavedView) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	v.CreatedAt = now
	v.UpdatedAt = now

	filters, err := json.Marshal(v.Filters)
	if err != nil {
		return fmt.Errorf("failed to serialize filters: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_views (id, owner_id, name, view_type, visibility, filters, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.OwnerID, v.Name, string(v.ViewType), string(v.Visibility),
		string(filters), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert saved view %s: %w", v.ID, err)
	}
	s.logger.Debug("saved view created", zap.String("id", v.ID), zap.String("owner", v.OwnerID))
	return nil
}

// Get loads a saved view by id, returning view.ErrNotFound when it does not
// exist.
func (s *ViewStore) Get(ctx context.Context, id string) (*view.SavedView, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, view_type, visibility, filters, created_at, updated_at
		 FROM saved_views WHERE id = ?`, id)
	v, err := scanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, view.ErrNotFound
	}
	return v, err
}

// Update rewrites a saved view's mutable columns and bumps updated_at.
func (s *ViewStore) Update(ctx context.Context, v *view.SavedView) error {
	filters, err := json.Marshal(v.Filters)
	if err != nil {
		return fmt.Errorf("failed to serialize filters: %w", err)
	}
	v.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := s.db.ExecContext(ctx,
		`UPDATE saved_views SET name = ?, view_type = ?, visibility = ?, filters = ?, updated_at = ?
		 WHERE id = ?`,
		v.Name, string(v.ViewType), string(v.Visibility), string(filters), v.UpdatedAt.UnixMilli(), v.ID)
	if err != nil {
		return fmt.Errorf("failed to update saved view %s: %w", v.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return view.ErrNotFound
	}
	return nil
}

// Delete removes a saved view by id, returning view.ErrNotFound when nothing
// was deleted.
func (s *ViewStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved view %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return view.ErrNotFound
	}
	return nil
}

// List returns all saved views belonging to an owner, newest first.
func (s *ViewStore) List(ctx context.Context, ownerID string) ([]*view.SavedView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, view_type, visibility, filters, created_at, updated_at
		 FROM saved_views WHERE owner_id = ? ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved views for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var views []*view.SavedView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved views: %w", err)
	}
	return views, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows so a single scan routine serves
// both lookup and list paths.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(row rowScanner) (*view.SavedView, error) {
	var (
		v         view.SavedView
		viewType  string
		vis       string
		filters   string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &viewType, &vis, &filters, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan saved view: %w", err)
	}

	var group filter.FilterGroup
	if err := json.Unmarshal([]byte(filters), &group); err != nil {
		return nil, fmt.Errorf("failed to deserialize filters for view %s: %w", v.ID, err)
	}

	v.ViewType = view.ViewType(viewType)
	v.Visibility = view.Visibility(vis)
	v.Filters = group
	v.CreatedAt = time.UnixMilli(createdAt).UTC()
	v.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &v, nil
}
