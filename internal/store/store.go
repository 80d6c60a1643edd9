// internal/store/store.go

// Package store persists normalized suggestions per group. Writes are
// idempotent: a suggestion is keyed by (group_code, source, source_id)
// and re-fetching the same upstream result updates in place.
package store

import (
	"context"

	"planpal/internal/models"
)

// Store is the suggestion persistence layer.
type Store interface {
	Upsert(ctx context.Context, suggestions []models.Suggestion) error
	ListByGroup(ctx context.Context, groupCode string) ([]models.Suggestion, error)
	DeleteGroup(ctx context.Context, groupCode string) error
}
