// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"

	"planpal/internal/common/database"
	stderrors "planpal/internal/common/errors"
	"planpal/internal/models"
)

// PostgresStore persists suggestions in the suggestions table. The
// table carries a monotonically increasing seq column so listing
// preserves first-insert order, which ranking relies on for stable ties.
//
//	CREATE TABLE IF NOT EXISTS suggestions (
//	    seq         BIGSERIAL,
//	    id          UUID NOT NULL,
//	    group_code  TEXT NOT NULL,
//	    source      TEXT NOT NULL,
//	    source_id   TEXT NOT NULL,
//	    title       TEXT NOT NULL,
//	    description TEXT NOT NULL DEFAULT '',
//	    rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    budget_tier TEXT NOT NULL DEFAULT '',
//	    lat         DOUBLE PRECISION,
//	    lng         DOUBLE PRECISION,
//	    raw         JSONB,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (group_code, source, source_id)
//	);
type PostgresStore struct {
	db *database.PostgresClient
}

func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertQuery = `
INSERT INTO suggestions (id, group_code, source, source_id, title, description, rating, budget_tier, lat, lng, raw, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (group_code, source, source_id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    rating = EXCLUDED.rating,
    budget_tier = EXCLUDED.budget_tier,
    lat = EXCLUDED.lat,
    lng = EXCLUDED.lng,
    raw = EXCLUDED.raw`

const listQuery = `
SELECT id, group_code, source, source_id, title, description, rating, budget_tier, lat, lng, raw, created_at
FROM suggestions
WHERE group_code = $1
ORDER BY seq`

const deleteQuery = `DELETE FROM suggestions WHERE group_code = $1`

func (s *PostgresStore) Upsert(ctx context.Context, suggestions []models.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	tx, err := s.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return stderrors.NewStoreUpsertFailedError(err)
	}
	defer tx.Rollback()

	for _, sg := range suggestions {
		var lat, lng sql.NullFloat64
		if sg.Location != nil {
			lat = sql.NullFloat64{Float64: sg.Location.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: sg.Location.Lng, Valid: true}
		}

		_, err := tx.ExecContext(ctx, upsertQuery,
			sg.ID, sg.GroupCode, string(sg.Source), sg.SourceID, sg.Title, sg.Description,
			sg.Rating, string(sg.Tier), lat, lng, []byte(sg.Raw), sg.CreatedAt,
		)
		if err != nil {
			return stderrors.NewStoreUpsertFailedError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return stderrors.NewStoreUpsertFailedError(err)
	}
	return nil
}

func (s *PostgresStore) ListByGroup(ctx context.Context, groupCode string) ([]models.Suggestion, error) {
	rows, err := s.db.Query(ctx, listQuery, groupCode)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	defer rows.Close()

	var out []models.Suggestion
	for rows.Next() {
		var sg models.Suggestion
		var source, tier string
		var lat, lng sql.NullFloat64
		var raw []byte

		err := rows.Scan(&sg.ID, &sg.GroupCode, &source, &sg.SourceID, &sg.Title, &sg.Description,
			&sg.Rating, &tier, &lat, &lng, &raw, &sg.CreatedAt)
		if err != nil {
			return nil, stderrors.NewStoreQueryFailedError(err)
		}

		sg.Source = models.SourceCategory(source)
		sg.Tier = models.BudgetTier(tier)
		if lat.Valid && lng.Valid {
			sg.Location = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		sg.Raw = raw

		out = append(out, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}

	return out, nil
}

func (s *PostgresStore) DeleteGroup(ctx context.Context, groupCode string) error {
	if _, err := s.db.Exec(ctx, deleteQuery, groupCode); err != nil {
		return stderrors.NewStoreUpsertFailedError(err)
	}
	return nil
}
