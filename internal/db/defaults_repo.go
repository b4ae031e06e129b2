package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// DefaultsRepository persists saved filter defaults per profile in the
// filter_defaults table. The selection snapshot is stored as a jsonb payload
// so new filter fields never require a migration.
type DefaultsRepository struct {
	db DBTX
}

// NewDefaultsRepository creates a DefaultsRepository backed by the given
// database connection (pool or transaction).
func NewDefaultsRepository(db DBTX) *DefaultsRepository {
	return &DefaultsRepository{db: db}
}

// Save upserts the saved filter defaults for profile.
func (r *DefaultsRepository) Save(ctx context.Context, profile string, saved types.SavedFilters) error {
	payload, err := json.Marshal(saved)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to encode filter defaults", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO filter_defaults (profile, payload, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (profile)
		 DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		profile,
		payload,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to save filter defaults", err)
	}
	return nil
}

// Load retrieves the saved filter defaults for profile. The second return
// value reports whether a saved row exists.
func (r *DefaultsRepository) Load(ctx context.Context, profile string) (types.SavedFilters, bool, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM filter_defaults WHERE profile = $1`,
		profile,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.SavedFilters{}, false, nil
		}
		return types.SavedFilters{}, false, types.NewAppError(types.ErrCodeInternalDB, "failed to load filter defaults", err)
	}

	var saved types.SavedFilters
	if err := json.Unmarshal(payload, &saved); err != nil {
		return types.SavedFilters{}, false, types.NewAppError(types.ErrCodeInternalDB, "failed to decode filter defaults", err)
	}
	return saved, true, nil
}

// Delete removes the saved filter defaults for profile. Deleting a profile
// that has no saved defaults is not an error.
func (r *DefaultsRepository) Delete(ctx context.Context, profile string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM filter_defaults WHERE profile = $1`,
		profile,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete filter defaults", err)
	}
	return nil
}
