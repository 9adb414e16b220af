package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojolink/dojolink/internal/pkg/apperrors"
)

// StagingRepository stores pre-login booking payloads keyed by a UUID with a
// TTL. Replaces ambient client-side "pending booking" state with an explicit,
// expiring record.
type StagingRepository struct {
	db *pgxpool.Pool
}

// NewStagingRepository creates a new StagingRepository
func NewStagingRepository(db *pgxpool.Pool) *StagingRepository {
	return &StagingRepository{db: db}
}

// Create stores a staged booking payload under the given key.
func (r *StagingRepository) Create(ctx context.Context, key string, payload json.RawMessage, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO booking_staging (staging_key, payload, expires_at)
		VALUES ($1, $2, $3)`,
		key, payload, expiresAt)
	if err != nil {
		return fmt.Errorf("error staging booking: %w", err)
	}
	return nil
}

// Claim reads and deletes a staged booking in one statement. Expired or
// unknown keys are reported as not found; a claimed key cannot be claimed
// again.
func (r *StagingRepository) Claim(ctx context.Context, key string) (json.RawMessage, error) {
	var payload json.RawMessage
	err := r.db.QueryRow(ctx, `
		DELETE FROM booking_staging
		WHERE staging_key = $1 AND expires_at > NOW()
		RETURNING payload`,
		key).Scan(&payload)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStagedBookingNotFound
		}
		return nil, fmt.Errorf("error claiming staged booking: %w", err)
	}

	return payload, nil
}

// DeleteExpired removes lapsed staging records. Called opportunistically; the
// Claim filter already ignores them.
func (r *StagingRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM booking_staging WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired staged bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
