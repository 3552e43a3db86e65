package storage

import (
	"context"

	"github.com/audvakr/token-monitor-system/internal/domain"
)

// TokenStore provides access to monitored_tokens storage.
type TokenStore interface {
	// FindByPairAddress retrieves a token by pair address.
	// Returns ErrNotFound if it does not exist.
	FindByPairAddress(ctx context.Context, pairAddress string) (*domain.StoredToken, error)

	// Upsert inserts the token or, if the pair address already exists,
	// updates all mutable fields. created_at is set only on insert and
	// status is never changed by an upsert. Returns the stored row.
	Upsert(ctx context.Context, t *domain.StoredToken) (*domain.StoredToken, error)

	// UpdateStatus sets the lifecycle status of a token.
	// Returns ErrInvalidStatus for unknown status values and ErrNotFound
	// if the pair address does not exist.
	UpdateStatus(ctx context.Context, pairAddress string, status domain.TokenStatus) (*domain.StoredToken, error)

	// GetByStatus retrieves all tokens with the given status,
	// ordered by updated_at DESC.
	GetByStatus(ctx context.Context, status domain.TokenStatus) ([]*domain.StoredToken, error)
}

// AlertStore provides access to token_alerts storage.
type AlertStore interface {
	// Insert adds a new alert. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, a *domain.Alert) error

	// GetByPairAddress retrieves all alerts for a pair, newest first.
	GetByPairAddress(ctx context.Context, pairAddress string) ([]*domain.Alert, error)
}

// SnapshotStore provides access to pair_snapshots storage.
type SnapshotStore interface {
	// InsertBulk appends snapshot points. Append-only; no uniqueness.
	InsertBulk(ctx context.Context, points []*domain.PairSnapshot) error

	// GetByPairAddress retrieves all snapshots for a pair, ordered by
	// timestamp ASC.
	GetByPairAddress(ctx context.Context, pairAddress string) ([]*domain.PairSnapshot, error)
}
