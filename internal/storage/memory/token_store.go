// Package memory provides in-memory storage implementations for tests
// and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// TokenStore implements storage.TokenStore using in-memory maps.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*domain.StoredToken // keyed by pair address
}

// NewTokenStore creates a new in-memory TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]*domain.StoredToken),
	}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// FindByPairAddress retrieves a token by pair address.
func (s *TokenStore) FindByPairAddress(_ context.Context, pairAddress string) (*domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[pairAddress]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyToken(t), nil
}

// Upsert inserts the token or updates all mutable fields of the
// existing entry. created_at is set only on insert; status is never
// changed by an upsert.
func (s *TokenStore) Upsert(_ context.Context, t *domain.StoredToken) (*domain.StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyToken(t)
	if existing, ok := s.tokens[t.PairAddress]; ok {
		stored.CreatedAt = existing.CreatedAt
		stored.Status = existing.Status
	} else {
		stored.CreatedAt = t.UpdatedAt
	}
	s.tokens[t.PairAddress] = stored

	return copyToken(stored), nil
}

// UpdateStatus sets the lifecycle status of a token.
func (s *TokenStore) UpdateStatus(_ context.Context, pairAddress string, status domain.TokenStatus) (*domain.StoredToken, error) {
	if !status.Valid() {
		return nil, storage.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[pairAddress]
	if !ok {
		return nil, storage.ErrNotFound
	}
	t.Status = status
	return copyToken(t), nil
}

// GetByStatus retrieves all tokens with the given status, ordered by
// updated_at DESC with pair address as tiebreaker.
func (s *TokenStore) GetByStatus(_ context.Context, status domain.TokenStatus) ([]*domain.StoredToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StoredToken
	for _, t := range s.tokens {
		if t.Status == status {
			result = append(result, copyToken(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt != result[j].UpdatedAt {
			return result[i].UpdatedAt > result[j].UpdatedAt
		}
		return result[i].PairAddress < result[j].PairAddress
	})

	return result, nil
}

// copyToken returns a deep copy so callers cannot mutate stored state.
func copyToken(t *domain.StoredToken) *domain.StoredToken {
	c := *t
	c.RiskTags = append([]string(nil), t.RiskTags...)
	return &c
}
