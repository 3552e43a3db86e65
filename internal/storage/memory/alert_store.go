package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// AlertStore implements storage.AlertStore using in-memory maps.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]*domain.Alert // keyed by alert ID
}

// NewAlertStore creates a new in-memory AlertStore.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		alerts: make(map[string]*domain.Alert),
	}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

// Insert adds a new alert. Returns ErrDuplicateKey if the ID exists.
func (s *AlertStore) Insert(_ context.Context, a *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.alerts[a.ID]; exists {
		return storage.ErrDuplicateKey
	}

	c := *a
	s.alerts[a.ID] = &c
	return nil
}

// GetByPairAddress retrieves all alerts for a pair, newest first.
func (s *AlertStore) GetByPairAddress(_ context.Context, pairAddress string) ([]*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Alert
	for _, a := range s.alerts {
		if a.PairAddress == pairAddress {
			c := *a
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}
