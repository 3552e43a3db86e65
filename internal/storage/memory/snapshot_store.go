package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using an in-memory slice.
type SnapshotStore struct {
	mu     sync.RWMutex
	points []*domain.PairSnapshot
}

// NewSnapshotStore creates a new in-memory SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk appends snapshot points. Append-only; no uniqueness.
func (s *SnapshotStore) InsertBulk(_ context.Context, points []*domain.PairSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		c := *p
		s.points = append(s.points, &c)
	}
	return nil
}

// GetByPairAddress retrieves all snapshots for a pair, ordered by timestamp ASC.
func (s *SnapshotStore) GetByPairAddress(_ context.Context, pairAddress string) ([]*domain.PairSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PairSnapshot
	for _, p := range s.points {
		if p.PairAddress == pairAddress {
			c := *p
			result = append(result, &c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}
