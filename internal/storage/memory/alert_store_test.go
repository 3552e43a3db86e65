package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

func TestAlertStore_InsertAndGet(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	alerts := []*domain.Alert{
		{ID: "a1", PairAddress: "PairA", CreatedAt: 1000},
		{ID: "a2", PairAddress: "PairA", CreatedAt: 3000},
		{ID: "a3", PairAddress: "PairB", CreatedAt: 2000},
	}
	for _, a := range alerts {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert %s failed: %v", a.ID, err)
		}
	}

	got, err := store.GetByPairAddress(ctx, "PairA")
	if err != nil {
		t.Fatalf("GetByPairAddress failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "a2" || got[1].ID != "a1" {
		t.Errorf("Order = %s, %s; want a2, a1", got[0].ID, got[1].ID)
	}
}

func TestAlertStore_DuplicateID(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Alert{ID: "a1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, &domain.Alert{ID: "a1"}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestSnapshotStore_AppendAndGetOrdered(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	points := []*domain.PairSnapshot{
		{PairAddress: "PairA", TimestampMs: 3000},
		{PairAddress: "PairA", TimestampMs: 1000},
		{PairAddress: "PairB", TimestampMs: 2000},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByPairAddress(ctx, "PairA")
	if err != nil {
		t.Fatalf("GetByPairAddress failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].TimestampMs != 1000 || got[1].TimestampMs != 3000 {
		t.Errorf("Expected ascending timestamps, got %d, %d", got[0].TimestampMs, got[1].TimestampMs)
	}

	// Append-only: duplicates are allowed.
	if err := store.InsertBulk(ctx, points[:1]); err != nil {
		t.Fatalf("Duplicate append failed: %v", err)
	}
}
