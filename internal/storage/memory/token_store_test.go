package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

func sampleToken(addr string, updatedAt int64) *domain.StoredToken {
	return &domain.StoredToken{
		PairAddress: addr,
		ChainID:     "solana",
		DexID:       "raydium",
		BaseSymbol:  "TEST",
		Volume24h:   50000,
		RiskTags:    []string{"low_liquidity"},
		Status:      domain.StatusActive,
		UpdatedAt:   updatedAt,
	}
}

func TestTokenStore_UpsertInsertsAndFinds(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	saved, err := store.Upsert(ctx, sampleToken("PairA", 1000))
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved.CreatedAt != 1000 {
		t.Errorf("CreatedAt = %d, want 1000 (set from updated_at on insert)", saved.CreatedAt)
	}

	found, err := store.FindByPairAddress(ctx, "PairA")
	if err != nil {
		t.Fatalf("FindByPairAddress failed: %v", err)
	}
	if found.BaseSymbol != "TEST" {
		t.Errorf("BaseSymbol = %s", found.BaseSymbol)
	}
}

func TestTokenStore_FindNotFound(t *testing.T) {
	store := NewTokenStore()
	_, err := store.FindByPairAddress(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTokenStore_UpsertPreservesCreatedAtAndStatus(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	if _, err := store.Upsert(ctx, sampleToken("PairA", 1000)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "PairA", domain.StatusRug); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	refreshed := sampleToken("PairA", 2000)
	refreshed.Volume24h = 99999
	saved, err := store.Upsert(ctx, refreshed)
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	if saved.CreatedAt != 1000 {
		t.Errorf("CreatedAt = %d, want original 1000", saved.CreatedAt)
	}
	if saved.UpdatedAt != 2000 {
		t.Errorf("UpdatedAt = %d, want 2000", saved.UpdatedAt)
	}
	if saved.Status != domain.StatusRug {
		t.Errorf("Status = %s, want rug preserved across upsert", saved.Status)
	}
	if saved.Volume24h != 99999 {
		t.Errorf("Volume24h = %.0f, mutable field not updated", saved.Volume24h)
	}
}

func TestTokenStore_UpdateStatus(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	if _, err := store.Upsert(ctx, sampleToken("PairA", 1000)); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	updated, err := store.UpdateStatus(ctx, "PairA", domain.StatusDelisted)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != domain.StatusDelisted {
		t.Errorf("Status = %s, want delisted", updated.Status)
	}

	if _, err := store.UpdateStatus(ctx, "PairA", domain.TokenStatus("bogus")); !errors.Is(err, storage.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := store.UpdateStatus(ctx, "missing", domain.StatusActive); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTokenStore_GetByStatusOrdering(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	store.Upsert(ctx, sampleToken("Old", 1000))
	store.Upsert(ctx, sampleToken("New", 3000))
	store.Upsert(ctx, sampleToken("Mid", 2000))

	flagged := sampleToken("Flagged", 5000)
	store.Upsert(ctx, flagged)
	store.UpdateStatus(ctx, "Flagged", domain.StatusFlagged)

	active, err := store.GetByStatus(ctx, domain.StatusActive)
	if err != nil {
		t.Fatalf("GetByStatus failed: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("len(active) = %d, want 3", len(active))
	}
	want := []string{"New", "Mid", "Old"}
	for i, addr := range want {
		if active[i].PairAddress != addr {
			t.Errorf("active[%d] = %s, want %s", i, active[i].PairAddress, addr)
		}
	}
}

func TestTokenStore_CopyOnRead(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	store.Upsert(ctx, sampleToken("PairA", 1000))

	found, _ := store.FindByPairAddress(ctx, "PairA")
	found.BaseSymbol = "MUTATED"
	found.RiskTags[0] = "mutated"

	again, _ := store.FindByPairAddress(ctx, "PairA")
	if again.BaseSymbol != "TEST" || again.RiskTags[0] != "low_liquidity" {
		t.Error("Stored state mutated through a returned copy")
	}
}
