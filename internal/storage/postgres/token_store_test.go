package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
	"github.com/audvakr/token-monitor-system/internal/storage/postgres"
)

func sampleToken(addr string, updatedAt int64) *domain.StoredToken {
	return &domain.StoredToken{
		PairAddress:     addr,
		ChainID:         "solana",
		DexID:           "raydium",
		BaseAddress:     "MintAddr111",
		BaseName:        "Test Token",
		BaseSymbol:      "TEST",
		QuoteAddress:    "So11111111111111111111111111111111111111112",
		QuoteSymbol:     "SOL",
		PriceNative:     0.000005,
		PriceUSD:        0.001,
		Volume24h:       42000,
		PriceChange24h:  12.5,
		LiquidityUSD:    25000,
		LiquidityNative: 125,
		PairCreatedAt:   1700000000000,
		RiskScore:       2.5,
		RiskTags:        []string{"low_liquidity"},
		HolderCount:     420,
		TopHolderPct:    18.5,
		EstTraders:      42,
		EstMarketCap:    250000,
		Status:          domain.StatusActive,
		UpdatedAt:       updatedAt,
	}
}

func TestTokenStore_UpsertRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTokenStore(pool)
	ctx := context.Background()

	saved, err := store.Upsert(ctx, sampleToken("PairA", 1000))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), saved.CreatedAt, "created_at set from updated_at on insert")
	assert.Equal(t, domain.StatusActive, saved.Status)

	found, err := store.FindByPairAddress(ctx, "PairA")
	require.NoError(t, err)
	assert.Equal(t, "TEST", found.BaseSymbol)
	assert.Equal(t, []string{"low_liquidity"}, found.RiskTags)
	assert.Equal(t, 420, found.HolderCount)
	assert.Equal(t, int64(42), found.EstTraders)
	assert.InDelta(t, 0.001, found.PriceUSD, 1e-9)
}

func TestTokenStore_UpsertPreservesCreatedAtAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTokenStore(pool)
	ctx := context.Background()

	_, err := store.Upsert(ctx, sampleToken("PairA", 1000))
	require.NoError(t, err)

	_, err = store.UpdateStatus(ctx, "PairA", domain.StatusFlagged)
	require.NoError(t, err)

	refreshed := sampleToken("PairA", 2000)
	refreshed.Volume24h = 99999
	saved, err := store.Upsert(ctx, refreshed)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), saved.CreatedAt, "created_at survives the upsert")
	assert.Equal(t, int64(2000), saved.UpdatedAt)
	assert.Equal(t, domain.StatusFlagged, saved.Status, "status untouched by upsert")
	assert.Equal(t, float64(99999), saved.Volume24h)
}

func TestTokenStore_FindNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTokenStore(pool)
	_, err := store.FindByPairAddress(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenStore_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTokenStore(pool)
	ctx := context.Background()

	_, err := store.Upsert(ctx, sampleToken("PairA", 1000))
	require.NoError(t, err)

	updated, err := store.UpdateStatus(ctx, "PairA", domain.StatusRug)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRug, updated.Status)

	_, err = store.UpdateStatus(ctx, "PairA", domain.TokenStatus("bogus"))
	assert.ErrorIs(t, err, storage.ErrInvalidStatus)

	_, err = store.UpdateStatus(ctx, "missing", domain.StatusActive)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenStore_GetByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTokenStore(pool)
	ctx := context.Background()

	for _, tok := range []*domain.StoredToken{
		sampleToken("Old", 1000),
		sampleToken("New", 3000),
		sampleToken("Mid", 2000),
	} {
		_, err := store.Upsert(ctx, tok)
		require.NoError(t, err)
	}
	_, err := store.Upsert(ctx, sampleToken("Flagged", 5000))
	require.NoError(t, err)
	_, err = store.UpdateStatus(ctx, "Flagged", domain.StatusFlagged)
	require.NoError(t, err)

	active, err := store.GetByStatus(ctx, domain.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 3)

	// updated_at DESC
	assert.Equal(t, "New", active[0].PairAddress)
	assert.Equal(t, "Mid", active[1].PairAddress)
	assert.Equal(t, "Old", active[2].PairAddress)

	flagged, err := store.GetByStatus(ctx, domain.StatusFlagged)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, "Flagged", flagged[0].PairAddress)
}
