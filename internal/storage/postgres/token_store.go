package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	pair_address, chain_id, dex_id,
	base_address, base_name, base_symbol, quote_address, quote_symbol,
	price_native, price_usd,
	volume_24h, volume_6h, volume_1h, volume_5m,
	price_change_24h, price_change_6h, price_change_1h, price_change_5m,
	liquidity_usd, liquidity_native, pair_created_at,
	risk_score, risk_tags, holder_count, top_holder_pct,
	est_traders, est_market_cap,
	status, created_at, updated_at
`

// FindByPairAddress retrieves a token by pair address. Returns ErrNotFound if not exists.
func (s *TokenStore) FindByPairAddress(ctx context.Context, pairAddress string) (*domain.StoredToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM monitored_tokens
		WHERE pair_address = $1
	`

	row := s.pool.QueryRow(ctx, query, pairAddress)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find token by pair address: %w", err)
	}
	return t, nil
}

// Upsert inserts the token or updates all mutable fields of the existing
// row. created_at is written only on insert; status is never touched on
// update. Returns the stored row.
func (s *TokenStore) Upsert(ctx context.Context, t *domain.StoredToken) (*domain.StoredToken, error) {
	query := `
		INSERT INTO monitored_tokens (` + tokenColumns + `)
		VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21,
			$22, $23, $24, $25,
			$26, $27,
			$28, $29, $29
		)
		ON CONFLICT (pair_address) DO UPDATE SET
			chain_id = EXCLUDED.chain_id,
			dex_id = EXCLUDED.dex_id,
			base_address = EXCLUDED.base_address,
			base_name = EXCLUDED.base_name,
			base_symbol = EXCLUDED.base_symbol,
			quote_address = EXCLUDED.quote_address,
			quote_symbol = EXCLUDED.quote_symbol,
			price_native = EXCLUDED.price_native,
			price_usd = EXCLUDED.price_usd,
			volume_24h = EXCLUDED.volume_24h,
			volume_6h = EXCLUDED.volume_6h,
			volume_1h = EXCLUDED.volume_1h,
			volume_5m = EXCLUDED.volume_5m,
			price_change_24h = EXCLUDED.price_change_24h,
			price_change_6h = EXCLUDED.price_change_6h,
			price_change_1h = EXCLUDED.price_change_1h,
			price_change_5m = EXCLUDED.price_change_5m,
			liquidity_usd = EXCLUDED.liquidity_usd,
			liquidity_native = EXCLUDED.liquidity_native,
			pair_created_at = EXCLUDED.pair_created_at,
			risk_score = EXCLUDED.risk_score,
			risk_tags = EXCLUDED.risk_tags,
			holder_count = EXCLUDED.holder_count,
			top_holder_pct = EXCLUDED.top_holder_pct,
			est_traders = EXCLUDED.est_traders,
			est_market_cap = EXCLUDED.est_market_cap,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + tokenColumns

	row := s.pool.QueryRow(ctx, query,
		t.PairAddress, t.ChainID, t.DexID,
		t.BaseAddress, t.BaseName, t.BaseSymbol, t.QuoteAddress, t.QuoteSymbol,
		t.PriceNative, t.PriceUSD,
		t.Volume24h, t.Volume6h, t.Volume1h, t.Volume5m,
		t.PriceChange24h, t.PriceChange6h, t.PriceChange1h, t.PriceChange5m,
		t.LiquidityUSD, t.LiquidityNative, t.PairCreatedAt,
		t.RiskScore, t.RiskTags, t.HolderCount, t.TopHolderPct,
		t.EstTraders, t.EstMarketCap,
		string(t.Status), t.UpdatedAt,
	)
	saved, err := scanToken(row)
	if err != nil {
		return nil, fmt.Errorf("upsert token: %w", err)
	}
	return saved, nil
}

// UpdateStatus sets the lifecycle status of a token.
func (s *TokenStore) UpdateStatus(ctx context.Context, pairAddress string, status domain.TokenStatus) (*domain.StoredToken, error) {
	if !status.Valid() {
		return nil, storage.ErrInvalidStatus
	}

	query := `
		UPDATE monitored_tokens
		SET status = $2
		WHERE pair_address = $1
		RETURNING ` + tokenColumns

	row := s.pool.QueryRow(ctx, query, pairAddress, string(status))
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("update token status: %w", err)
	}
	return t, nil
}

// GetByStatus retrieves all tokens with the given status, ordered by updated_at DESC.
func (s *TokenStore) GetByStatus(ctx context.Context, status domain.TokenStatus) ([]*domain.StoredToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM monitored_tokens
		WHERE status = $1
		ORDER BY updated_at DESC, pair_address ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get tokens by status: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// scanToken scans a single row into a StoredToken.
func scanToken(row pgx.Row) (*domain.StoredToken, error) {
	var t domain.StoredToken
	var statusStr string

	err := row.Scan(
		&t.PairAddress, &t.ChainID, &t.DexID,
		&t.BaseAddress, &t.BaseName, &t.BaseSymbol, &t.QuoteAddress, &t.QuoteSymbol,
		&t.PriceNative, &t.PriceUSD,
		&t.Volume24h, &t.Volume6h, &t.Volume1h, &t.Volume5m,
		&t.PriceChange24h, &t.PriceChange6h, &t.PriceChange1h, &t.PriceChange5m,
		&t.LiquidityUSD, &t.LiquidityNative, &t.PairCreatedAt,
		&t.RiskScore, &t.RiskTags, &t.HolderCount, &t.TopHolderPct,
		&t.EstTraders, &t.EstMarketCap,
		&statusStr, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TokenStatus(statusStr)
	return &t, nil
}

// scanTokens scans multiple rows into a slice of StoredToken.
func scanTokens(rows pgx.Rows) ([]*domain.StoredToken, error) {
	var tokens []*domain.StoredToken

	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}

	return tokens, nil
}
