package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// AlertStore implements storage.AlertStore using PostgreSQL.
type AlertStore struct {
	pool *Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

// Insert adds a new alert. Returns ErrDuplicateKey if the ID exists.
func (s *AlertStore) Insert(ctx context.Context, a *domain.Alert) error {
	query := `
		INSERT INTO token_alerts (
			alert_id, pair_address, chain_id, base_symbol,
			price_usd, volume_24h, liquidity_usd, holder_count, risk_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID,
		a.PairAddress,
		a.ChainID,
		a.BaseSymbol,
		a.PriceUSD,
		a.Volume24h,
		a.LiquidityUSD,
		a.HolderCount,
		a.RiskScore,
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByPairAddress retrieves all alerts for a pair, newest first.
func (s *AlertStore) GetByPairAddress(ctx context.Context, pairAddress string) ([]*domain.Alert, error) {
	query := `
		SELECT alert_id, pair_address, chain_id, base_symbol,
			price_usd, volume_24h, liquidity_usd, holder_count, risk_score, created_at
		FROM token_alerts
		WHERE pair_address = $1
		ORDER BY created_at DESC, alert_id ASC
	`

	rows, err := s.pool.Query(ctx, query, pairAddress)
	if err != nil {
		return nil, fmt.Errorf("get alerts by pair address: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert rows: %w", err)
	}

	return alerts, nil
}

// scanAlert scans a single row into an Alert.
func scanAlert(row pgx.Row) (*domain.Alert, error) {
	var a domain.Alert
	err := row.Scan(
		&a.ID,
		&a.PairAddress,
		&a.ChainID,
		&a.BaseSymbol,
		&a.PriceUSD,
		&a.Volume24h,
		&a.LiquidityUSD,
		&a.HolderCount,
		&a.RiskScore,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
