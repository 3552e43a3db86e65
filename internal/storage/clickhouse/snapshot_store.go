package clickhouse

import (
	"context"
	"fmt"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using ClickHouse.
// pair_snapshots is an append-only MergeTree table; no uniqueness is
// enforced at insert time.
type SnapshotStore struct {
	conn *Conn
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(conn *Conn) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// InsertBulk appends snapshot points.
func (s *SnapshotStore) InsertBulk(ctx context.Context, points []*domain.PairSnapshot) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pair_snapshots (
			pair_address, chain_id, timestamp_ms,
			price_usd, price_native, volume_24h, liquidity_usd,
			holder_count, risk_score
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.PairAddress, p.ChainID, uint64(p.TimestampMs),
			p.PriceUSD, p.PriceNative, p.Volume24h, p.LiquidityUSD,
			uint32(p.HolderCount), p.RiskScore,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByPairAddress retrieves all snapshots for a pair, ordered by timestamp ASC.
func (s *SnapshotStore) GetByPairAddress(ctx context.Context, pairAddress string) ([]*domain.PairSnapshot, error) {
	query := `
		SELECT pair_address, chain_id, timestamp_ms,
			price_usd, price_native, volume_24h, liquidity_usd,
			holder_count, risk_score
		FROM pair_snapshots
		WHERE pair_address = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, pairAddress)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by pair address: %w", err)
	}
	defer rows.Close()

	var points []*domain.PairSnapshot
	for rows.Next() {
		var p domain.PairSnapshot
		var timestampMs uint64
		var holderCount uint32

		err := rows.Scan(
			&p.PairAddress, &p.ChainID, &timestampMs,
			&p.PriceUSD, &p.PriceNative, &p.Volume24h, &p.LiquidityUSD,
			&holderCount, &p.RiskScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		p.TimestampMs = int64(timestampMs)
		p.HolderCount = int(holderCount)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return points, nil
}
