package domain

// PairSnapshot is an append-only per-cycle capture of a pair's metrics.
// Written after each successful upsert; backs dashboard history queries.
// Corresponds to the pair_snapshots table in ClickHouse.
type PairSnapshot struct {
	PairAddress  string
	ChainID      string
	TimestampMs  int64
	PriceUSD     float64
	PriceNative  float64
	Volume24h    float64
	LiquidityUSD float64
	HolderCount  int
	RiskScore    float64
}
