package domain

// Alert is an alert record emitted for a token that cleared the stricter
// alert thresholds on top of a filter pass. Delivery is best-effort.
type Alert struct {
	ID           string // uuid
	PairAddress  string
	ChainID      string
	BaseSymbol   string
	PriceUSD     float64
	Volume24h    float64
	LiquidityUSD float64
	HolderCount  int
	RiskScore    float64
	CreatedAt    int64 // Unix timestamp in milliseconds
}
