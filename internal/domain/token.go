package domain

// TokenStatus is the lifecycle state of a stored token.
// The ingestion cycle only ever writes StatusActive; all other transitions
// happen through the explicit status-update operation.
type TokenStatus string

const (
	StatusActive   TokenStatus = "active"
	StatusFlagged  TokenStatus = "flagged"
	StatusRug      TokenStatus = "rug"
	StatusDelisted TokenStatus = "delisted"
)

// Valid reports whether s is one of the known lifecycle states.
func (s TokenStatus) Valid() bool {
	switch s {
	case StatusActive, StatusFlagged, StatusRug, StatusDelisted:
		return true
	}
	return false
}

// StoredToken is the persisted entity for a pair that passed the filter.
// Corresponds to the monitored_tokens table; keyed by unique pair_address.
type StoredToken struct {
	PairAddress string // PRIMARY KEY
	ChainID     string
	DexID       string

	BaseAddress string
	BaseName    string
	BaseSymbol  string

	QuoteAddress string
	QuoteSymbol  string

	PriceNative float64
	PriceUSD    float64

	Volume24h float64
	Volume6h  float64
	Volume1h  float64
	Volume5m  float64

	PriceChange24h float64
	PriceChange6h  float64
	PriceChange1h  float64
	PriceChange5m  float64

	LiquidityUSD    float64
	LiquidityNative float64 // denominated in the chain's numeraire

	PairCreatedAt int64 // Unix timestamp in milliseconds

	// Derived during filtering
	RiskScore    float64
	RiskTags     []string
	HolderCount  int
	TopHolderPct float64
	EstTraders   int64
	EstMarketCap float64

	Status    TokenStatus
	CreatedAt int64 // set once on insert (ms)
	UpdatedAt int64 // bumped on every successful upsert (ms)
}
