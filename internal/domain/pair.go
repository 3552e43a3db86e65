package domain

// TokenRef identifies one side of a trading pair.
type TokenRef struct {
	Address string
	Name    string
	Symbol  string
}

// WindowedValues holds a metric over the trailing windows reported upstream.
type WindowedValues struct {
	M5  float64
	H1  float64
	H6  float64
	H24 float64
}

// Liquidity holds pool liquidity as reported by the market-data API.
// Base is denominated in the base token, Quote in the quote token.
type Liquidity struct {
	USD   float64
	Base  float64
	Quote float64
}

// TradingPair is a discovered DEX pair as returned by the market-data API.
// Immutable per fetch; the ingestion cycle never mutates it.
type TradingPair struct {
	PairAddress   string // unique key across the system
	ChainID       string
	DexID         string
	BaseToken     TokenRef
	QuoteToken    TokenRef
	PriceNative   float64 // price in the chain's numeraire
	PriceUSD      float64
	Volume        WindowedValues // USD
	PriceChange   WindowedValues // percent
	Liquidity     Liquidity
	PairCreatedAt int64 // Unix timestamp in milliseconds
}
