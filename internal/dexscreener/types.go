package dexscreener

import (
	"strconv"

	"github.com/audvakr/token-monitor-system/internal/domain"
)

// pairsResponse is the envelope returned by the pairs endpoint.
type pairsResponse struct {
	SchemaVersion string        `json:"schemaVersion"`
	Pairs         []pairPayload `json:"pairs"`
}

// pairPayload mirrors one pair object in the DexScreener payload.
// Prices arrive as decimal strings; everything else is numeric.
type pairPayload struct {
	ChainID       string             `json:"chainId"`
	DexID         string             `json:"dexId"`
	PairAddress   string             `json:"pairAddress"`
	BaseToken     tokenPayload       `json:"baseToken"`
	QuoteToken    tokenPayload       `json:"quoteToken"`
	PriceNative   string             `json:"priceNative"`
	PriceUSD      string             `json:"priceUsd"`
	Volume        windowPayload      `json:"volume"`
	PriceChange   windowPayload      `json:"priceChange"`
	Liquidity     *liquidityPayload  `json:"liquidity"` // pointer: may be null
	PairCreatedAt int64              `json:"pairCreatedAt"`
}

type tokenPayload struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type windowPayload struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type liquidityPayload struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// toDomain converts the wire payload into a TradingPair. Unparseable
// price strings become zero; the filter's structural stage decides what
// to do with incomplete pairs.
func (p *pairPayload) toDomain() domain.TradingPair {
	pair := domain.TradingPair{
		PairAddress: p.PairAddress,
		ChainID:     p.ChainID,
		DexID:       p.DexID,
		BaseToken: domain.TokenRef{
			Address: p.BaseToken.Address,
			Name:    p.BaseToken.Name,
			Symbol:  p.BaseToken.Symbol,
		},
		QuoteToken: domain.TokenRef{
			Address: p.QuoteToken.Address,
			Name:    p.QuoteToken.Name,
			Symbol:  p.QuoteToken.Symbol,
		},
		PriceNative:   parsePrice(p.PriceNative),
		PriceUSD:      parsePrice(p.PriceUSD),
		Volume:        domain.WindowedValues(p.Volume),
		PriceChange:   domain.WindowedValues(p.PriceChange),
		PairCreatedAt: p.PairCreatedAt,
	}
	if p.Liquidity != nil {
		pair.Liquidity = domain.Liquidity(*p.Liquidity)
	}
	return pair
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
