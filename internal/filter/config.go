package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/audvakr/token-monitor-system/internal/domain"
)

// Proxy constants used when the config leaves them unset. See the notes
// on Config.TraderCountDivisor and Config.MarketCapMultiplier.
const (
	DefaultTraderCountDivisor  = 1000.0 // USD of 24h volume per estimated trader
	DefaultMarketCapMultiplier = 10.0   // market cap as a multiple of USD liquidity
)

// Config parameterizes the token filter. A nil pointer field means "no
// bound": the corresponding stage is skipped. All comparisons are
// inclusive at the configured bound.
type Config struct {
	// Chain allow-list. Empty means any chain.
	AllowedChains []string `json:"allowed_chains,omitempty"`

	// Age bounds on now - pairCreatedAt.
	MinTokenAge *time.Duration `json:"min_token_age,omitempty"`
	MaxTokenAge *time.Duration `json:"max_token_age,omitempty"`

	// Exchange allow/block lists.
	AllowedDexes []string `json:"allowed_dexes,omitempty"`
	BlockedDexes []string `json:"blocked_dexes,omitempty"`

	// Trailing-24h volume bounds (USD).
	MinVolume24h *float64 `json:"min_volume_24h,omitempty"`
	MaxVolume24h *float64 `json:"max_volume_24h,omitempty"`

	// Liquidity bounds (USD) plus a numeraire-denominated minimum.
	MinLiquidityUSD    *float64 `json:"min_liquidity_usd,omitempty"`
	MaxLiquidityUSD    *float64 `json:"max_liquidity_usd,omitempty"`
	MinLiquidityNative *float64 `json:"min_liquidity_native,omitempty"`

	// Pump/dump guards on the 24h price change percentage.
	MinPriceChange24h *float64 `json:"min_price_change_24h,omitempty"`
	MaxPriceChange24h *float64 `json:"max_price_change_24h,omitempty"`

	// Holder-distribution bounds.
	MinHolders      *int     `json:"min_holders,omitempty"`
	MaxTopHolderPct *float64 `json:"max_top_holder_pct,omitempty"`

	// Risk-score ceiling and blocked risk tags.
	MaxRiskScore    *float64 `json:"max_risk_score,omitempty"`
	BlockedRiskTags []string `json:"blocked_risk_tags,omitempty"`

	// Estimated-trader-count floor. The estimate is
	// floor(volume24h / TraderCountDivisor) - a linear proxy for trade
	// count in the absence of a direct trade feed, not ground truth.
	MinTraders         *int64  `json:"min_traders,omitempty"`
	TraderCountDivisor float64 `json:"trader_count_divisor,omitempty"`

	// Market-capitalization bounds. The estimate is
	// liquidityUSD * MarketCapMultiplier - a rough proxy assuming
	// liquidity tracks a constant fraction of market cap.
	MinMarketCap        *float64 `json:"min_market_cap,omitempty"`
	MaxMarketCap        *float64 `json:"max_market_cap,omitempty"`
	MarketCapMultiplier float64  `json:"market_cap_multiplier,omitempty"`
}

// DefaultConfig returns the deployment defaults for a chain profile.
func DefaultConfig(profile domain.ChainProfile) Config {
	return Config{
		AllowedChains:       []string{profile.ChainID},
		MinTokenAge:         durationPtr(5 * time.Minute),
		MaxTokenAge:         durationPtr(24 * time.Hour),
		AllowedDexes:        append([]string(nil), profile.DefaultDexes...),
		MinVolume24h:        floatPtr(1000),
		MinLiquidityUSD:     floatPtr(5000),
		MinHolders:          intPtr(50),
		MaxTopHolderPct:     floatPtr(30),
		MaxRiskScore:        floatPtr(6),
		BlockedRiskTags:     []string{"honeypot", "freeze_authority_enabled"},
		MinTraders:          int64Ptr(10),
		TraderCountDivisor:  DefaultTraderCountDivisor,
		MarketCapMultiplier: DefaultMarketCapMultiplier,
	}
}

// Merge returns a copy of c with every field that is set in partial
// applied over it. Unset fields (nil pointers, nil slices, zero
// divisor/multiplier) retain their prior values. Shallow merge.
func (c Config) Merge(partial Config) Config {
	merged := c

	if partial.AllowedChains != nil {
		merged.AllowedChains = partial.AllowedChains
	}
	if partial.MinTokenAge != nil {
		merged.MinTokenAge = partial.MinTokenAge
	}
	if partial.MaxTokenAge != nil {
		merged.MaxTokenAge = partial.MaxTokenAge
	}
	if partial.AllowedDexes != nil {
		merged.AllowedDexes = partial.AllowedDexes
	}
	if partial.BlockedDexes != nil {
		merged.BlockedDexes = partial.BlockedDexes
	}
	if partial.MinVolume24h != nil {
		merged.MinVolume24h = partial.MinVolume24h
	}
	if partial.MaxVolume24h != nil {
		merged.MaxVolume24h = partial.MaxVolume24h
	}
	if partial.MinLiquidityUSD != nil {
		merged.MinLiquidityUSD = partial.MinLiquidityUSD
	}
	if partial.MaxLiquidityUSD != nil {
		merged.MaxLiquidityUSD = partial.MaxLiquidityUSD
	}
	if partial.MinLiquidityNative != nil {
		merged.MinLiquidityNative = partial.MinLiquidityNative
	}
	if partial.MinPriceChange24h != nil {
		merged.MinPriceChange24h = partial.MinPriceChange24h
	}
	if partial.MaxPriceChange24h != nil {
		merged.MaxPriceChange24h = partial.MaxPriceChange24h
	}
	if partial.MinHolders != nil {
		merged.MinHolders = partial.MinHolders
	}
	if partial.MaxTopHolderPct != nil {
		merged.MaxTopHolderPct = partial.MaxTopHolderPct
	}
	if partial.MaxRiskScore != nil {
		merged.MaxRiskScore = partial.MaxRiskScore
	}
	if partial.BlockedRiskTags != nil {
		merged.BlockedRiskTags = partial.BlockedRiskTags
	}
	if partial.MinTraders != nil {
		merged.MinTraders = partial.MinTraders
	}
	if partial.TraderCountDivisor > 0 {
		merged.TraderCountDivisor = partial.TraderCountDivisor
	}
	if partial.MinMarketCap != nil {
		merged.MinMarketCap = partial.MinMarketCap
	}
	if partial.MaxMarketCap != nil {
		merged.MaxMarketCap = partial.MaxMarketCap
	}
	if partial.MarketCapMultiplier > 0 {
		merged.MarketCapMultiplier = partial.MarketCapMultiplier
	}

	return merged
}

// Validate rejects configurations whose bounds cannot be satisfied.
func (c Config) Validate() error {
	var errs []error

	if c.MinTokenAge != nil && c.MaxTokenAge != nil && *c.MinTokenAge > *c.MaxTokenAge {
		errs = append(errs, errors.New("min_token_age exceeds max_token_age"))
	}
	if c.MinVolume24h != nil && c.MaxVolume24h != nil && *c.MinVolume24h > *c.MaxVolume24h {
		errs = append(errs, errors.New("min_volume_24h exceeds max_volume_24h"))
	}
	if c.MinLiquidityUSD != nil && c.MaxLiquidityUSD != nil && *c.MinLiquidityUSD > *c.MaxLiquidityUSD {
		errs = append(errs, errors.New("min_liquidity_usd exceeds max_liquidity_usd"))
	}
	if c.MinPriceChange24h != nil && c.MaxPriceChange24h != nil && *c.MinPriceChange24h > *c.MaxPriceChange24h {
		errs = append(errs, errors.New("min_price_change_24h exceeds max_price_change_24h"))
	}
	if c.MinMarketCap != nil && c.MaxMarketCap != nil && *c.MinMarketCap > *c.MaxMarketCap {
		errs = append(errs, errors.New("min_market_cap exceeds max_market_cap"))
	}
	if c.MinHolders != nil && *c.MinHolders < 0 {
		errs = append(errs, errors.New("min_holders is negative"))
	}
	if c.MaxTopHolderPct != nil && (*c.MaxTopHolderPct < 0 || *c.MaxTopHolderPct > 100) {
		errs = append(errs, fmt.Errorf("max_top_holder_pct %.2f outside [0, 100]", *c.MaxTopHolderPct))
	}
	if c.MaxRiskScore != nil && (*c.MaxRiskScore < 0 || *c.MaxRiskScore > 10) {
		errs = append(errs, fmt.Errorf("max_risk_score %.2f outside [0, 10]", *c.MaxRiskScore))
	}
	if c.TraderCountDivisor < 0 {
		errs = append(errs, errors.New("trader_count_divisor is negative"))
	}
	if c.MarketCapMultiplier < 0 {
		errs = append(errs, errors.New("market_cap_multiplier is negative"))
	}

	return errors.Join(errs...)
}

// divisor returns the effective trader-count divisor.
func (c Config) divisor() float64 {
	if c.TraderCountDivisor > 0 {
		return c.TraderCountDivisor
	}
	return DefaultTraderCountDivisor
}

// multiplier returns the effective market-cap multiplier.
func (c Config) multiplier() float64 {
	if c.MarketCapMultiplier > 0 {
		return c.MarketCapMultiplier
	}
	return DefaultMarketCapMultiplier
}

func durationPtr(d time.Duration) *time.Duration { return &d }
func floatPtr(f float64) *float64                { return &f }
func intPtr(i int) *int                          { return &i }
func int64Ptr(i int64) *int64                    { return &i }
