// Package filter decides, for each discovered pair plus its risk record,
// whether the token is worth retaining. Evaluation is an ordered
// short-circuit chain: the first failing stage terminates evaluation.
package filter

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/solana"
)

// Stage identifies one stage of the filter chain.
type Stage string

// Stage identifiers, in evaluation order.
const (
	StageValidation          Stage = "validation"
	StageChain               Stage = "chain"
	StageAgeMin              Stage = "age_min"
	StageAgeMax              Stage = "age_max"
	StageDexBlocked          Stage = "dex_blocked"
	StageDexAllowed          Stage = "dex_allowed"
	StageVolumeMin           Stage = "volume_min"
	StageVolumeMax           Stage = "volume_max"
	StageLiquidityMin        Stage = "liquidity_min"
	StageLiquidityMax        Stage = "liquidity_max"
	StageLiquidityNativeMin  Stage = "liquidity_native_min"
	StagePriceChangeMin      Stage = "price_change_min"
	StagePriceChangeMax      Stage = "price_change_max"
	StageHoldersMin          Stage = "holders_min"
	StageHolderConcentration Stage = "holder_concentration"
	StageRugScore            Stage = "rug_score"
	StageRiskTypes           Stage = "risk_types"
	StageNetTraders          Stage = "net_traders"
	StageMarketCapMin        Stage = "market_cap_min"
	StageMarketCapMax        Stage = "market_cap_max"
	StageFreezeAuthority     Stage = "freeze_authority"
	StageMintAuthority       Stage = "mint_authority"
)

// Derived carries the quantities computed during a passing evaluation,
// needed by the caller for persistence and alerting.
type Derived struct {
	HolderCount     int
	TopHolderPct    float64
	RiskScore       float64
	RiskTags        []string
	EstTraders      int64
	EstMarketCap    float64
	LiquidityNative float64
}

// Outcome is the result of one filter evaluation. When Passed is false,
// Stage names the failing stage and Evaluated lists every stage that ran
// before (and including) it, in order. The reference policy stops at the
// first failure, so the failing stage is the last element; the list
// exists to support multi-reason policies.
type Outcome struct {
	Passed    bool
	Reason    string
	Stage     Stage
	Evaluated []Stage
	Derived   *Derived
}

// Filter is the pure pass/fail decision function. The configuration is
// replaced atomically on update, never mutated in place, so concurrent
// evaluations always observe a complete config.
type Filter struct {
	profile domain.ChainProfile
	cfg     atomic.Pointer[Config]
	now     func() time.Time
}

// FilterOption configures Filter.
type FilterOption func(*Filter)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) FilterOption {
	return func(f *Filter) { f.now = now }
}

// New creates a filter for the given chain profile and configuration.
func New(profile domain.ChainProfile, cfg Config, opts ...FilterOption) *Filter {
	f := &Filter{
		profile: profile,
		now:     time.Now,
	}
	f.cfg.Store(&cfg)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns a copy of the current configuration.
func (f *Filter) Config() Config {
	return *f.cfg.Load()
}

// UpdateConfig shallow-merges partial into the current configuration and
// swaps the result in atomically. Returns the merged config, or an error
// if the merge result fails validation; a rejected update is never
// partially applied.
func (f *Filter) UpdateConfig(partial Config) (Config, error) {
	merged := f.cfg.Load().Merge(partial)
	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid filter config: %w", err)
	}
	f.cfg.Store(&merged)
	return merged, nil
}

// evaluation tracks chain state for a single Evaluate call.
type evaluation struct {
	evaluated []Stage
}

func (e *evaluation) visit(stage Stage) {
	e.evaluated = append(e.evaluated, stage)
}

func (e *evaluation) fail(stage Stage, format string, args ...interface{}) Outcome {
	return Outcome{
		Passed:    false,
		Reason:    fmt.Sprintf(format, args...),
		Stage:     stage,
		Evaluated: e.evaluated,
	}
}

// Evaluate runs the filter chain for a pair and its risk record. Pure
// function of its inputs plus the current configuration; no side effects.
func (f *Filter) Evaluate(pair *domain.TradingPair, risk *domain.RiskRecord) Outcome {
	cfg := f.cfg.Load()
	e := &evaluation{}

	// 1. Structural validation.
	e.visit(StageValidation)
	if pair == nil || pair.PairAddress == "" {
		return e.fail(StageValidation, "pair address missing")
	}
	if pair.BaseToken.Address == "" {
		return e.fail(StageValidation, "base token address missing")
	}
	if f.profile.ChecksAuthorities && !solana.ValidAddress(pair.BaseToken.Address) {
		return e.fail(StageValidation, "base token address %q is not a valid address", pair.BaseToken.Address)
	}

	// 2. Chain allow-list.
	if len(cfg.AllowedChains) > 0 {
		e.visit(StageChain)
		if !contains(cfg.AllowedChains, pair.ChainID) {
			return e.fail(StageChain, "chain %s not in allow-list", pair.ChainID)
		}
	}

	// 3. Age bounds. Skipped entirely when the creation time is unknown.
	if pair.PairCreatedAt > 0 {
		age := f.now().Sub(time.UnixMilli(pair.PairCreatedAt))
		if cfg.MinTokenAge != nil {
			e.visit(StageAgeMin)
			if age < *cfg.MinTokenAge {
				return e.fail(StageAgeMin, "pair age %s below minimum %s", age.Round(time.Second), *cfg.MinTokenAge)
			}
		}
		if cfg.MaxTokenAge != nil {
			e.visit(StageAgeMax)
			if age > *cfg.MaxTokenAge {
				return e.fail(StageAgeMax, "pair age %s above maximum %s", age.Round(time.Second), *cfg.MaxTokenAge)
			}
		}
	}

	// 4. Exchange block/allow lists.
	if len(cfg.BlockedDexes) > 0 {
		e.visit(StageDexBlocked)
		if contains(cfg.BlockedDexes, pair.DexID) {
			return e.fail(StageDexBlocked, "dex %s is blocked", pair.DexID)
		}
	}
	if len(cfg.AllowedDexes) > 0 {
		e.visit(StageDexAllowed)
		if !contains(cfg.AllowedDexes, pair.DexID) {
			return e.fail(StageDexAllowed, "dex %s not in allow-list", pair.DexID)
		}
	}

	// 5. Trailing-24h volume bounds (USD).
	if cfg.MinVolume24h != nil {
		e.visit(StageVolumeMin)
		if pair.Volume.H24 < *cfg.MinVolume24h {
			return e.fail(StageVolumeMin, "volume24h %.2f below minimum %.2f", pair.Volume.H24, *cfg.MinVolume24h)
		}
	}
	if cfg.MaxVolume24h != nil {
		e.visit(StageVolumeMax)
		if pair.Volume.H24 > *cfg.MaxVolume24h {
			return e.fail(StageVolumeMax, "volume24h %.2f above maximum %.2f", pair.Volume.H24, *cfg.MaxVolume24h)
		}
	}

	// 6. Liquidity bounds (USD + numeraire).
	if cfg.MinLiquidityUSD != nil {
		e.visit(StageLiquidityMin)
		if pair.Liquidity.USD < *cfg.MinLiquidityUSD {
			return e.fail(StageLiquidityMin, "liquidity %.2f USD below minimum %.2f", pair.Liquidity.USD, *cfg.MinLiquidityUSD)
		}
	}
	if cfg.MaxLiquidityUSD != nil {
		e.visit(StageLiquidityMax)
		if pair.Liquidity.USD > *cfg.MaxLiquidityUSD {
			return e.fail(StageLiquidityMax, "liquidity %.2f USD above maximum %.2f", pair.Liquidity.USD, *cfg.MaxLiquidityUSD)
		}
	}
	nativeLiq, nativeTracked := f.nativeLiquidity(pair)
	if cfg.MinLiquidityNative != nil && nativeTracked {
		e.visit(StageLiquidityNativeMin)
		if nativeLiq < *cfg.MinLiquidityNative {
			return e.fail(StageLiquidityNativeMin, "liquidity %.2f %s below minimum %.2f",
				nativeLiq, f.profile.NativeSymbol, *cfg.MinLiquidityNative)
		}
	}

	// 7. Pump/dump guards.
	if cfg.MinPriceChange24h != nil {
		e.visit(StagePriceChangeMin)
		if pair.PriceChange.H24 < *cfg.MinPriceChange24h {
			return e.fail(StagePriceChangeMin, "price change %.2f%% below minimum %.2f%%", pair.PriceChange.H24, *cfg.MinPriceChange24h)
		}
	}
	if cfg.MaxPriceChange24h != nil {
		e.visit(StagePriceChangeMax)
		if pair.PriceChange.H24 > *cfg.MaxPriceChange24h {
			return e.fail(StagePriceChangeMax, "price change %.2f%% above maximum %.2f%%", pair.PriceChange.H24, *cfg.MaxPriceChange24h)
		}
	}

	// 8. Holder distribution.
	if cfg.MinHolders != nil {
		e.visit(StageHoldersMin)
		if risk.HolderSummary.TotalHolders < *cfg.MinHolders {
			return e.fail(StageHoldersMin, "%d holders below minimum %d", risk.HolderSummary.TotalHolders, *cfg.MinHolders)
		}
	}
	if cfg.MaxTopHolderPct != nil {
		e.visit(StageHolderConcentration)
		if risk.HolderSummary.TopConcentrationPct > *cfg.MaxTopHolderPct {
			return e.fail(StageHolderConcentration, "top holder concentration %.2f%% above maximum %.2f%%",
				risk.HolderSummary.TopConcentrationPct, *cfg.MaxTopHolderPct)
		}
	}

	// 9. Risk-score ceiling.
	if cfg.MaxRiskScore != nil {
		e.visit(StageRugScore)
		if risk.Score > *cfg.MaxRiskScore {
			return e.fail(StageRugScore, "risk score %.2f above ceiling %.2f", risk.Score, *cfg.MaxRiskScore)
		}
	}

	// 10. Blocked risk-tag intersection.
	if len(cfg.BlockedRiskTags) > 0 {
		e.visit(StageRiskTypes)
		for _, tag := range cfg.BlockedRiskTags {
			if risk.HasTag(tag) {
				return e.fail(StageRiskTypes, "risk tag %q is blocked", tag)
			}
		}
	}

	// 11. Estimated-trader-count floor.
	estTraders := int64(math.Floor(pair.Volume.H24 / cfg.divisor()))
	if cfg.MinTraders != nil {
		e.visit(StageNetTraders)
		if estTraders < *cfg.MinTraders {
			return e.fail(StageNetTraders, "estimated %d traders below minimum %d", estTraders, *cfg.MinTraders)
		}
	}

	// 12. Estimated market-cap bounds.
	estMarketCap := pair.Liquidity.USD * cfg.multiplier()
	if cfg.MinMarketCap != nil {
		e.visit(StageMarketCapMin)
		if estMarketCap < *cfg.MinMarketCap {
			return e.fail(StageMarketCapMin, "estimated market cap %.2f below minimum %.2f", estMarketCap, *cfg.MinMarketCap)
		}
	}
	if cfg.MaxMarketCap != nil {
		e.visit(StageMarketCapMax)
		if estMarketCap > *cfg.MaxMarketCap {
			return e.fail(StageMarketCapMax, "estimated market cap %.2f above maximum %.2f", estMarketCap, *cfg.MaxMarketCap)
		}
	}

	// 13. Authority presence. Chain-specific: presence of either
	// authority disqualifies regardless of score.
	if f.profile.ChecksAuthorities {
		e.visit(StageFreezeAuthority)
		if risk.FreezeAuthority != nil {
			return e.fail(StageFreezeAuthority, "freeze authority present: %s", *risk.FreezeAuthority)
		}
		e.visit(StageMintAuthority)
		if risk.MintAuthority != nil {
			return e.fail(StageMintAuthority, "mint authority present: %s", *risk.MintAuthority)
		}
	}

	return Outcome{
		Passed:    true,
		Evaluated: e.evaluated,
		Derived: &Derived{
			HolderCount:     risk.HolderSummary.TotalHolders,
			TopHolderPct:    risk.HolderSummary.TopConcentrationPct,
			RiskScore:       risk.Score,
			RiskTags:        risk.Tags,
			EstTraders:      estTraders,
			EstMarketCap:    estMarketCap,
			LiquidityNative: nativeLiq,
		},
	}
}

// nativeLiquidity resolves the numeraire-denominated liquidity figure.
// Returns false when neither side of the pair is the chain's native coin.
func (f *Filter) nativeLiquidity(pair *domain.TradingPair) (float64, bool) {
	switch {
	case pair.QuoteToken.Address == f.profile.WrappedNativeMint,
		pair.QuoteToken.Symbol == f.profile.NativeSymbol,
		pair.QuoteToken.Symbol == "W"+f.profile.NativeSymbol:
		return pair.Liquidity.Quote, true
	case pair.BaseToken.Address == f.profile.WrappedNativeMint,
		pair.BaseToken.Symbol == f.profile.NativeSymbol:
		return pair.Liquidity.Base, true
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
