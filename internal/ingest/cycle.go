// Package ingest orchestrates one polling pass over the market-data
// API: fetch candidates, deduplicate against fresh stored records,
// assess risk, filter, and upsert passing tokens.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/filter"
	"github.com/audvakr/token-monitor-system/internal/observability"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// Default cycle parameters.
const (
	DefaultFreshnessWindow  = 1 * time.Hour
	DefaultMaxPairsPerCycle = 30
	DefaultPairDelay        = 500 * time.Millisecond
)

// PairFetcher fetches candidate pairs for a chain.
type PairFetcher interface {
	FetchPairs(ctx context.Context, chainID string) ([]domain.TradingPair, error)
}

// RiskAssessor produces a risk record for a mint. Never fails.
type RiskAssessor interface {
	Assess(ctx context.Context, mint string) *domain.RiskRecord
}

// AlertSink receives passing pairs for alert evaluation. Best-effort.
type AlertSink interface {
	Process(ctx context.Context, pair *domain.TradingPair, derived *filter.Derived) bool
}

// Result summarizes one cycle. Fresh-skipped pairs count as processed
// but neither saved nor filtered.
type Result struct {
	Processed int
	Saved     int
	Filtered  int
}

// Cycle runs one ingestion pass at a time. Pairs are processed
// sequentially by design: it bounds concurrent load on the upstream
// APIs and the store, and makes the freshness-check-then-write sequence
// for a pair address race-free without locking.
type Cycle struct {
	fetcher   PairFetcher
	assessor  RiskAssessor
	filter    *filter.Filter
	tokens    storage.TokenStore
	snapshots storage.SnapshotStore // optional
	alerts    AlertSink             // optional
	profile   domain.ChainProfile

	freshness   time.Duration
	maxPairs    int
	pairDelay   time.Duration
	dexPriority []string

	logger *log.Logger
	now    func() time.Time
}

// Options contains configuration for creating a Cycle.
type Options struct {
	Fetcher   PairFetcher
	Assessor  RiskAssessor
	Filter    *filter.Filter
	Tokens    storage.TokenStore
	Snapshots storage.SnapshotStore // optional
	Alerts    AlertSink             // optional
	Profile   domain.ChainProfile

	FreshnessWindow  time.Duration // default 1h
	MaxPairsPerCycle int           // default 30
	PairDelay        time.Duration // courtesy delay between pairs, default 500ms
	DexPriority      []string      // preferred exchange ordering

	Logger *log.Logger
	Now    func() time.Time
}

// NewCycle creates an ingestion cycle.
func NewCycle(opts Options) *Cycle {
	freshness := opts.FreshnessWindow
	if freshness == 0 {
		freshness = DefaultFreshnessWindow
	}
	maxPairs := opts.MaxPairsPerCycle
	if maxPairs == 0 {
		maxPairs = DefaultMaxPairsPerCycle
	}
	pairDelay := opts.PairDelay
	if pairDelay == 0 {
		pairDelay = DefaultPairDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Cycle{
		fetcher:     opts.Fetcher,
		assessor:    opts.Assessor,
		filter:      opts.Filter,
		tokens:      opts.Tokens,
		snapshots:   opts.Snapshots,
		alerts:      opts.Alerts,
		profile:     opts.Profile,
		freshness:   freshness,
		maxPairs:    maxPairs,
		pairDelay:   pairDelay,
		dexPriority: opts.DexPriority,
		logger:      logger,
		now:         now,
	}
}

// Run executes one ingestion pass. A total fetch failure is logged and
// returned with a zero-activity result; the cycle is simply skipped
// until the next scheduled invocation. Per-pair failures are contained
// to the pair.
func (c *Cycle) Run(ctx context.Context) (Result, error) {
	start := c.now()
	var result Result

	pairs, err := c.fetcher.FetchPairs(ctx, c.profile.ChainID)
	if err != nil {
		c.logger.Printf("WARN fetch pairs: %v", err)
		observability.RecordCycle("fetch_failed", c.now().Sub(start).Seconds())
		return result, fmt.Errorf("fetch pairs: %w", err)
	}

	pairs = Prioritize(pairs, c.dexPriority)
	if len(pairs) > c.maxPairs {
		pairs = pairs[:c.maxPairs]
	}

	var freshSkips int
	for i := range pairs {
		if ctx.Err() != nil {
			break
		}

		outcome, err := c.processPair(ctx, &pairs[i])
		result.Processed++
		switch {
		case err != nil:
			// Contained: one pair's failure never aborts the cycle.
			c.logger.Printf("WARN process pair %s: %v", pairs[i].PairAddress, err)
		case outcome == outcomeSaved:
			result.Saved++
		case outcome == outcomeFiltered:
			result.Filtered++
		case outcome == outcomeFresh:
			freshSkips++
		}

		// Courtesy delay between pairs, independent of the rate
		// limiter's own throttling.
		if i < len(pairs)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(c.pairDelay):
			}
		}
	}

	observability.RecordPairOutcome(result.Processed, result.Saved, result.Filtered, freshSkips)
	observability.RecordCycle("ok", c.now().Sub(start).Seconds())
	observability.MarkCycleSuccess(c.now().Unix())

	c.logger.Printf("cycle complete: processed=%d saved=%d filtered=%d fresh_skips=%d",
		result.Processed, result.Saved, result.Filtered, freshSkips)
	return result, nil
}

type pairOutcome int

const (
	outcomeFresh pairOutcome = iota
	outcomeSaved
	outcomeFiltered
)

// processPair runs the freshness check, risk assessment, filter, and
// upsert for one candidate.
func (c *Cycle) processPair(ctx context.Context, pair *domain.TradingPair) (pairOutcome, error) {
	now := c.now()

	// Freshness check before any upstream call: a fresh record costs
	// zero risk API traffic.
	existing, err := c.tokens.FindByPairAddress(ctx, pair.PairAddress)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("lookup stored token: %w", err)
	}
	if existing != nil && now.UnixMilli()-existing.UpdatedAt < c.freshness.Milliseconds() {
		return outcomeFresh, nil
	}

	risk := c.assessor.Assess(ctx, pair.BaseToken.Address)

	outcome := c.filter.Evaluate(pair, risk)
	if !outcome.Passed {
		observability.RecordFilterRejection(string(outcome.Stage))
		c.logger.Printf("filtered %s (%s): %s", pair.PairAddress, outcome.Stage, outcome.Reason)
		return outcomeFiltered, nil
	}

	token := buildStoredToken(pair, outcome.Derived, now)
	saved, err := c.tokens.Upsert(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("upsert token: %w", err)
	}

	c.writeSnapshot(ctx, pair, outcome.Derived, now)

	// Alert evaluation happens after the committed upsert and never
	// affects it.
	if c.alerts != nil {
		c.alerts.Process(ctx, pair, outcome.Derived)
	}

	c.logger.Printf("saved %s (%s) status=%s", saved.PairAddress, saved.BaseSymbol, saved.Status)
	return outcomeSaved, nil
}

// writeSnapshot appends the per-cycle metrics point. Best-effort.
func (c *Cycle) writeSnapshot(ctx context.Context, pair *domain.TradingPair, derived *filter.Derived, now time.Time) {
	if c.snapshots == nil {
		return
	}
	point := &domain.PairSnapshot{
		PairAddress:  pair.PairAddress,
		ChainID:      pair.ChainID,
		TimestampMs:  now.UnixMilli(),
		PriceUSD:     pair.PriceUSD,
		PriceNative:  pair.PriceNative,
		Volume24h:    pair.Volume.H24,
		LiquidityUSD: pair.Liquidity.USD,
		HolderCount:  derived.HolderCount,
		RiskScore:    derived.RiskScore,
	}
	if err := c.snapshots.InsertBulk(ctx, []*domain.PairSnapshot{point}); err != nil {
		c.logger.Printf("WARN write snapshot for %s: %v", pair.PairAddress, err)
	}
}

// buildStoredToken flattens a pair and its derived quantities into the
// persisted entity. Status and created_at are resolved by the store's
// upsert: status is only written on insert, created_at is set once.
func buildStoredToken(pair *domain.TradingPair, derived *filter.Derived, now time.Time) *domain.StoredToken {
	return &domain.StoredToken{
		PairAddress:     pair.PairAddress,
		ChainID:         pair.ChainID,
		DexID:           pair.DexID,
		BaseAddress:     pair.BaseToken.Address,
		BaseName:        pair.BaseToken.Name,
		BaseSymbol:      pair.BaseToken.Symbol,
		QuoteAddress:    pair.QuoteToken.Address,
		QuoteSymbol:     pair.QuoteToken.Symbol,
		PriceNative:     pair.PriceNative,
		PriceUSD:        pair.PriceUSD,
		Volume24h:       pair.Volume.H24,
		Volume6h:        pair.Volume.H6,
		Volume1h:        pair.Volume.H1,
		Volume5m:        pair.Volume.M5,
		PriceChange24h:  pair.PriceChange.H24,
		PriceChange6h:   pair.PriceChange.H6,
		PriceChange1h:   pair.PriceChange.H1,
		PriceChange5m:   pair.PriceChange.M5,
		LiquidityUSD:    pair.Liquidity.USD,
		LiquidityNative: derived.LiquidityNative,
		PairCreatedAt:   pair.PairCreatedAt,
		RiskScore:       derived.RiskScore,
		RiskTags:        derived.RiskTags,
		HolderCount:     derived.HolderCount,
		TopHolderPct:    derived.TopHolderPct,
		EstTraders:      derived.EstTraders,
		EstMarketCap:    derived.EstMarketCap,
		Status:          domain.StatusActive,
		UpdatedAt:       now.UnixMilli(),
	}
}
