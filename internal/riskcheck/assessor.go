package riskcheck

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/solana"
)

// DefaultDegradedScore is the conservative mid-range score assigned when
// the reputation lookup fails (0-10 scale).
const DefaultDegradedScore = 5.0

// topHolderCount is how many eligible holders the concentration figure
// sums over.
const topHolderCount = 10

// Assessor turns raw reputation reports into RiskRecords. Assess never
// fails: upstream errors produce a degraded default instead.
type Assessor struct {
	fetcher       ReportFetcher
	cache         ReportCache
	degradedScore float64
	logger        *log.Logger
	now           func() time.Time
}

// AssessorOption configures Assessor.
type AssessorOption func(*Assessor)

// WithCache sets the report cache. Defaults to NopCache.
func WithCache(cache ReportCache) AssessorOption {
	return func(a *Assessor) { a.cache = cache }
}

// WithDegradedScore overrides the degraded-default score.
func WithDegradedScore(score float64) AssessorOption {
	return func(a *Assessor) { a.degradedScore = score }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) AssessorOption {
	return func(a *Assessor) { a.logger = logger }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) AssessorOption {
	return func(a *Assessor) { a.now = now }
}

// NewAssessor creates an Assessor backed by the given fetcher.
func NewAssessor(fetcher ReportFetcher, opts ...AssessorOption) *Assessor {
	a := &Assessor{
		fetcher:       fetcher,
		cache:         NopCache{},
		degradedScore: DefaultDegradedScore,
		logger:        log.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess produces a RiskRecord for a mint. On any upstream failure it
// logs a warning and returns the degraded default rather than an error.
func (a *Assessor) Assess(ctx context.Context, mint string) *domain.RiskRecord {
	if report, ok := a.cache.Get(ctx, mint); ok {
		return a.normalize(mint, report)
	}

	report, err := a.fetcher.FetchReport(ctx, mint)
	if err != nil {
		a.logger.Printf("WARN risk lookup failed for %s, using degraded default: %v", mint, err)
		return a.degradedRecord(mint)
	}

	a.cache.Set(ctx, mint, report)
	return a.normalize(mint, report)
}

// degradedRecord is the record produced when no report is available.
func (a *Assessor) degradedRecord(mint string) *domain.RiskRecord {
	return &domain.RiskRecord{
		Mint:       mint,
		Score:      a.degradedScore,
		Tags:       []string{domain.RiskTagDataUnavailable},
		AssessedAt: a.now().UnixMilli(),
	}
}

// normalize converts a raw report into a RiskRecord. Absent payload
// fields default to zero values, never to errors.
func (a *Assessor) normalize(mint string, report *Report) *domain.RiskRecord {
	record := &domain.RiskRecord{
		Mint:            mint,
		Score:           clampScore(report.Score),
		FreezeAuthority: report.FreezeAuthority,
		MintAuthority:   report.MintAuthority,
		UpdateAuthority: report.UpdateAuthority,
		AssessedAt:      a.now().UnixMilli(),
	}
	if report.TokenMeta != nil {
		record.Mutable = report.TokenMeta.Mutable
	}

	for _, risk := range report.Risks {
		if tag := normalizeTag(risk.Name); tag != "" {
			record.Tags = append(record.Tags, tag)
		}
	}

	record.Holders = classifyHolders(report.TopHolders)
	record.HolderSummary = summarizeHolders(record.Holders, report.TotalHolders)

	return record
}

// classifyHolders converts raw holder entries and classifies each
// address as wallet, burn, or program account.
func classifyHolders(raw []ReportHolder) []domain.Holder {
	holders := make([]domain.Holder, 0, len(raw))
	for _, h := range raw {
		class := domain.HolderWallet
		switch {
		case solana.IsBurnAddress(h.Address):
			class = domain.HolderBurn
		case solana.IsProgramAccount(h.Address):
			class = domain.HolderProgram
		}
		holders = append(holders, domain.Holder{
			Address: h.Address,
			Balance: h.Amount,
			Pct:     h.Pct,
			Class:   class,
		})
	}
	return holders
}

// summarizeHolders computes the persisted holder summary. Concentration
// sums the top eligible holders, excluding burn and program accounts.
func summarizeHolders(holders []domain.Holder, totalHolders int) domain.HolderSummary {
	eligible := make([]float64, 0, len(holders))
	for _, h := range holders {
		if h.Class == domain.HolderWallet {
			eligible = append(eligible, h.Pct)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(eligible)))

	var concentration float64
	for i, pct := range eligible {
		if i >= topHolderCount {
			break
		}
		concentration += pct
	}

	if totalHolders == 0 {
		totalHolders = len(holders)
	}

	return domain.HolderSummary{
		TotalHolders:        totalHolders,
		TopConcentrationPct: concentration,
	}
}

// normalizeTag turns a reported risk name into a machine-readable tag.
func normalizeTag(name string) string {
	tag := strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(tag, " ", "_")
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
