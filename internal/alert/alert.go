// Package alert decides alert eligibility for tokens that passed the
// filter and delivers alert records best-effort.
package alert

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/filter"
	"github.com/audvakr/token-monitor-system/internal/observability"
	"github.com/audvakr/token-monitor-system/internal/storage"
)

// Thresholds is the alert-eligibility predicate. It is strictly tighter
// than the filter pass itself: higher volume/liquidity/holder floors and
// a lower risk-score ceiling.
type Thresholds struct {
	MinVolume24h    float64 `json:"min_volume_24h"`
	MinLiquidityUSD float64 `json:"min_liquidity_usd"`
	MinHolders      int     `json:"min_holders"`
	MaxRiskScore    float64 `json:"max_risk_score"`
}

// DefaultThresholds returns the deployment defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinVolume24h:    50000,
		MinLiquidityUSD: 25000,
		MinHolders:      200,
		MaxRiskScore:    3,
	}
}

// Notifier delivers alert payloads to an external sink. Best-effort:
// callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, a *domain.Alert) error
}

// Manager evaluates eligibility and emits alert records. Notification
// and persistence failures are logged, never propagated, and never roll
// back the already-committed token upsert.
type Manager struct {
	thresholds Thresholds
	notifier   Notifier
	store      storage.AlertStore // optional
	logger     *log.Logger
	now        func() time.Time
}

// ManagerOption configures Manager.
type ManagerOption func(*Manager)

// WithStore sets the alert history store.
func WithStore(store storage.AlertStore) ManagerOption {
	return func(m *Manager) { m.store = store }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an alert manager.
func NewManager(thresholds Thresholds, notifier Notifier, opts ...ManagerOption) *Manager {
	m := &Manager{
		thresholds: thresholds,
		notifier:   notifier,
		logger:     log.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Eligible reports whether a passing pair clears the alert thresholds.
func (m *Manager) Eligible(pair *domain.TradingPair, derived *filter.Derived) bool {
	return pair.Volume.H24 >= m.thresholds.MinVolume24h &&
		pair.Liquidity.USD >= m.thresholds.MinLiquidityUSD &&
		derived.HolderCount >= m.thresholds.MinHolders &&
		derived.RiskScore <= m.thresholds.MaxRiskScore
}

// Process evaluates eligibility and, if met, emits an alert record.
// Returns whether an alert was emitted. Fire-and-forget: every failure
// path only logs.
func (m *Manager) Process(ctx context.Context, pair *domain.TradingPair, derived *filter.Derived) bool {
	if !m.Eligible(pair, derived) {
		return false
	}

	a := &domain.Alert{
		ID:           uuid.NewString(),
		PairAddress:  pair.PairAddress,
		ChainID:      pair.ChainID,
		BaseSymbol:   pair.BaseToken.Symbol,
		PriceUSD:     pair.PriceUSD,
		Volume24h:    pair.Volume.H24,
		LiquidityUSD: pair.Liquidity.USD,
		HolderCount:  derived.HolderCount,
		RiskScore:    derived.RiskScore,
		CreatedAt:    m.now().UnixMilli(),
	}

	if m.store != nil {
		if err := m.store.Insert(ctx, a); err != nil {
			m.logger.Printf("WARN store alert for %s: %v", a.PairAddress, err)
		}
	}

	var notifyErr error
	if m.notifier != nil {
		if notifyErr = m.notifier.Notify(ctx, a); notifyErr != nil {
			m.logger.Printf("WARN deliver alert for %s: %v", a.PairAddress, notifyErr)
		}
	}
	observability.RecordAlert(notifyErr)

	return true
}
