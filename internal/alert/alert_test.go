package alert

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/filter"
	"github.com/audvakr/token-monitor-system/internal/storage/memory"
)

type notifierFunc func(ctx context.Context, a *domain.Alert) error

func (f notifierFunc) Notify(ctx context.Context, a *domain.Alert) error { return f(ctx, a) }

var quietLogger = log.New(io.Discard, "", 0)

func eligiblePair() *domain.TradingPair {
	return &domain.TradingPair{
		PairAddress: "PairAddr111",
		ChainID:     "solana",
		BaseToken:   domain.TokenRef{Symbol: "TEST"},
		PriceUSD:    0.01,
		Volume:      domain.WindowedValues{H24: 90000},
		Liquidity:   domain.Liquidity{USD: 40000},
	}
}

func eligibleDerived() *filter.Derived {
	return &filter.Derived{HolderCount: 350, RiskScore: 1.5}
}

func TestEligible(t *testing.T) {
	m := NewManager(DefaultThresholds(), nil, WithLogger(quietLogger))

	if !m.Eligible(eligiblePair(), eligibleDerived()) {
		t.Error("Pair above all thresholds should be eligible")
	}

	low := eligiblePair()
	low.Volume.H24 = 10000
	if m.Eligible(low, eligibleDerived()) {
		t.Error("Pair below the volume threshold should not be eligible")
	}

	risky := eligibleDerived()
	risky.RiskScore = 5
	if m.Eligible(eligiblePair(), risky) {
		t.Error("Pair above the risk ceiling should not be eligible")
	}
}

func TestProcess_EmitsAndStoresAlert(t *testing.T) {
	store := memory.NewAlertStore()
	var delivered *domain.Alert
	notifier := notifierFunc(func(_ context.Context, a *domain.Alert) error {
		delivered = a
		return nil
	})

	m := NewManager(DefaultThresholds(), notifier, WithStore(store), WithLogger(quietLogger))
	emitted := m.Process(context.Background(), eligiblePair(), eligibleDerived())
	if !emitted {
		t.Fatal("Expected alert to be emitted")
	}
	if delivered == nil {
		t.Fatal("Notifier was not invoked")
	}
	if delivered.ID == "" {
		t.Error("Alert ID should be set")
	}
	if delivered.PairAddress != "PairAddr111" || delivered.HolderCount != 350 {
		t.Errorf("Unexpected alert payload: %+v", delivered)
	}

	stored, err := store.GetByPairAddress(context.Background(), "PairAddr111")
	if err != nil {
		t.Fatalf("GetByPairAddress failed: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("Stored alerts = %d, want 1", len(stored))
	}
}

func TestProcess_IneligibleEmitsNothing(t *testing.T) {
	notified := false
	notifier := notifierFunc(func(context.Context, *domain.Alert) error {
		notified = true
		return nil
	})

	m := NewManager(DefaultThresholds(), notifier, WithLogger(quietLogger))
	pair := eligiblePair()
	pair.Liquidity.USD = 100

	if m.Process(context.Background(), pair, eligibleDerived()) {
		t.Error("Ineligible pair should not emit")
	}
	if notified {
		t.Error("Notifier invoked for ineligible pair")
	}
}

func TestProcess_NotifyFailureIsContained(t *testing.T) {
	store := memory.NewAlertStore()
	notifier := notifierFunc(func(context.Context, *domain.Alert) error {
		return errors.New("webhook down")
	})

	m := NewManager(DefaultThresholds(), notifier, WithStore(store), WithLogger(quietLogger))
	if !m.Process(context.Background(), eligiblePair(), eligibleDerived()) {
		t.Error("Delivery failure should not suppress the alert record")
	}

	stored, _ := store.GetByPairAddress(context.Background(), "PairAddr111")
	if len(stored) != 1 {
		t.Errorf("Stored alerts = %d, want 1 despite notify failure", len(stored))
	}
}
