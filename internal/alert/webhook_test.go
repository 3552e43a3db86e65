package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/audvakr/token-monitor-system/internal/domain"
)

func TestWebhookNotifier_PostsJSON(t *testing.T) {
	var got domain.Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	a := &domain.Alert{ID: "a1", PairAddress: "PairA", BaseSymbol: "TEST", RiskScore: 1.5}
	if err := n.Notify(context.Background(), a); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.ID != "a1" || got.PairAddress != "PairA" {
		t.Errorf("Delivered payload = %+v", got)
	}
}

func TestWebhookNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	if err := n.Notify(context.Background(), &domain.Alert{ID: "a1"}); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}
