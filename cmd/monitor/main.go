// Package main runs the token monitor service: the scheduled ingestion
// cycle plus an admin HTTP server for health, metrics, config updates,
// manual cycle triggers, and token status changes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/audvakr/token-monitor-system/internal/alert"
	"github.com/audvakr/token-monitor-system/internal/config"
	"github.com/audvakr/token-monitor-system/internal/dexscreener"
	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/filter"
	"github.com/audvakr/token-monitor-system/internal/ingest"
	"github.com/audvakr/token-monitor-system/internal/observability"
	"github.com/audvakr/token-monitor-system/internal/ratelimit"
	"github.com/audvakr/token-monitor-system/internal/retry"
	"github.com/audvakr/token-monitor-system/internal/riskcheck"
	"github.com/audvakr/token-monitor-system/internal/scheduler"
	"github.com/audvakr/token-monitor-system/internal/storage"
	chstore "github.com/audvakr/token-monitor-system/internal/storage/clickhouse"
	"github.com/audvakr/token-monitor-system/internal/storage/memory"
	"github.com/audvakr/token-monitor-system/internal/storage/migrations"
	pgstore "github.com/audvakr/token-monitor-system/internal/storage/postgres"
)

func main() {
	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Create stores: %v", err)
	}
	defer cleanup()

	profile := domain.SolanaProfile()
	cycle := createCycle(cfg, profile, stores, logger)

	f := cycle.Filter()

	sched := scheduler.New(scheduler.Options{
		Runner: scheduler.RunnerFunc(func(ctx context.Context) error {
			_, err := cycle.Run(ctx)
			return err
		}),
		Period: cfg.CycleInterval,
		Logger: logger,
	})
	sched.Start(ctx)

	admin := newAdminServer(cycle, f, stores.tokenStore, logger)
	srv := &http.Server{Addr: cfg.AdminAddr, Handler: admin.routes()}

	go func() {
		logger.Printf("Admin server listening on %s", cfg.AdminAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Admin server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Printf("Received signal %v, shutting down...", sig)

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Admin server shutdown: %v", err)
	}

	logger.Println("Shutdown complete")
}

// allStores holds the selected storage implementations.
type allStores struct {
	tokenStore    storage.TokenStore
	alertStore    storage.AlertStore
	snapshotStore storage.SnapshotStore // nil when ClickHouse is not configured
}

// createStores builds the storage layer and runs migrations.
func createStores(ctx context.Context, cfg *config.Config) (*allStores, func(), error) {
	if cfg.UseMemory {
		stores := &allStores{
			tokenStore:    memory.NewTokenStore(),
			alertStore:    memory.NewAlertStore(),
			snapshotStore: memory.NewSnapshotStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	stores := &allStores{
		tokenStore: pgstore.NewTokenStore(pool),
		alertStore: pgstore.NewAlertStore(pool),
	}
	cleanup := func() { pool.Close() }

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.snapshotStore = chstore.NewSnapshotStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// createCycle wires the upstream clients, assessor, filter, and alert
// manager into an ingestion cycle.
func createCycle(cfg *config.Config, profile domain.ChainProfile, stores *allStores, logger *log.Logger) *monitorCycle {
	policy := retry.DefaultPolicy()

	dexLimiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	riskLimiter := ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	fetcher := dexscreener.NewClient(cfg.DexScreenerURL, dexLimiter, policy)
	riskClient := riskcheck.NewClient(cfg.RugCheckURL, riskLimiter, policy)

	assessorOpts := []riskcheck.AssessorOption{riskcheck.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		assessorOpts = append(assessorOpts,
			riskcheck.WithCache(riskcheck.NewRedisCache(rdb, cfg.RiskCacheTTL, logger)))
	}
	assessor := riskcheck.NewAssessor(riskClient, assessorOpts...)

	f := filter.New(profile, filter.DefaultConfig(profile))

	var notifier alert.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = alert.NewWebhookNotifier(cfg.AlertWebhookURL)
	}
	alerts := alert.NewManager(alert.DefaultThresholds(), notifier,
		alert.WithStore(stores.alertStore),
		alert.WithLogger(logger))

	cycle := ingest.NewCycle(ingest.Options{
		Fetcher:          fetcher,
		Assessor:         assessor,
		Filter:           f,
		Tokens:           stores.tokenStore,
		Snapshots:        stores.snapshotStore,
		Alerts:           alerts,
		Profile:          profile,
		FreshnessWindow:  cfg.FreshnessWindow,
		MaxPairsPerCycle: cfg.MaxPairsPerCycle,
		PairDelay:        cfg.PairDelay,
		DexPriority:      profile.DefaultDexes,
		Logger:           logger,
	})

	return &monitorCycle{cycle: cycle, filter: f}
}

// monitorCycle pairs the cycle with the filter it evaluates through, so
// the admin server can read and update the live config.
type monitorCycle struct {
	cycle  *ingest.Cycle
	filter *filter.Filter
}

func (m *monitorCycle) Run(ctx context.Context) (ingest.Result, error) {
	return m.cycle.Run(ctx)
}

func (m *monitorCycle) Filter() *filter.Filter {
	return m.filter
}

// adminServer exposes the operational HTTP endpoints.
type adminServer struct {
	cycle  *monitorCycle
	filter *filter.Filter
	tokens storage.TokenStore
	logger *log.Logger
}

func newAdminServer(cycle *monitorCycle, f *filter.Filter, tokens storage.TokenStore, logger *log.Logger) *adminServer {
	return &adminServer{cycle: cycle, filter: f, tokens: tokens, logger: logger}
}

func (s *adminServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/cycle", s.handleCycle)
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/tokens/", s.handleTokenStatus)
	return mux
}

// handleCycle triggers one ingestion pass synchronously.
func (s *adminServer) handleCycle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.cycle.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]int{
		"processed": result.Processed,
		"saved":     result.Saved,
		"filtered":  result.Filtered,
	})
}

// handleConfig reads or patches the live filter configuration.
func (s *adminServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.filter.Config())
	case http.MethodPatch:
		var partial filter.Config
		if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
			http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
			return
		}
		updated, err := s.filter.UpdateConfig(partial)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.logger.Printf("filter config updated")
		writeJSON(w, updated)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTokenStatus handles PATCH /tokens/{pairAddress}/status.
func (s *adminServer) handleTokenStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tokens/")
	pairAddress, ok := strings.CutSuffix(path, "/status")
	if !ok || pairAddress == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	token, err := s.tokens.UpdateStatus(r.Context(), pairAddress, domain.TokenStatus(body.Status))
	switch {
	case errors.Is(err, storage.ErrInvalidStatus):
		http.Error(w, "invalid status", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, map[string]string{
			"pair_address": token.PairAddress,
			"status":       string(token.Status),
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
