// Package main runs a single ingestion cycle and exits. Useful for
// cron-driven deployments and smoke testing a configuration.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/audvakr/token-monitor-system/internal/alert"
	"github.com/audvakr/token-monitor-system/internal/config"
	"github.com/audvakr/token-monitor-system/internal/dexscreener"
	"github.com/audvakr/token-monitor-system/internal/domain"
	"github.com/audvakr/token-monitor-system/internal/filter"
	"github.com/audvakr/token-monitor-system/internal/ingest"
	"github.com/audvakr/token-monitor-system/internal/ratelimit"
	"github.com/audvakr/token-monitor-system/internal/retry"
	"github.com/audvakr/token-monitor-system/internal/riskcheck"
	"github.com/audvakr/token-monitor-system/internal/storage"
	chstore "github.com/audvakr/token-monitor-system/internal/storage/clickhouse"
	"github.com/audvakr/token-monitor-system/internal/storage/memory"
	"github.com/audvakr/token-monitor-system/internal/storage/migrations"
	pgstore "github.com/audvakr/token-monitor-system/internal/storage/postgres"
)

func main() {
	logger := log.New(os.Stdout, "[scan] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tokenStore storage.TokenStore
	var alertStore storage.AlertStore
	var snapshotStore storage.SnapshotStore

	if cfg.UseMemory {
		tokenStore = memory.NewTokenStore()
		alertStore = memory.NewAlertStore()
		snapshotStore = memory.NewSnapshotStore()
	} else {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatalf("Connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Run postgres migrations: %v", err)
		}
		tokenStore = pgstore.NewTokenStore(pool)
		alertStore = pgstore.NewAlertStore(pool)

		if cfg.ClickhouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
			if err != nil {
				logger.Fatalf("Run clickhouse migrations: %v", err)
			}
			defer conn.Close()
			snapshotStore = chstore.NewSnapshotStore(conn)
		}
	}

	policy := retry.DefaultPolicy()
	fetcher := dexscreener.NewClient(cfg.DexScreenerURL,
		ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow), policy)
	riskClient := riskcheck.NewClient(cfg.RugCheckURL,
		ratelimit.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow), policy)

	assessorOpts := []riskcheck.AssessorOption{riskcheck.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		assessorOpts = append(assessorOpts,
			riskcheck.WithCache(riskcheck.NewRedisCache(rdb, cfg.RiskCacheTTL, logger)))
	}

	profile := domain.SolanaProfile()

	var notifier alert.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = alert.NewWebhookNotifier(cfg.AlertWebhookURL)
	}

	cycle := ingest.NewCycle(ingest.Options{
		Fetcher:   fetcher,
		Assessor:  riskcheck.NewAssessor(riskClient, assessorOpts...),
		Filter:    filter.New(profile, filter.DefaultConfig(profile)),
		Tokens:    tokenStore,
		Snapshots: snapshotStore,
		Alerts: alert.NewManager(alert.DefaultThresholds(), notifier,
			alert.WithStore(alertStore),
			alert.WithLogger(logger)),
		Profile:          profile,
		FreshnessWindow:  cfg.FreshnessWindow,
		MaxPairsPerCycle: cfg.MaxPairsPerCycle,
		PairDelay:        cfg.PairDelay,
		DexPriority:      profile.DefaultDexes,
		Logger:           logger,
	})

	result, err := cycle.Run(ctx)
	if err != nil {
		logger.Fatalf("Cycle failed: %v", err)
	}
	logger.Printf("Done: processed=%d saved=%d filtered=%d",
		result.Processed, result.Saved, result.Filtered)
}
