package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"finshare/internal/audit"
	"finshare/internal/consent"
	"finshare/internal/directory"
	"finshare/internal/finance"
	"finshare/internal/identity"
	"finshare/internal/ledger"
	"finshare/internal/platform/config"
	"finshare/internal/platform/httpserver"
	"finshare/internal/platform/logger"
	"finshare/internal/platform/metrics"
	platformredis "finshare/internal/platform/redis"
	"finshare/internal/profile"
	"finshare/internal/records"
	httptransport "finshare/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives behind the internal service packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storeOpts []records.Option
	if cfg.EncryptionKeyHex != "" {
		storeOpts = append(storeOpts, records.WithEncryptionKey(cfg.EncryptionKeyHex))
	}
	recordStore, err := records.NewFileStore(cfg.DataDir, storeOpts...)
	if err != nil {
		log.Error("record store init failed", "error", err)
		os.Exit(1)
	}

	ledgerClient, err := ledger.FromConfig(cfg)
	if err != nil {
		log.Error("ledger client init failed", "error", err)
		os.Exit(1)
	}
	log.Info("ledger client ready", "mode", cfg.LedgerMode)

	var identityStore identity.Store = identity.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		identityStore = identity.NewRedisStore(redisClient.Client)
		log.Info("identity verification store: redis")
	}

	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres init failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := audit.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("postgres schema init failed", "error", err)
			os.Exit(1)
		}
		auditStore = pg
		log.Info("access event store: postgres")
	}

	publisher, err := audit.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		log.Error("event publisher init failed", "error", err)
		os.Exit(1)
	}
	if publisher != nil {
		defer publisher.Close()
	}

	dir, err := directory.New(cfg.DataDir, log)
	if err != nil {
		log.Error("directory init failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	consentSvc := consent.NewService(ledgerClient, log, consent.NewMetrics(), cfg.ConsentDefaultValid)
	auditSvc := audit.NewService(auditStore, publisher, log)
	identitySvc := identity.NewService(identityStore, identity.NewTokenService(cfg.JWTSigningKey, "finshare"), log, cfg.CodeTTL)

	orch := profile.NewOrchestrator(recordStore, ledgerClient, consentSvc, dir, auditSvc, log, profile.NewMetrics())
	if cfg.ValidatorAddress != "" {
		addr, err := finance.ParseAddress(cfg.ValidatorAddress)
		if err != nil {
			log.Error("invalid validator address", "error", err)
			os.Exit(1)
		}
		orch = orch.WithValidator(ledger.Signer{From: addr, KeyHandle: cfg.ValidatorKeyHandle})
		log.Info("profile pushes enabled", "validator", addr)
	} else {
		log.Info("no validator credential, profile pushes deferred")
	}

	handler := httptransport.NewHandler(orch, consentSvc, identitySvc, ledgerClient, dir, log, m)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
