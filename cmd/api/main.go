package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donation-platform/config"
	httpHandler "donation-platform/internal/adapter/http/handler"
	"donation-platform/internal/adapter/storage/memory"
	pgStorage "donation-platform/internal/adapter/storage/postgres"
	redisStorage "donation-platform/internal/adapter/storage/redis"
	"donation-platform/internal/core/ports"
	"donation-platform/internal/service"
	"donation-platform/pkg/logger"
	"donation-platform/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(os.Getenv("DONATE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Donation Platform")

	ctx := context.Background()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	donationMetrics := metrics.NewDonationMetrics(reg)

	var (
		healthCheckers []ports.HealthChecker
		closers        []func() error
		idempCache     ports.IdempotencyCache
		blocklist      ports.TokenBlocklist
		rateLimitStore *redisStorage.RateLimitStore
		auditRepo      ports.AuditRepository
	)

	// Optional Redis: idempotency, session revocation, rate limits
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		closers = append(closers, rdb.Close)
		idempCache = redisStorage.NewIdempotencyCache(rdb)
		blocklist = redisStorage.NewTokenBlocklist(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis connected")
	} else {
		log.Warn().Msg("Redis disabled: no idempotency keys, logout revocation or rate limits")
	}

	// Optional PostgreSQL: audit trail
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		closers = append(closers, func() error { pool.Close(); return nil })
		if cfg.Database.AutoMigrate {
			if err := pgStorage.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("Failed to run migrations")
			}
		}
		auditRepo = pgStorage.NewAuditRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
		log.Info().Msg("PostgreSQL connected")
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		log.Warn().Msg("jwt.secret not set, using a random secret; sessions will not survive a restart")
	}

	// Initialize core services
	userRepo := memory.NewUserRepo()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(jwtSecret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	accountSvc := service.NewAccountService(donationMetrics, log)
	ledgerSvc := service.NewLedgerService(accountSvc, donationMetrics, log)
	donationSvc := service.NewDonationService(ledgerSvc, idempCache, donationMetrics, log)
	statsSvc := service.NewStatsService(ledgerSvc, accountSvc, userRepo)
	authSvc := service.NewAuthService(userRepo, accountSvc, hashSvc, tokenSvc, blocklist, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Startup data
	seeder := service.NewSeeder(authSvc, accountSvc, ledgerSvc, log)
	if err := seeder.BootstrapAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin")
	}
	if cfg.Seed.Demo {
		if err := seeder.SeedDemo(ctx); err != nil {
			for _, e := range multierr.Errors(err) {
				log.Warn().Err(e).Msg("demo seed step failed")
			}
		}
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		Accounts:       accountSvc,
		Ledger:         ledgerSvc,
		Donations:      donationSvc,
		Stats:          statsSvc,
		TokenSvc:       tokenSvc,
		Blocklist:      blocklist,
		RateLimitStore: rateLimitStore,
		RateLimits:     cfg.RateLimit,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	if err != nil {
		log.Error().Err(err).Msg("Unclean shutdown")
	}

	log.Info().Msg("Server exited")
}

// randomSecret returns a 256-bit hex secret for development runs.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	return hex.EncodeToString(b)
}
