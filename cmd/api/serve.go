package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"globalupi/config"
	httpHandler "globalupi/internal/adapter/http/handler"
	"globalupi/internal/adapter/storage/memory"
	pgStorage "globalupi/internal/adapter/storage/postgres"
	redisStorage "globalupi/internal/adapter/storage/redis"
	"globalupi/internal/core/ports"
	"globalupi/internal/service"

	"github.com/gin-gonic/gin"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

func serveCommand(a *app) *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving (postgres only)")
	return cmd
}

// repositories is the storage wiring picked by storage.driver.
type repositories struct {
	accounts    ports.AccountRepository
	txns        ports.TransactionRepository
	conversions ports.ConversionRepository
	investments ports.InvestmentRepository
	audit       ports.AuditRepository // nil = audit entries are only logged
	transactor  ports.DBTransactor
	health      ports.HealthChecker
	close       func()
}

func openStorage(ctx context.Context, a *app, autoMigrate bool) (*repositories, error) {
	if a.cfg.Storage.Driver == config.DriverMemory {
		store := memory.New()
		a.log.Warn().Msg("using in-memory storage, data is lost on exit")
		return &repositories{
			accounts:    memory.NewAccountRepo(store),
			txns:        memory.NewTransactionRepo(store),
			conversions: memory.NewConversionRepo(store),
			investments: memory.NewInvestmentRepo(store),
			transactor:  memory.NewTransactor(store),
			health:      memory.NewHealthCheck(store),
			close:       func() {},
		}, nil
	}

	pool, err := pgStorage.NewPool(ctx, a.cfg.Database, a.log)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	a.log.Info().Msg("PostgreSQL connected")

	if autoMigrate {
		n, err := pgStorage.Migrate(pool, migrate.Up, 0)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.log.Info().Int("applied", n).Msg("migrations applied")
	}

	return &repositories{
		accounts:    pgStorage.NewAccountRepo(pool),
		txns:        pgStorage.NewTransactionRepo(pool),
		conversions: pgStorage.NewConversionRepo(pool),
		investments: pgStorage.NewInvestmentRepo(pool),
		audit:       pgStorage.NewAuditRepo(pool),
		transactor:  pgStorage.NewTransactor(pool),
		health:      pgStorage.NewHealthCheck(pool),
		close:       pool.Close,
	}, nil
}

func runServe(ctx context.Context, a *app, autoMigrate bool) error {
	cfg, log := a.cfg, a.log
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting GlobalUPI API")

	repos, err := openStorage(ctx, a, autoMigrate)
	if err != nil {
		return err
	}
	defer repos.close()

	checkers := []ports.HealthChecker{repos.health}

	// Redis is optional: without it idempotency is off and rate limits are per process.
	var (
		idempCache ports.IdempotencyCache
		rateLimit  ports.RateLimitStore = memory.NewRateLimitStore()
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		idempCache = redisStorage.NewIdempotencyCache(rdb)
		rateLimit = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	}

	hashSvc := service.NewArgon2HashService()
	tokenSvc, err := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	if err != nil {
		return err
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        service.NewAuthService(repos.accounts, hashSvc, tokenSvc, log),
		TransferSvc:    service.NewTransferService(repos.accounts, repos.txns, repos.transactor, idempCache, log),
		ConversionSvc:  service.NewConversionService(repos.conversions, log),
		DashboardSvc:   service.NewDashboardService(repos.accounts, repos.txns),
		InvestmentSvc:  service.NewInvestmentService(repos.investments),
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimit,
		HealthCheckers: checkers,
		AuditSvc:       service.NewAuditService(log, repos.audit),
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
