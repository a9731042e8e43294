package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/api"
	"github.com/peerlend/loan-tracker/internal/api/metrics"
	"github.com/peerlend/loan-tracker/internal/core/ports"
	"github.com/peerlend/loan-tracker/internal/core/service"
	mongodb "github.com/peerlend/loan-tracker/internal/infrastructure/db/mongo"
	redisstore "github.com/peerlend/loan-tracker/internal/infrastructure/db/redis"
	"github.com/peerlend/loan-tracker/internal/infrastructure/db/sqldb"
	"github.com/peerlend/loan-tracker/internal/infrastructure/http/handlers"
	"github.com/peerlend/loan-tracker/internal/infrastructure/queue"
	"github.com/peerlend/loan-tracker/internal/pkg/config"
	"github.com/peerlend/loan-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// stores bundles the repositories chosen by STORE_DRIVER.
type stores struct {
	loans    ports.LoanRepository
	users    ports.UserRepository
	events   ports.LoanEventRepository
	checkers []handlers.Checker
	close    func(ctx context.Context) error
}

// @title        Loan Tracker API
// @version      1.0
// @description  Peer-to-peer loan tracking between registered borrowers and lenders.
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "loan-tracker",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	var audit *queue.AuditDispatcher
	events := st.events
	if cfg.Store.AuditWorkers > 0 {
		audit = queue.NewAuditDispatcher(cfg.Store.AuditWorkers, st.events, logger.Named("audit"))
		audit.Start()
		events = audit
	}

	deps := api.Deps{
		Loans: service.NewLoanService(st.loans, st.users, events, logger.Named("loans")).
			WithMetrics(metrics.LoanRecorder{}),
		Users:    service.NewUserService(st.users, logger.Named("users")),
		Logger:   log,
		Checkers: st.checkers,
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		deps.Checkers = append(deps.Checkers, handlers.RedisChecker(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, idempotency enabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
			return
		}
		serverErrors <- nil
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if audit != nil {
		if err := audit.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("audit queue not drained")
		}
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return &stores{
			loans:    mongodb.NewLoanRepository(db),
			users:    mongodb.NewUserRepository(db),
			events:   mongodb.NewEventRepository(db),
			checkers: []handlers.Checker{handlers.MongoChecker(db)},
			close:    client.Disconnect,
		}, nil

	case config.StoreSQLite, config.StoreMySQL:
		db, err := sqldb.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("sql store opened")
		return &stores{
			loans:    sqldb.NewLoanRepository(db),
			users:    sqldb.NewUserRepository(db),
			events:   sqldb.NewEventRepository(db),
			checkers: []handlers.Checker{handlers.SQLChecker(db)},
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
