package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoPolymarket/walletgate/internal/config"
	"github.com/GoPolymarket/walletgate/internal/handler"
	"github.com/GoPolymarket/walletgate/internal/pkg/logger"
	"github.com/GoPolymarket/walletgate/internal/repository"
	"github.com/GoPolymarket/walletgate/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		log.Printf("walletgate: %v", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred closes happen on both the
// error and the shutdown path.
func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load(nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Persistence (Redis > Postgres > memory)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = repository.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis, falling back", "error", err)
		} else {
			logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
			defer rdb.Close()
		}
	}

	var db *sqlx.DB
	if cfg.Database.DSN != "" {
		db, err = repository.NewDB(cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL, falling back", "error", err)
		} else {
			logger.Info("Connected to PostgreSQL")
			defer db.Close()
		}
	}

	st := openStores(ctx, cfg, rdb, db)

	// 3. Wallet
	client, err := service.DialWallet(ctx, cfg.Wallet)
	if err != nil {
		return fmt.Errorf("wallet unavailable at %s: %w", cfg.Wallet.BaseURL, err)
	}
	logger.Info("Wallet is healthy", "url", client.BaseURL(), "public_key", client.PublicKey())

	// 4. Services
	auditSvc, err := service.NewAuditService(cfg.Audit.LogDir, cfg.Audit.BufferSize, st.audit)
	if err != nil {
		return fmt.Errorf("init audit service: %w", err)
	}
	defer auditSvc.Close()
	walletSvc := service.NewWalletService(client, service.NewGuard(cfg.Guard, st.usage))

	if len(st.cleaners) > 0 {
		go runCleanup(ctx, cfg.Database, st.cleaners)
	}

	// 5. Router
	r := handler.NewRouter(handler.RouterDeps{
		Config:      cfg,
		Wallet:      walletSvc,
		Audit:       auditSvc,
		Idempotency: st.idempotency,
	})

	// 6. Serve with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("WalletGate started", "port", cfg.Server.Port, "read_only", cfg.Server.ReadOnly)
	if err := serve(ctx, srv, 5*time.Second); err != nil {
		return err
	}
	logger.Info("Server exiting")
	return nil
}

// serve runs srv until ctx is done or the listener fails.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}
