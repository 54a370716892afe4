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

	"go.uber.org/zap"

	"github.com/mehrbank/ledger-backend/internal/adapter/repository/postgres"
	"github.com/mehrbank/ledger-backend/internal/adapter/rest"
	"github.com/mehrbank/ledger-backend/internal/config"
	"github.com/mehrbank/ledger-backend/internal/usecase/client"
	"github.com/mehrbank/ledger-backend/internal/usecase/transfer"
	"github.com/mehrbank/ledger-backend/internal/usecase/turnover"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// 2. Setup database and run migrations
	db, err := postgres.NewDB(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.MigrationsPath, cfg.URL()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// 3. Initialize repositories
	clientRepo := postgres.NewClientRepository(db)
	trackingRepo := postgres.NewTrackingRepository(db)
	changeLogRepo := postgres.NewChangeLogRepository(db)

	// 4. Initialize services
	clientService := client.NewService(clientRepo, changeLogRepo)
	transferService := transfer.NewService(clientRepo, trackingRepo)
	turnoverService := turnover.NewService(trackingRepo, clientRepo)

	// 5. Start HTTP server
	router := rest.NewRouter(clientService, transferService, turnoverService, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("http server stopped")
}
