package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mehrbank/ledger-backend/internal/adapter/repository/postgres"
	"github.com/mehrbank/ledger-backend/internal/config"
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/mehrbank/ledger-backend/internal/usecase/client"
	"github.com/mehrbank/ledger-backend/internal/usecase/transfer"
)

// demoClient is one demo account seeded for local development
type demoClient struct {
	input   client.CreateInput
	deposit string
}

func demoClients() []demoClient {
	return []demoClient{
		{
			input: client.CreateInput{
				Name:        "Sara Ahmadi",
				NationalID:  "0084575948",
				DateOfBirth: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
				ClientType:  domain.ClientTypeReal,
				PhoneNumber: "09121234567",
				Address:     "12 Valiasr St",
				PostalCode:  "1966733581",
			},
			deposit: "1000.0000",
		},
		{
			input: client.CreateInput{
				Name:        "Pardis Tech Ltd",
				NationalID:  "10102003504",
				DateOfBirth: time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
				ClientType:  domain.ClientTypeLegal,
				PhoneNumber: "02188776655",
				Address:     "4 Azadi Ave",
				PostalCode:  "1458744391",
			},
			deposit: "25000.0000",
		},
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.MigrationsPath, cfg.URL()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	clientRepo := postgres.NewClientRepository(db)
	changeLogRepo := postgres.NewChangeLogRepository(db)
	trackingRepo := postgres.NewTrackingRepository(db)

	clientService := client.NewService(clientRepo, changeLogRepo)
	transferService := transfer.NewService(clientRepo, trackingRepo)

	ctx := context.Background()

	for _, demo := range demoClients() {
		exists, err := clientRepo.ExistsByNationalID(ctx, demo.input.NationalID)
		if err != nil {
			logger.Fatal("failed to check demo client", zap.Error(err))
		}
		if exists {
			logger.Info("demo client already seeded", zap.String("nationalId", demo.input.NationalID))
			continue
		}

		created, err := clientService.Create(ctx, demo.input)
		if err != nil {
			logger.Fatal("failed to seed demo client", zap.Error(err))
		}

		trackingCode, err := transferService.Process(ctx, transfer.Request{
			Type:                domain.TransferTypeDeposit,
			SenderAccountNumber: created.AccountNumber,
			Amount:              decimal.RequireFromString(demo.deposit),
			Description:         "initial seed deposit",
		})
		if err != nil {
			logger.Fatal("failed to seed initial deposit", zap.Error(err))
		}

		logger.Info("demo client seeded",
			zap.String("name", created.Name),
			zap.String("accountNumber", created.AccountNumber),
			zap.String("trackingCode", trackingCode),
		)
	}
}
