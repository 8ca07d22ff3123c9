package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/bankledger/account-ledger-service/internal/config"
	"github.com/bankledger/account-ledger-service/internal/events"
	"github.com/bankledger/account-ledger-service/internal/events/kafka"
	"github.com/bankledger/account-ledger-service/internal/interfaces"
	"github.com/bankledger/account-ledger-service/internal/ledger"
	"github.com/bankledger/account-ledger-service/internal/server"
	"github.com/bankledger/account-ledger-service/internal/storage/memory"
	"github.com/bankledger/account-ledger-service/internal/storage/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var store interfaces.Store
	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		store = postgres.NewStore(db)
	default:
		store = memory.NewStore()
	}

	var publisher interfaces.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
	}
	defer publisher.Close()

	accounts := ledger.NewAccounts(store)
	processor := ledger.NewProcessor(store, publisher, logger).
		WithConflictRetries(cfg.ConflictRetries)

	srv := server.New(server.NewHandler(accounts, processor, logger), logger, server.Options{
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		MaxRequestBytes: cfg.MaxRequestBytes,
	})
	if err := srv.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
	log.Fatal(srv.Serve())
}
