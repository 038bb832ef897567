package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/arywk40-hue/governance-budget-allocator/internal/auth"
	"github.com/arywk40-hue/governance-budget-allocator/internal/config"
	"github.com/arywk40-hue/governance-budget-allocator/internal/events/kafka"
	"github.com/arywk40-hue/governance-budget-allocator/internal/httpapi"
	interfaces "github.com/arywk40-hue/governance-budget-allocator/internal/interfaces"
	"github.com/arywk40-hue/governance-budget-allocator/internal/ledger"
	"github.com/arywk40-hue/governance-budget-allocator/internal/logger"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage/memory"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var store interfaces.StateStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database", "error", err)
		}
		pgStore := postgres.NewPostgresStateStore(db)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			log.Fatal("ensure schema", "error", err)
		}
		store = pgStore
		log.Info("using postgres state store")
	} else {
		store = memory.NewMemoryStateStore()
		log.Info("using in-memory state store")
	}

	var authn interfaces.Authenticator
	switch cfg.AuthMode {
	case "off":
		// For local development only; every call proof is accepted.
		authn = auth.AllowAll{}
		log.Warn("caller authentication disabled")
	default:
		authn = auth.NewEd25519Authenticator()
	}

	var events interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer publisher.Close()
		events = publisher
		log.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers)
	}

	allocator := ledger.NewAllocator(store, authn, events, log)
	handler := httpapi.NewHandler(allocator, log)

	addr := ":" + cfg.Port
	log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, handler.Mux()); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
