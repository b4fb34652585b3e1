package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/api-sage/wallet-service/internal/adapter/http/controller"
	"github.com/api-sage/wallet-service/internal/adapter/http/middleware"
	"github.com/api-sage/wallet-service/internal/adapter/http/router"
	"github.com/api-sage/wallet-service/internal/adapter/repository/memory"
	"github.com/api-sage/wallet-service/internal/adapter/repository/postgres"
	"github.com/api-sage/wallet-service/internal/auth"
	"github.com/api-sage/wallet-service/internal/config"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/events"
	"github.com/api-sage/wallet-service/internal/events/kafka"
	"github.com/api-sage/wallet-service/internal/logger"
	"github.com/api-sage/wallet-service/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		accountRepo  domain.AccountRepository
		ledgerRepo   domain.LedgerRepository
		transferRepo domain.TransferRepository
	)

	switch cfg.StorageDriver {
	case "memory":
		store := memory.NewStore()
		accountRepo = store
		ledgerRepo = store
		transferRepo = store
		logger.Info("storage driver selected", logger.Fields{"driver": "memory"})
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			cancel()
			log.Fatalf("open database: %v", err)
		}
		if err := postgres.RunMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			cancel()
			log.Fatalf("run migrations: %v", err)
		}
		cancel()
		defer db.Close()

		accountRepo = postgres.NewAccountRepository(db)
		ledgerRepo = postgres.NewLedgerRepository(db)
		transferRepo = postgres.NewTransferRepository(db)
		logger.Info("storage driver selected", logger.Fields{"driver": "postgres"})
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("kafka publisher enabled", logger.Fields{"brokers": cfg.KafkaBrokers})
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := services.NewAuthService(accountRepo, tokens, cfg.OpeningBalance)
	accountService := services.NewAccountService(accountRepo, ledgerRepo)
	transferService := services.NewTransferService(transferRepo, publisher)

	mux := router.New(
		controller.NewAuthController(authService),
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		middleware.BearerAuth(tokens),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.FrontendURL},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           corsHandler.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", logger.Fields{"address": server.Addr})
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", err, nil)
	}

	logger.Info("server gracefully shut down", nil)
}
