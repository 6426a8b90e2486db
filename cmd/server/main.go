// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness-nutri/config"
	"fitness-nutri/internal/payment"
	"fitness-nutri/internal/server"
	"fitness-nutri/internal/store"
	"fitness-nutri/internal/webhook"
	"fitness-nutri/pkg/logger"
)

func main() {
	l := logger.New()
	l.Info("Starting Fitness Nutri server...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatal("Failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		l.Fatal("Invalid configuration", err)
	}

	// Connect to the database with retry
	var db *store.Postgres
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		db, err = store.NewPostgres(store.PostgresConfig(cfg.DB))
		if err == nil {
			break
		}
		l.Error("Failed to connect to database, retrying...", err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if db == nil {
		l.Fatal("Failed to connect to database after multiple attempts", err)
	}
	defer db.Close()

	paymentClient := payment.NewClient(payment.ClientConfig{
		AccessToken:   cfg.MercadoPago.AccessToken,
		PublicKey:     cfg.MercadoPago.PublicKey,
		WebhookSecret: cfg.MercadoPago.WebhookSecret,
	})

	webhookHandler := webhook.NewHandler(db, paymentClient, cfg.MercadoPago.WebhookSecret, l)
	handlers := server.NewHandlers(db, paymentClient, webhookHandler, cfg.Server.OriginURL, l)
	router := server.NewRouter(handlers)

	httpServer := server.NewServer(cfg.Server.Port, router, l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		l.Error("Error during HTTP server shutdown", err)
	}

	l.Info("Server stopped successfully")
}
