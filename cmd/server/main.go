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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shopmaster/storefront/internal/activity"
	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/config"
	"github.com/shopmaster/storefront/internal/db"
	"github.com/shopmaster/storefront/internal/events"
	"github.com/shopmaster/storefront/internal/handlers"
	"github.com/shopmaster/storefront/internal/logging"
	loggingmw "github.com/shopmaster/storefront/internal/middleware/logging"
	"github.com/shopmaster/storefront/internal/search"
	"github.com/shopmaster/storefront/internal/service"
	httpserver "github.com/shopmaster/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.ProviderSecret, "OAUTH_PROVIDER_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.Index{ES: esClient, Name: cfg.ESIndex}
	}

	recorder := &activity.Recorder{DB: database, Producer: producer}
	users := &service.UserService{DB: database, Policy: auth.AllowlistPolicy(cfg.AdminEmail)}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:   database,
		Auth: &auth.Middleware{JWTSecret: cfg.JWTSecret},
		AuthHandler: &handlers.AuthHandler{
			Users:          users,
			Recorder:       recorder,
			Producer:       producer,
			JWTSecret:      cfg.JWTSecret,
			ProviderSecret: cfg.ProviderSecret,
		},
		ProductHandler: &handlers.ProductHandler{
			Svc:      &service.ProductService{DB: database},
			Producer: producer,
			Index:    index,
		},
		OrderHandler: &handlers.OrderHandler{
			Svc:      &service.OrderService{DB: database},
			Recorder: recorder,
			Producer: producer,
		},
		UserHandler:   &handlers.UserHandler{Svc: users, Recorder: recorder},
		AdminHandler:  &handlers.AdminHandler{Recorder: recorder},
		SearchHandler: &handlers.SearchHandler{Index: index},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
