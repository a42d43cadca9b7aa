// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalog/internal/audit"
	auditmemory "catalog/internal/audit/store/memory"
	auditpostgres "catalog/internal/audit/store/postgres"
	cataloghandler "catalog/internal/catalog/handler"
	catalogservice "catalog/internal/catalog/service"
	catalogstore "catalog/internal/catalog/store"
	identityhandler "catalog/internal/identity/handler"
	identityservice "catalog/internal/identity/service"
	identitystore "catalog/internal/identity/store"
	"catalog/internal/jwttoken"
	"catalog/internal/platform/config"
	"catalog/internal/platform/httpserver"
	"catalog/internal/platform/logger"
	"catalog/internal/platform/metrics"
	"catalog/internal/platform/middleware"
	"catalog/internal/platform/postgres"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		users    identitystore.UserStore
		products catalogstore.ProductStore
		ledger   audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		users = identitystore.NewPostgres(db)
		products = catalogstore.NewPostgres(db)
		ledger = auditpostgres.New(db)
		log.Info("using postgres storage")
	} else {
		memUsers := identitystore.NewInMemory()
		users = memUsers
		products = catalogstore.NewInMemory(memUsers)
		ledger = auditmemory.NewInMemoryStore()
		log.Info("using in-memory storage")
	}

	m := metrics.New()
	tokens := jwttoken.NewService(cfg.JWTSigningKey, "catalog", cfg.TokenTTL)
	validator := jwttoken.NewMiddlewareAdapter(tokens)

	identitySvc := identityservice.New(users, tokens)
	catalogSvc := catalogservice.New(products, ledger, log,
		catalogservice.WithMetrics(m),
		catalogservice.WithStrictAudit(cfg.StrictAudit),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Latency(m))

	identityhandler.New(identitySvc, log).Register(router)
	cataloghandler.New(catalogSvc, log, validator).Register(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting catalog service", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
