// Package server boots the HTTP server: config, store, middleware
// chain, routes, and the one-time admin bootstrap.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/charvi/app/routes"
	"github.com/shashiranjanraj/charvi/app/services"
	"github.com/shashiranjanraj/charvi/app/store"
	"github.com/shashiranjanraj/charvi/config"
	"github.com/shashiranjanraj/charvi/pkg/cache"
	"github.com/shashiranjanraj/charvi/pkg/logger"
	"github.com/shashiranjanraj/charvi/pkg/metrics"
	"github.com/shashiranjanraj/charvi/pkg/middleware"
	"github.com/shashiranjanraj/charvi/pkg/reqid"
	"github.com/shashiranjanraj/charvi/pkg/router"
	"github.com/shashiranjanraj/charvi/pkg/session"
	"github.com/shashiranjanraj/charvi/pkg/storage"
)

// Start loads configuration, connects the backing services and serves
// the API. The seed admin is ensured before the listener opens so no
// request ever races the bootstrap.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoURI(); uri != "" {
		if _, err := logger.AttachMongoSink(uri, config.MongoDatabase(), config.MongoCollection()); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	// Redis is optional: sessions fall back to the in-memory store.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using in-memory sessions", "error", err)
	}
	storage.Connect()

	s, err := store.Connect()
	if err != nil {
		return fmt.Errorf("server: connect store: %w", err)
	}
	if gs, ok := s.(*store.GormStore); ok {
		if err := gs.AutoMigrate(); err != nil {
			return fmt.Errorf("server: auto-migrate: %w", err)
		}
	}

	authService := services.NewAuthService(s)
	if err := authService.EnsureDefaultAdmin(context.Background()); err != nil {
		return fmt.Errorf("server: ensure default admin: %w", err)
	}

	handler := buildHandler(s, authService)

	addr := ":" + config.AppPort()
	logger.Info("charvi listening", "addr", addr, "store", config.StoreDriver(), "env", config.AppEnv())
	return http.ListenAndServe(addr, handler)
}

// buildHandler assembles the global middleware chain and mounts the
// API routes.
func buildHandler(s store.Store, authService *services.AuthService) http.Handler {
	r := router.New()

	// Outermost → innermost: metrics first for accurate total latency,
	// recovery before anything that can panic, request ID before the
	// first log line, session before CORS so credentialed preflights
	// see consistent cookies.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))

	routes.RegisterAPI(r, s, authService)

	return r.Handler()
}
