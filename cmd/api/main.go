// @title                       Storefront API
// @version                     1.0
// @description                 Accounts, sessions, catalog and orders for the storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/storefront/storefront-api/internal/api"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/infrastructure/config"
	"github.com/storefront/storefront-api/internal/infrastructure/db/mongo"
	"github.com/storefront/storefront-api/internal/infrastructure/db/redis"
	"github.com/storefront/storefront-api/internal/pkg/password"
	"github.com/storefront/storefront-api/internal/pkg/token"
	"github.com/storefront/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "storefront-api"})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	users := mongo.NewUserRepository(db)
	orders := mongo.NewOrderRepository(db)
	products := mongo.NewProductRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, orders); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	blobs, err := mongo.NewGridFSBlobStore(db, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open image bucket")
	}

	var (
		rdb     *goredis.Client
		revoker ports.TokenRevoker = redis.NoopRevocations{}
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		revoker = redis.NewRevocations(rdb)
	} else {
		log.Warn().Msg("redis disabled, logout will not revoke tokens")
	}

	// --- Core ---
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}

	if err := service.EnsureAdmin(ctx, users, hasher, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password, logger.Component("seed")); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	router := api.NewRouter(api.Deps{
		Logger:   logger.Component("http"),
		Auth:     service.NewAuthService(users, hasher, tokens, revoker, blobs, logger.Component("auth")),
		Admin:    service.NewAdminService(users, orders, blobs, logger.Component("admin")),
		Products: service.NewProductService(products, blobs, logger.Component("products")),
		Orders:   service.NewOrderService(orders, logger.Component("orders")),
		Blobs:    blobs,
		Tokens:   tokens,
		Revoker:  revoker,
		Users:    users,
		Mongo:    db,
		Redis:    rdb,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("shutdown complete")
}
