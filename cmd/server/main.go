package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/api"
	"github.com/devlink/bookings-api/internal/core/ports"
	"github.com/devlink/bookings-api/internal/core/service"
	"github.com/devlink/bookings-api/internal/infrastructure/config"
	mongodb "github.com/devlink/bookings-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devlink/bookings-api/internal/infrastructure/db/redis"
	"github.com/devlink/bookings-api/internal/infrastructure/gateway"
	"github.com/devlink/bookings-api/internal/infrastructure/queue"
	"github.com/devlink/bookings-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not up yet
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	profiles := mongodb.NewProfileRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	if err := paymentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure payment indexes")
	}

	// The guard's fallback uses a restricted, acts-as-user connection. When
	// it is not configured the guard is handed a nil repository and every
	// fallback resolution fails loudly as a server misconfiguration, never
	// as a silent allow.
	guardProfiles := guardProfileRepository(ctx, cfg, log)

	// --- Services ---
	tokens := service.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	authService := service.NewAuthService(profiles, tokens)
	guard := service.NewAuthGuard(tokens, guardProfiles, log)
	bookingService := service.NewBookingService(bookingRepo, log)

	gw := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Secret:  cfg.Gateway.SecretKey,
	})
	dedup := redisdb.NewWebhookDedup(rdb)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, gw, dedup, cfg.Gateway.CallbackURL, log)

	dispatcher := queue.NewDispatcher(0, paymentService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		AuthService:    authService,
		Guard:          guard,
		Profiles:       profiles,
		Bookings:       bookingService,
		Payments:       paymentService,
		Dispatcher:     dispatcher,
		Mongo:          db,
		Redis:          rdb,
		AllowedOrigins: cfg.CORS,
		Logger:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("bookings API listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// guardProfileRepository opens the restricted profile-store connection for
// the authorization fallback, or returns nil when it was never configured.
func guardProfileRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) ports.ProfileRepository {
	if cfg.Mongo.ProfilesURI == "" {
		log.Warn().Msg("MONGO_PROFILES_URI not set: authorization fallback will fail as misconfigured")
		return nil
	}

	_, guardDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.ProfilesURI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("restricted mongo connection failed")
	}
	return mongodb.NewProfileRepository(guardDB)
}
