package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/github"
	httpAdapter "github.com/khoahotran/devconnector/adapters/http"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/application/service"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start DevConnector API Server...", zap.String("env", cfg.App.Env))

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnector-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	// Repositories
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open store", err, zap.String("driver", cfg.DB.Driver))
	}
	defer store.Close()
	userRepo, profileRepo := store.Users, store.Profiles

	// Cache
	var profileCache service.ProfileCache = cache.NopCache{}
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Redis.TTL)
	}

	// Events
	var publisher service.EventPublisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	// Services
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	hasher := auth.BcryptHasher{}
	githubClient := github.New(cfg, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, hasher, jwtSvc, publisher, appMetrics, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, hasher, jwtSvc, appMetrics, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(userRepo)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, userRepo, profileCache, publisher, appMetrics, appLogger)
	githubUseCase := profileUC.NewGitHubReposUseCase(githubClient)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		UserHandler:    httpAdapter.NewUserHandler(registerUseCase),
		AuthHandler:    httpAdapter.NewAuthHandler(loginUseCase, currentUserUseCase),
		ProfileHandler: httpAdapter.NewProfileHandler(profileUseCase, githubUseCase, appLogger),
		JWTService:     jwtSvc,
		Metrics:        appMetrics,
		Gatherer:       registry,
		CORSOrigins:    cfg.App.CORSOrigins,
		Logger:         appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
