package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/application/service"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

// The worker keeps the public profile cache warm: every profile event causes
// the affected view to be re-read from the store.
func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	if len(cfg.Kafka.Brokers) == 0 || cfg.Redis.Addr == "" {
		appLogger.Fatal("Worker needs kafka.brokers and redis.addr", errors.New("missing configuration"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open store", err, zap.String("driver", cfg.DB.Driver))
	}
	defer store.Close()
	userRepo, profileRepo := store.Users, store.Profiles

	// Redis
	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	// Use Case
	profileUseCase := profileUC.NewProfileUseCase(
		profileRepo,
		userRepo,
		cache.NewRedisProfileCache(redisClient, cfg.Redis.TTL),
		event.NopPublisher{},
		metrics.New(prometheus.NewRegistry()),
		appLogger,
	)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  "profile-cache-refresher",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload service.ProfileEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Warn("Failed to unmarshal event, skipping", zap.ByteString("key", msg.Key), zap.Error(err))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		log := appLogger.With(zap.String("event_type", payload.EventType), zap.String("user_id", payload.UserID.String()))
		if err := profileUseCase.ExecuteRefreshCache(ctx, payload.UserID); err != nil {
			log.Error("Failed to refresh profile cache", err)
			continue
		}
		log.Info("Refreshed profile cache")

		commitMessage(ctx, consumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
