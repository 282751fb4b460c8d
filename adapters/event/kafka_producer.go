package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	TopicProfileEvents = "profile.events"
	TopicUserEvents    = "user.events"
)

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	UserEventsWriter    *kafka.Writer
	logger              logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// Async writers never block a request; delivery failures are reported
	// through Completion.
	completion := func(messages []kafka.Message, err error) {
		if err != nil {
			log.Error("Failed to deliver events", err, zap.Int("count", len(messages)))
		}
	}

	// writer 'profile.events'
	profileWriter := &kafka.Writer{
		Addr:       kafka.TCP(brokers...),
		Topic:      TopicProfileEvents,
		Balancer:   &kafka.Hash{},
		Async:      true,
		Completion: completion,
	}

	// writer 'user.events'
	userWriter := &kafka.Writer{
		Addr:       kafka.TCP(brokers...),
		Topic:      TopicUserEvents,
		Balancer:   &kafka.Hash{},
		Async:      true,
		Completion: completion,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		UserEventsWriter:    userWriter,
		logger:              log,
	}, nil
}

// PublishProfileEvent keys messages by user id so one user's events stay ordered.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, e service.ProfileEvent) error {
	return publish(ctx, c.ProfileEventsWriter, e.UserID.String(), e)
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, e service.UserEvent) error {
	return publish(ctx, c.UserEventsWriter, e.UserID.String(), e)
}

func publish(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("failed to write event to %s: %w", w.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close profile events writer", zap.Error(err))
		}
	}
	if c.UserEventsWriter != nil {
		if err := c.UserEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close user events writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
