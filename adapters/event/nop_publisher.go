package event

import (
	"context"

	"github.com/khoahotran/devconnector/internal/application/service"
)

// NopPublisher drops events. Used when no Kafka brokers are configured.
type NopPublisher struct{}

var _ service.EventPublisher = NopPublisher{}

func (NopPublisher) PublishProfileEvent(ctx context.Context, e service.ProfileEvent) error {
	return nil
}

func (NopPublisher) PublishUserEvent(ctx context.Context, e service.UserEvent) error {
	return nil
}
