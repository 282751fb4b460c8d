package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ProfileEventUpserted          = "profile.upserted"
	ProfileEventDeleted           = "profile.deleted"
	ProfileEventExperienceAdded   = "profile.experience_added"
	ProfileEventExperienceRemoved = "profile.experience_removed"
	ProfileEventEducationAdded    = "profile.education_added"
	ProfileEventEducationRemoved  = "profile.education_removed"

	UserEventRegistered = "user.registered"
	UserEventDeleted    = "user.deleted"
)

type ProfileEvent struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	EntryID    uuid.UUID `json:"entry_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type UserEvent struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher is best effort: callers log failures and carry on.
type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, e ProfileEvent) error
	PublishUserEvent(ctx context.Context, e UserEvent) error
}
