package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

// entryCollection binds the generic editor to one sub-collection of a profile.
type entryCollection[T profile.Entry[T]] struct {
	name         string
	addedEvent   string
	removedEvent string
	list         func(p *profile.Profile) profile.Entries[T]
	replace      func(ctx context.Context, userID uuid.UUID, es profile.Entries[T], now time.Time) (*profile.Profile, error)
}

func (uc *ProfileUseCase) experience() entryCollection[profile.Experience] {
	return entryCollection[profile.Experience]{
		name:         "experience",
		addedEvent:   service.ProfileEventExperienceAdded,
		removedEvent: service.ProfileEventExperienceRemoved,
		list:         func(p *profile.Profile) profile.Entries[profile.Experience] { return p.Experience },
		replace:      uc.profileRepo.ReplaceExperience,
	}
}

func (uc *ProfileUseCase) education() entryCollection[profile.Education] {
	return entryCollection[profile.Education]{
		name:         "education",
		addedEvent:   service.ProfileEventEducationAdded,
		removedEvent: service.ProfileEventEducationRemoved,
		list:         func(p *profile.Profile) profile.Entries[profile.Education] { return p.Education },
		replace:      uc.profileRepo.ReplaceEducation,
	}
}

type AddExperienceInput struct {
	UserID     uuid.UUID
	Experience profile.Experience
}

func (uc *ProfileUseCase) ExecuteAddExperience(ctx context.Context, input AddExperienceInput) (*ProfileOutput, error) {
	if err := input.Experience.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("experience validation failed", err)
	}
	return insertFront(ctx, uc, uc.experience(), input.UserID, input.Experience)
}

type AddEducationInput struct {
	UserID    uuid.UUID
	Education profile.Education
}

func (uc *ProfileUseCase) ExecuteAddEducation(ctx context.Context, input AddEducationInput) (*ProfileOutput, error) {
	if err := input.Education.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("education validation failed", err)
	}
	return insertFront(ctx, uc, uc.education(), input.UserID, input.Education)
}

type RemoveEntryInput struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}

func (uc *ProfileUseCase) ExecuteDeleteExperience(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return removeByID(ctx, uc, uc.experience(), input)
}

func (uc *ProfileUseCase) ExecuteDeleteEducation(ctx context.Context, input RemoveEntryInput) (*ProfileOutput, error) {
	return removeByID(ctx, uc, uc.education(), input)
}

func insertFront[T profile.Entry[T]](ctx context.Context, uc *ProfileUseCase, c entryCollection[T], userID uuid.UUID, entry T) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "Add_"+c.name)
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("add %s failed: %w", c.name, err)
	}

	entries := c.list(p).InsertFront(entry, uc.newID)
	entryID := entries[0].EntryID()
	now := uc.now()

	p, err = c.replace(ctx, userID, entries, now)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("add %s failed: %w", c.name, err)
	}
	span.SetAttributes(attribute.String("entry_id", entryID.String()))

	uc.afterWrite(ctx, "add_"+c.name, service.ProfileEvent{
		EventType:  c.addedEvent,
		UserID:     userID,
		EntryID:    entryID,
		OccurredAt: now,
	})
	return &ProfileOutput{Profile: p}, nil
}

// removeByID persists the sequence even when nothing matched, so the caller
// always gets the stored aggregate back.
func removeByID[T profile.Entry[T]](ctx context.Context, uc *ProfileUseCase, c entryCollection[T], input RemoveEntryInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "Delete_"+c.name)
	defer span.End()

	p, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("delete %s failed: %w", c.name, err)
	}

	entries, removed := c.list(p).RemoveByID(input.EntryID)
	span.SetAttributes(attribute.Bool("removed", removed))
	now := p.UpdatedAt
	if removed {
		now = uc.now()
	}

	p, err = c.replace(ctx, input.UserID, entries, now)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("delete %s failed: %w", c.name, err)
	}

	if removed {
		uc.afterWrite(ctx, "remove_"+c.name, service.ProfileEvent{
			EventType:  c.removedEvent,
			UserID:     input.UserID,
			EntryID:    input.EntryID,
			OccurredAt: now,
		})
	}
	return &ProfileOutput{Profile: p}, nil
}
