package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	cache       service.ProfileCache
	publisher   service.EventPublisher
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
	newID       func() uuid.UUID
}

func NewProfileUseCase(
	pRepo profile.Repository,
	uRepo user.Repository,
	cache service.ProfileCache,
	publisher service.EventPublisher,
	m *metrics.Metrics,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: pRepo,
		userRepo:    uRepo,
		cache:       cache,
		publisher:   publisher,
		metrics:     m,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.New,
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.View
}

// ExecuteGetMyProfile always reads the store so owners see their own writes.
func (uc *ProfileUseCase) ExecuteGetMyProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetMyProfile")
	defer span.End()

	v, err := uc.loadView(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &GetProfileOutput{Profile: v}, nil
}

// ExecuteGetByUserID serves public lookups from the cache when possible.
func (uc *ProfileUseCase) ExecuteGetByUserID(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfileByUserID")
	defer span.End()

	cached, err := uc.cache.Get(ctx, input.UserID)
	if err != nil {
		uc.logger.Warn("Profile cache read failed", zap.String("user_id", input.UserID.String()), zap.Error(err))
	}
	if cached != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return &GetProfileOutput{Profile: cached}, nil
	}

	v, err := uc.loadView(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := uc.cache.Set(ctx, v); err != nil {
		uc.logger.Warn("Profile cache write failed", zap.String("user_id", input.UserID.String()), zap.Error(err))
	}
	return &GetProfileOutput{Profile: v}, nil
}

type ListProfilesOutput struct {
	Profiles []*profile.View
}

func (uc *ProfileUseCase) ExecuteListProfiles(ctx context.Context) (*ListProfilesOutput, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list profiles failed: %w", err)
	}

	ids := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	users, err := uc.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load profile owners failed: %w", err)
	}

	views := make([]*profile.View, len(profiles))
	for i, p := range profiles {
		views[i] = profile.NewView(p, users[p.UserID])
	}
	return &ListProfilesOutput{Profiles: views}, nil
}

type UpsertProfileInput struct {
	UserID         uuid.UUID
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string
	YouTube        string
	Twitter        string
	Facebook       string
	LinkedIn       string
	Instagram      string
}

// Fields keeps only non-empty inputs so a partial update never blanks stored values.
func (in UpsertProfileInput) Fields() profile.Fields {
	return profile.Fields{
		Company:        profile.Text(in.Company),
		Website:        profile.Text(in.Website),
		Location:       profile.Text(in.Location),
		Bio:            profile.Text(in.Bio),
		Status:         profile.Text(in.Status),
		GitHubUsername: profile.Text(in.GitHubUsername),
		Skills:         profile.ParseSkills(in.Skills),
		Social: profile.SocialFields{
			YouTube:   profile.Text(in.YouTube),
			Twitter:   profile.Text(in.Twitter),
			Facebook:  profile.Text(in.Facebook),
			LinkedIn:  profile.Text(in.LinkedIn),
			Instagram: profile.Text(in.Instagram),
		},
	}
}

type ProfileOutput struct {
	Profile *profile.Profile
}

// ExecuteUpsertProfile merges the provided fields into the user's profile,
// creating it on first use. Concurrent writers are last-write-wins per field.
func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input UpsertProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	fields := input.Fields()
	now := uc.now()

	var p *profile.Profile
	_, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	switch {
	case err == nil:
		p, err = uc.profileRepo.UpdateFields(ctx, input.UserID, fields, now)
	case errors.Is(err, profile.ErrProfileNotFound):
		p, err = uc.createProfile(ctx, input.UserID, fields, now)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("upsert profile failed: %w", err)
	}

	uc.afterWrite(ctx, "upsert", service.ProfileEvent{
		EventType:  service.ProfileEventUpserted,
		UserID:     input.UserID,
		OccurredAt: now,
	})
	return &ProfileOutput{Profile: p}, nil
}

// createProfile seeds a new profile. A token can outlive its account, so the
// owner is checked first.
func (uc *ProfileUseCase) createProfile(ctx context.Context, userID uuid.UUID, fields profile.Fields, now time.Time) (*profile.Profile, error) {
	if _, err := uc.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, profile.ErrOwnerNotFound
		}
		return nil, err
	}

	p := profile.New(userID, fields, now)
	err := uc.profileRepo.Create(ctx, p)
	if errors.Is(err, profile.ErrProfileExists) {
		// another request created it between lookup and insert
		return uc.profileRepo.UpdateFields(ctx, userID, fields, now)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ExecuteDeleteAccount removes the profile and then the user. Missing records
// are not an error.
func (uc *ProfileUseCase) ExecuteDeleteAccount(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	if err := uc.profileRepo.Delete(ctx, userID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		span.RecordError(err)
		return fmt.Errorf("delete profile failed: %w", err)
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return fmt.Errorf("delete user failed: %w", err)
	}

	now := uc.now()
	uc.afterWrite(ctx, "delete", service.ProfileEvent{
		EventType:  service.ProfileEventDeleted,
		UserID:     userID,
		OccurredAt: now,
	})
	if err := uc.publisher.PublishUserEvent(ctx, service.UserEvent{
		EventType:  service.UserEventDeleted,
		UserID:     userID,
		OccurredAt: now,
	}); err != nil {
		uc.logger.Warn("Failed to publish user deleted event", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}

// ExecuteRefreshCache re-reads a profile into the cache, or evicts it when the
// profile no longer exists.
func (uc *ProfileUseCase) ExecuteRefreshCache(ctx context.Context, userID uuid.UUID) error {
	v, err := uc.loadView(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return uc.cache.Delete(ctx, userID)
	}
	if err != nil {
		return err
	}
	return uc.cache.Set(ctx, v)
}

func (uc *ProfileUseCase) loadView(ctx context.Context, userID uuid.UUID) (*profile.View, error) {
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}
	return profile.NewView(p, u), nil
}

// afterWrite evicts the cached view, publishes the event and counts the write.
// None of these can fail the request.
func (uc *ProfileUseCase) afterWrite(ctx context.Context, kind string, e service.ProfileEvent) {
	uc.metrics.IncProfileMutation(kind)

	if err := uc.cache.Delete(ctx, e.UserID); err != nil {
		uc.logger.Warn("Profile cache eviction failed", zap.String("user_id", e.UserID.String()), zap.Error(err))
	}
	if err := uc.publisher.PublishProfileEvent(ctx, e); err != nil {
		uc.logger.Warn("Failed to publish profile event",
			zap.String("event_type", e.EventType),
			zap.String("user_id", e.UserID.String()),
			zap.Error(err),
		)
	}
}
