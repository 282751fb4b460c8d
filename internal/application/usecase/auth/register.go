package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type RegisterUseCase struct {
	userRepo  user.Repository
	hasher    service.PasswordHasher
	jwtSvc    *auth.JWTService
	publisher service.EventPublisher
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewRegisterUseCase(
	repo user.Repository,
	hasher service.PasswordHasher,
	jwtSvc *auth.JWTService,
	publisher service.EventPublisher,
	m *metrics.Metrics,
	log logger.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:  repo,
		hasher:    hasher,
		jwtSvc:    jwtSvc,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterOutput struct {
	UserID      uuid.UUID
	AccessToken string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := user.NormalizeEmail(input.Email)

	_, err := uc.userRepo.FindByEmail(ctx, email)
	if err == nil {
		span.RecordError(ErrUserExists)
		return nil, ErrUserExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		err = apperror.NewInternal("failed to hash password", err)
		span.RecordError(err)
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		Avatar:       user.GravatarURL(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			span.RecordError(ErrUserExists)
			return nil, ErrUserExists
		}
		span.RecordError(err)
		return nil, err
	}
	uc.metrics.IncUsersRegistered()

	if err := uc.publisher.PublishUserEvent(ctx, service.UserEvent{
		EventType:  service.UserEventRegistered,
		UserID:     u.ID,
		OccurredAt: u.CreatedAt,
	}); err != nil {
		uc.logger.Warn("Failed to publish user registered event", zap.String("user_id", u.ID.String()), zap.Error(err))
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &RegisterOutput{UserID: u.ID, AccessToken: token}, nil
}
