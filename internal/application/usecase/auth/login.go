package auth

import (
	"context"
	"errors"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

type LoginUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	jwtSvc   *auth.JWTService
	metrics  *metrics.Metrics
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, hasher service.PasswordHasher, jwtSvc *auth.JWTService, m *metrics.Metrics, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		hasher:   hasher,
		jwtSvc:   jwtSvc,
		metrics:  m,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {

	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, user.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			uc.metrics.IncLogin(outcomeInvalidCredentials)
			span.RecordError(ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		uc.metrics.IncLogin(outcomeError)
		span.RecordError(err)
		return nil, err
	}

	if !uc.hasher.Compare(input.Password, u.PasswordHash) {
		uc.metrics.IncLogin(outcomeInvalidCredentials)
		span.RecordError(ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		uc.metrics.IncLogin(outcomeError)
		span.RecordError(err)
		return nil, err
	}
	uc.metrics.IncLogin(outcomeSuccess)
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{AccessToken: token}, nil
}
