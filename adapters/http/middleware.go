package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

const (
	HeaderAuthToken  = "x-auth-token"
	msgNoToken       = "No token, authorization denied"
	msgInvalidToken  = "Token is not valid"
	rejectionMissing = "missing"
	rejectionInvalid = "invalid"
)

// Identity is the caller established by AuthMiddleware.
type Identity struct {
	UserID uuid.UUID
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// AuthMiddleware verifies the token in the x-auth-token header. It never reads
// the user store.
func AuthMiddleware(jwtSvc *auth.JWTService, m *metrics.Metrics, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuthToken)
		if token == "" {
			m.IncAuthRejection(rejectionMissing)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgNoToken})
			return
		}

		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			m.IncAuthRejection(rejectionInvalid)
			log.Info("Rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msgInvalidToken})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), Identity{UserID: claims.User.ID}))

		c.Next()
	}
}

// GetUserIDFromGinContext reads the Identity carried by the request context.
func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(c.Request.Context())
	if !ok || id.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.UserID, true
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.NamedError("cause", appErr.Cause()),
			)
		}
		c.JSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if userID, ok := GetUserIDFromGinContext(c); ok {
			fields = append(fields, zap.String("user_id", userID.String()))
		}
		log.Info("HTTP request", fields...)
	}
}
