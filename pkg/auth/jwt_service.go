package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifespan is used when no lifespan is configured.
const DefaultTokenLifespan = 100 * time.Hour

var (
	ErrSigningKeyUnavailable = errors.New("signing key unavailable")
	ErrInvalidToken          = errors.New("token is not valid")
)

type JWTService struct {
	secretKey     []byte
	tokenLifespan time.Duration
	now           func() time.Time
}

type UserClaim struct {
	ID uuid.UUID `json:"id"`
}

// CustomClaims is the token payload: {"user":{"id":...},"iat":...,"exp":...}.
type CustomClaims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey string, tokenLifespan time.Duration) *JWTService {
	if tokenLifespan <= 0 {
		tokenLifespan = DefaultTokenLifespan
	}
	return &JWTService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
		now:           time.Now,
	}
}

func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrSigningKeyUnavailable
	}

	issuedAt := s.now()
	claims := CustomClaims{
		UserClaim{ID: userID},
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenLifespan)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}

	return signedString, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: cannot parse token claims", ErrInvalidToken)
	}
	if claims.User.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return claims, nil
}
