package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

type AuthE2ETestSuite struct {
	suite.Suite
	Router   *gin.Engine
	dbPool   *pgxpool.Pool
	testUser user.User
	testPass string
}

func (s *AuthE2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}
	s.dbPool = dbPool

	appLogger := logger.NewZapLogger("development")

	s.testPass = "e2e_test_password_123"
	hash, _ := auth.HashPassword(s.testPass)
	s.testUser = user.User{
		ID:           uuid.New(),
		Name:         "E2E",
		Email:        "e2e_test@example.com",
		Avatar:       user.GravatarURL("e2e_test@example.com"),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	query := `
		INSERT INTO users (id, name, email, avatar, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET password_hash = $5
		RETURNING id
	`
	err = dbPool.QueryRow(context.Background(), query,
		s.testUser.ID, s.testUser.Name, s.testUser.Email, s.testUser.Avatar, s.testUser.PasswordHash, s.testUser.CreatedAt,
	).Scan(&s.testUser.ID)
	if err != nil {
		s.T().Fatalf("E2E test failed to seed user: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	publisher := event.NopPublisher{}

	gin.SetMode(gin.TestMode)
	s.Router = NewRouter(RouterConfig{
		UserHandler: NewUserHandler(authUC.NewRegisterUseCase(userRepo, auth.BcryptHasher{}, jwtSvc, publisher, m, appLogger)),
		AuthHandler: NewAuthHandler(
			authUC.NewLoginUseCase(userRepo, auth.BcryptHasher{}, jwtSvc, m, appLogger),
			authUC.NewCurrentUserUseCase(userRepo),
		),
		ProfileHandler: NewProfileHandler(
			profileUC.NewProfileUseCase(profileRepo, userRepo, cache.NopCache{}, publisher, m, appLogger),
			profileUC.NewGitHubReposUseCase(stubGitHub{}),
			appLogger,
		),
		JWTService: jwtSvc,
		Metrics:    m,
		Logger:     appLogger,
	})
}

func (s *AuthE2ETestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Exec(context.Background(), `DELETE FROM users WHERE email = $1`, s.testUser.Email)
		s.dbPool.Close()
	}
}

func TestAuthE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(AuthE2ETestSuite))
}

func (s *AuthE2ETestSuite) Test_Login_Flow() {
	bodyBad, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": "wrongpassword"})
	reqBad := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBuffer(bodyBad))
	reqBad.Header.Set("Content-Type", "application/json")

	rrBad := httptest.NewRecorder()
	s.Router.ServeHTTP(rrBad, reqBad)

	assert.Equal(s.T(), http.StatusBadRequest, rrBad.Code)

	bodyGood, _ := json.Marshal(gin.H{"email": s.testUser.Email, "password": s.testPass})
	reqGood := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBuffer(bodyGood))
	reqGood.Header.Set("Content-Type", "application/json")

	rrGood := httptest.NewRecorder()
	s.Router.ServeHTTP(rrGood, reqGood)

	assert.Equal(s.T(), http.StatusOK, rrGood.Code)

	var loginResponse map[string]string
	json.Unmarshal(rrGood.Body.Bytes(), &loginResponse)
	accessToken := loginResponse["token"]
	assert.NotEmpty(s.T(), accessToken)

	reqAuth := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	reqAuth.Header.Set(HeaderAuthToken, accessToken)

	rrAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrAuth, reqAuth)

	assert.Equal(s.T(), http.StatusOK, rrAuth.Code)
	assert.Contains(s.T(), rrAuth.Body.String(), s.testUser.Email)

	reqNoAuth := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	rrNoAuth := httptest.NewRecorder()
	s.Router.ServeHTTP(rrNoAuth, reqNoAuth)

	assert.Equal(s.T(), http.StatusUnauthorized, rrNoAuth.Code)
}
