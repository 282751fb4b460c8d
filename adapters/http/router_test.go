package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/application/service"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/metrics"
)

type stubGitHub struct{}

func (stubGitHub) ListRecentRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if username == "ghost" {
		return nil, service.ErrGitHubUserNotFound
	}
	return json.RawMessage(`[{"name":"devconnector"}]`), nil
}

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	log := logger.NewNopLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	jwtSvc := auth.NewJWTService("router-secret", time.Hour)
	userRepo := persistence.NewMemoryUserRepo()
	profileRepo := persistence.NewMemoryProfileRepo()
	publisher := event.NopPublisher{}

	s.router = NewRouter(RouterConfig{
		UserHandler: NewUserHandler(authUC.NewRegisterUseCase(userRepo, auth.BcryptHasher{}, jwtSvc, publisher, m, log)),
		AuthHandler: NewAuthHandler(
			authUC.NewLoginUseCase(userRepo, auth.BcryptHasher{}, jwtSvc, m, log),
			authUC.NewCurrentUserUseCase(userRepo),
		),
		ProfileHandler: NewProfileHandler(
			profileUC.NewProfileUseCase(profileRepo, userRepo, cache.NopCache{}, publisher, m, log),
			profileUC.NewGitHubReposUseCase(stubGitHub{}),
			log,
		),
		JWTService: jwtSvc,
		Metrics:    m,
		Gatherer:   reg,
		Logger:     log,
	})
}

func (s *RouterTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(HeaderAuthToken, token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *RouterTestSuite) register(name, email string) string {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"name": name, "email": email, "password": "abcdef"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]string
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp["token"])
	return resp["token"]
}

func decode[T any](s *RouterTestSuite, rr *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func (s *RouterTestSuite) TestRegisterAndLogin() {
	s.register("Ada", "a@x.com")

	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"name": "Ada", "email": "a@x.com", "password": "abcdef"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"User already exists"}]}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "a@x.com", "password": "abcdef"})
	s.Equal(http.StatusOK, rr.Code)
	token := decode[map[string]string](s, rr)["token"]

	wrong := s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "a@x.com", "password": "nope!!"})
	unknown := s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "b@x.com", "password": "abcdef"})
	s.Equal(http.StatusBadRequest, wrong.Code)
	s.Equal(wrong.Body.String(), unknown.Body.String())

	rr = s.do(http.MethodGet, "/api/auth", token, nil)
	s.Equal(http.StatusOK, rr.Code)
	me := decode[map[string]any](s, rr)
	s.Equal("a@x.com", me["email"])
	s.Contains(me["avatar"], "gravatar.com/avatar/")
	s.NotContains(me, "password")
	s.NotContains(me, "PasswordHash")
}

func (s *RouterTestSuite) TestRegister_Validation() {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"email": "not-an-email", "password": "abc"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[
		{"msg":"Name is required"},
		{"msg":"Please include a valid email"},
		{"msg":"Please enter a password with 6 or more characters"}
	]}`, rr.Body.String())
}

func (s *RouterTestSuite) TestProfileRequiresToken() {
	rr := s.do(http.MethodGet, "/api/profile/me", "", nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.JSONEq(`{"msg":"No token, authorization denied"}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", "garbage", gin.H{"status": "Dev", "skills": "go"})
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.JSONEq(`{"msg":"Token is not valid"}`, rr.Body.String())
}

func (s *RouterTestSuite) TestProfileLifecycle() {
	token := s.register("Ada", "a@x.com")

	rr := s.do(http.MethodGet, "/api/profile/me", token, nil)
	s.Equal(http.StatusNotFound, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"There is no profile for this user"}]}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{"company": "Acme"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"Status is required"},{"msg":"Skills is required"}]}`, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{"company": "Acme", "status": "Developer", "skills": "go, sql", "twitter": "@ada"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{"location": "NYC", "status": "Developer", "skills": "go, sql"})
	s.Require().Equal(http.StatusOK, rr.Code)
	p := decode[map[string]any](s, rr)
	s.Equal("Acme", p["company"])
	s.Equal("NYC", p["location"])
	s.Equal([]any{"go", "sql"}, p["skills"])
	s.Equal(map[string]any{"twitter": "@ada"}, p["social"])

	rr = s.do(http.MethodGet, "/api/profile/me", token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	mine := decode[map[string]any](s, rr)
	owner := mine["user"].(map[string]any)
	s.Equal("Ada", owner["name"])

	rr = s.do(http.MethodGet, "/api/profile/user/"+owner["_id"].(string), "", nil)
	s.Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/profile/user/not-a-uuid", "", nil)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/api/profile", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(decode[[]map[string]any](s, rr), 1)

	rr = s.do(http.MethodDelete, "/api/profile", token, nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"msg":"User removed"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/profile", "", nil)
	s.JSONEq(`[]`, rr.Body.String())
}

func (s *RouterTestSuite) TestExperienceAndEducation() {
	token := s.register("Ada", "a@x.com")

	rr := s.do(http.MethodPut, "/api/profile/experience", token, gin.H{"title": "Lead", "company": "Acme", "from": "2020-01-01"})
	s.Equal(http.StatusNotFound, rr.Code)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/profile", token, gin.H{"status": "Dev", "skills": "go"}).Code)

	rr = s.do(http.MethodPut, "/api/profile/experience", token, gin.H{"title": "Lead"})
	s.Equal(http.StatusBadRequest, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"Company is required"},{"msg":"From date is required"}]}`, rr.Body.String())

	rr = s.do(http.MethodPut, "/api/profile/experience", token, gin.H{"title": "Lead", "company": "Acme", "from": "yesterday"})
	s.Equal(http.StatusBadRequest, rr.Code)

	for _, title := range []string{"Engineer", "Lead"} {
		rr = s.do(http.MethodPut, "/api/profile/experience", token, gin.H{"title": title, "company": "Acme", "from": "2020-01-01", "current": true})
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	}
	exps := decode[map[string]any](s, rr)["experience"].([]any)
	s.Require().Len(exps, 2)
	s.Equal("Lead", exps[0].(map[string]any)["title"])
	engineerID := exps[1].(map[string]any)["_id"].(string)

	rr = s.do(http.MethodDelete, "/api/profile/experience/"+uuid.NewString(), token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Len(decode[map[string]any](s, rr)["experience"], 2)

	rr = s.do(http.MethodDelete, "/api/profile/experience/"+engineerID, token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	exps = decode[map[string]any](s, rr)["experience"].([]any)
	s.Require().Len(exps, 1)
	s.Equal("Lead", exps[0].(map[string]any)["title"])

	rr = s.do(http.MethodPut, "/api/profile/education", token, gin.H{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2015-09-01T00:00:00Z", "to": "2019-06-01"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	edus := decode[map[string]any](s, rr)["education"].([]any)
	s.Require().Len(edus, 1)
	eduID := edus[0].(map[string]any)["_id"].(string)

	rr = s.do(http.MethodDelete, "/api/profile/education/"+eduID, token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Empty(decode[map[string]any](s, rr)["education"])
}

func (s *RouterTestSuite) TestGitHubRepos() {
	rr := s.do(http.MethodGet, "/api/profile/github/octocat", "", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`[{"name":"devconnector"}]`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/profile/github/ghost", "", nil)
	s.Equal(http.StatusNotFound, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"No Github profile found"}]}`, rr.Body.String())
}

func (s *RouterTestSuite) TestHealthAndMetrics() {
	rr := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, rr.Code)

	s.register("Ada", "a@x.com")
	rr = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "devconnector_users_registered_total 1")
}

func (s *RouterTestSuite) TestProfileFeed() {
	token := s.register("Ada", "a@x.com")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/profile", token, gin.H{"status": "Developer", "skills": "go"}).Code)

	rr := s.do(http.MethodGet, "/api/profile/feed", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Header().Get("Content-Type"), "application/xml")
	s.Contains(rr.Body.String(), "<rss")
	s.Contains(rr.Body.String(), "Ada - Developer")
	s.Contains(rr.Body.String(), "http://example.com/api/profile/user/")
}

func (s *RouterTestSuite) TestUpsertWithTokenOfDeletedAccount() {
	token := s.register("Ada", "a@x.com")
	s.Require().Equal(http.StatusOK, s.do(http.MethodDelete, "/api/profile", token, nil).Code)

	rr := s.do(http.MethodPost, "/api/profile", token, gin.H{"status": "Developer", "skills": "go"})
	s.Equal(http.StatusNotFound, rr.Code)
	s.JSONEq(`{"errors":[{"msg":"User not found"}]}`, rr.Body.String())

	s.JSONEq(`[]`, s.do(http.MethodGet, "/api/profile", "", nil).Body.String())
}
