package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func newTestClient(t *testing.T, token string, h http.HandlerFunc) service.GitHubClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var cfg config.Config
	cfg.GitHub.BaseURL = srv.URL
	cfg.GitHub.Token = token
	return New(cfg, logger.NewNopLogger())
}

func TestListRecentRepos_PassesThroughBody(t *testing.T) {
	c := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created:asc", r.URL.Query().Get("sort"))
		assert.Equal(t, "per_page=5&sort=created:asc", r.URL.RawQuery)
		assert.Equal(t, "node.js", r.Header.Get("User-Agent"))
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"name":"hello-world"}]`))
	})

	repos, err := c.ListRecentRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, string(repos))
}

func TestListRecentRepos_NoTokenNoAuthHeader(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	_, err := c.ListRecentRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestListRecentRepos_NotFound(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	_, err := c.ListRecentRepos(context.Background(), "nobody")
	assert.ErrorIs(t, err, service.ErrGitHubUserNotFound)
}

func TestListRecentRepos_UpstreamError(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	})

	_, err := c.ListRecentRepos(context.Background(), "octocat")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.NotErrorIs(t, err, service.ErrGitHubUserNotFound)
}
