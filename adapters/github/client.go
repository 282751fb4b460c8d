package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "node.js"
	recentRepos    = 5
)

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 1000 {
		msg = msg[:1000] + "..."
	}
	return fmt.Sprintf("github http %d: %s", e.StatusCode, msg)
}

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

func New(cfg config.Config, log logger.Logger) service.GitHubClient {
	baseURL := strings.TrimRight(cfg.GitHub.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		baseURL:    baseURL,
		token:      cfg.GitHub.Token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// ListRecentRepos returns up to five of username's repositories ordered by
// creation date.
func (c *client) ListRecentRepos(ctx context.Context, username string) (json.RawMessage, error) {
	// the colon in the sort value is sent unescaped
	urlStr := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=created:asc", c.baseURL, url.PathEscape(username), recentRepos)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("user-agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, service.ErrGitHubUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("GitHub request failed", zap.String("username", username), zap.Int("status", resp.StatusCode))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("github returned invalid json for %s", username)
	}
	return json.RawMessage(raw), nil
}
