package service

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrGitHubUserNotFound = errors.New("github user not found")

type GitHubClient interface {
	// ListRecentRepos returns GitHub's JSON untouched.
	ListRecentRepos(ctx context.Context, username string) (json.RawMessage, error)
}
