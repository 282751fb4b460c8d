package profile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

type GitHubReposUseCase struct {
	client service.GitHubClient
}

func NewGitHubReposUseCase(client service.GitHubClient) *GitHubReposUseCase {
	return &GitHubReposUseCase{client: client}
}

func (uc *GitHubReposUseCase) Execute(ctx context.Context, username string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "ListGitHubRepos")
	defer span.End()

	repos, err := uc.client.ListRecentRepos(ctx, username)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, service.ErrGitHubUserNotFound) {
			return nil, apperror.NewAppError(apperror.ErrNotFound, "No Github profile found", username, err)
		}
		return nil, apperror.NewInternal("github repository lookup failed", err)
	}
	return repos, nil
}
