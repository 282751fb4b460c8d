package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

const feedSize = 20

type FeedInput struct {
	// BaseURL is the public origin profile links are built from.
	BaseURL string
}

// ExecuteFeed builds an RSS feed of the most recently updated developer profiles.
func (uc *ProfileUseCase) ExecuteFeed(ctx context.Context, input FeedInput) (*feeds.Feed, error) {
	ctx, span := tracer.Start(ctx, "ProfileFeed")
	defer span.End()

	out, err := uc.ExecuteListProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	views := slices.Clone(out.Profiles)
	slices.SortStableFunc(views, func(a, b *profile.View) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if len(views) > feedSize {
		views = views[:feedSize]
	}

	base := strings.TrimRight(input.BaseURL, "/")
	feed := &feeds.Feed{
		Title:       "DevConnector - Developers",
		Link:        &feeds.Link{Href: base + "/api/profile"},
		Description: "Recently updated developer profiles.",
		Created:     uc.now(),
	}
	for _, v := range views {
		feed.Items = append(feed.Items, feedItem(base, v))
	}

	uc.logger.Info("Profile feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}

func feedItem(base string, v *profile.View) *feeds.Item {
	title := v.User.Name
	if title == "" {
		title = v.User.ID.String()
	}
	if v.Status != "" {
		title = fmt.Sprintf("%s - %s", title, v.Status)
	}

	desc := v.Bio
	if len(v.Skills) > 0 {
		if desc != "" {
			desc += "\n"
		}
		desc += "Skills: " + strings.Join(v.Skills, ", ")
	}

	return &feeds.Item{
		Id:          v.UserID.String(),
		Title:       title,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/profile/user/%s", base, v.UserID)},
		Description: desc,
		Created:     v.CreatedAt,
		Updated:     v.UpdatedAt,
	}
}
