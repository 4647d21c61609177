package instagram

import (
	"context"
	"fmt"
	"iter"

	"igbatch/pkg/models"
)

// Followers lists every account following p, one page at a time.
func (c *Client) Followers(ctx context.Context, p *models.Profile) iter.Seq2[models.User, error] {
	return c.friendships(ctx, FollowersEndpoint, p)
}

// Followees lists every account p follows, one page at a time.
func (c *Client) Followees(ctx context.Context, p *models.Profile) iter.Seq2[models.User, error] {
	return c.friendships(ctx, FollowingEndpoint, p)
}

func (c *Client) friendships(ctx context.Context, endpoint string, p *models.Profile) iter.Seq2[models.User, error] {
	return paginate(ctx, func(ctx context.Context, cursor string) ([]models.User, string, error) {
		var page FriendshipsResponse
		if err := c.getJSON(ctx, FriendshipsPath(endpoint, p.UserID, c.pageSize, cursor), &page); err != nil {
			return nil, "", fmt.Errorf("list friendships of %s: %w", p.Username, err)
		}

		users := make([]models.User, 0, len(page.Users))
		for _, u := range page.Users {
			users = append(users, models.User{Username: u.Username, UserID: u.ID()})
		}
		return users, string(page.NextMaxID), nil
	})
}

// paginate turns a page fetcher into a lazy sequence. Fetching stops when
// the consumer stops iterating, on the first error, or when the next cursor
// is empty.
func paginate[T any](ctx context.Context, fetch func(ctx context.Context, cursor string) ([]T, string, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cursor := ""
		for {
			items, next, err := fetch(ctx, cursor)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if next == "" || next == cursor {
				return
			}
			cursor = next
		}
	}
}
