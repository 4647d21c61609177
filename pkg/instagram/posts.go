package instagram

import (
	"context"
	"fmt"
	"iter"
	"time"

	"igbatch/pkg/errors"
	"igbatch/pkg/models"
)

// Posts lists p's timeline posts newest first. Pages are requested only as
// the consumer iterates, so breaking out early stops further requests.
func (c *Client) Posts(ctx context.Context, p *models.Profile) iter.Seq2[*models.Post, error] {
	nodes := paginate(ctx, func(ctx context.Context, cursor string) ([]MediaNode, string, error) {
		var page MediaResponse
		if err := c.getJSON(ctx, MediaPath(p.UserID, cursor, c.pageSize), &page); err != nil {
			return nil, "", fmt.Errorf("list posts of %s: %w", p.Username, err)
		}
		if page.Data.User == nil {
			return nil, "", nil
		}

		media := page.Data.User.EdgeOwnerToTimelineMedia
		nodes := make([]MediaNode, 0, len(media.Edges))
		for _, edge := range media.Edges {
			nodes = append(nodes, edge.Node)
		}
		next := ""
		if media.PageInfo.HasNextPage {
			next = media.PageInfo.EndCursor
		}
		return nodes, next, nil
	})

	return func(yield func(*models.Post, error) bool) {
		for node, err := range nodes {
			if err != nil {
				yield(nil, err)
				return
			}

			post := toPost(p.Username, &node)
			if node.Location != nil {
				loc, err := c.resolveLocation(ctx, node.Location)
				if err != nil {
					yield(nil, err)
					return
				}
				post.Location = loc
			}
			if !yield(post, nil) {
				return
			}
		}
	}
}

func toPost(owner string, n *MediaNode) *models.Post {
	caption := ""
	if len(n.EdgeMediaToCaption.Edges) > 0 {
		caption = n.EdgeMediaToCaption.Edges[0].Node.Text
	}

	post := &models.Post{
		Shortcode:     n.Shortcode,
		OwnerUsername: owner,
		TakenAt:       time.Unix(n.TakenAtTimestamp, 0).UTC(),
		DisplayURL:    n.DisplayURL,
		IsVideo:       n.IsVideo,
		IsSponsored:   len(n.EdgeMediaToSponsorUser.Edges) > 0,
		Caption:       caption,
		Hashtags:      CaptionHashtags(caption),
		Mentions:      CaptionMentions(caption),
		Likes:         firstCount(n.EdgeLikedBy, n.EdgeMediaPreviewLike),
		Comments:      firstCount(n.EdgeMediaToComment, n.EdgeMediaPreviewComment),
	}
	if n.IsVideo {
		post.VideoURL = n.VideoURL
		post.VideoViewCount = n.VideoViewCount
		post.VideoDuration = n.VideoDuration
	}
	return post
}

func firstCount(counts ...*Count) int {
	for _, c := range counts {
		if c != nil {
			return c.Count
		}
	}
	return 0
}

// resolveLocation fills in coordinates the timeline query leaves out.
// Results are cached per location id. An unknown location keeps its name
// without coordinates.
func (c *Client) resolveLocation(ctx context.Context, loc *MediaLocation) (*models.Location, error) {
	out := &models.Location{ID: loc.ID, Name: loc.Name, Lat: loc.Lat, Lng: loc.Lng}
	if (out.Lat != nil && out.Lng != nil) || loc.ID == "" {
		return out, nil
	}

	if cached, ok := c.locations[loc.ID]; ok {
		out.Lat, out.Lng = cached.Lat, cached.Lng
		return out, nil
	}

	var details LocationResponse
	if err := c.getJSON(ctx, LocationPath(loc.ID), &details); err != nil {
		if !errors.IsType(err, errors.ErrorTypeNotFound) {
			return nil, fmt.Errorf("resolve location %s: %w", loc.ID, err)
		}
	}
	info := details.NativeLocationData.LocationInfo
	c.locations[loc.ID] = &MediaLocation{ID: loc.ID, Name: loc.Name, Lat: info.Lat, Lng: info.Lng}

	out.Lat, out.Lng = info.Lat, info.Lng
	return out, nil
}
