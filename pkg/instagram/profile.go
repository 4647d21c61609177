package instagram

import (
	"context"
	"fmt"
	"net/http"

	"igbatch/pkg/errors"
	"igbatch/pkg/models"
)

// ResolveProfile fetches a profile by username. A missing account is
// reported as ErrorTypeNotFound.
func (c *Client) ResolveProfile(ctx context.Context, username string) (*models.Profile, error) {
	var response ProfileResponse
	if err := c.getJSON(ctx, ProfilePath(username), &response); err != nil {
		if errors.IsType(err, errors.ErrorTypeNotFound) {
			return nil, notFound(username)
		}
		return nil, fmt.Errorf("fetch profile %s: %w", username, err)
	}

	if response.RequiresToLogin {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeAuth,
			Message: "Instagram requires authentication to view this profile",
			Code:    http.StatusUnauthorized,
		}
	}
	if response.Data.User == nil {
		return nil, notFound(username)
	}

	return toProfile(response.Data.User), nil
}

func notFound(username string) error {
	return &errors.Error{
		Type:    errors.ErrorTypeNotFound,
		Message: fmt.Sprintf("profile %s does not exist", username),
		Code:    http.StatusNotFound,
	}
}

func toProfile(u *ProfileUser) *models.Profile {
	pic := u.ProfilePicURLHD
	if pic == "" {
		pic = u.ProfilePicURL
	}
	return &models.Profile{
		Username:       u.Username,
		UserID:         u.ID,
		FullName:       u.FullName,
		Biography:      u.Biography,
		ProfilePicURL:  pic,
		IsVerified:     u.IsVerified,
		IsPrivate:      u.IsPrivate,
		HasPublicStory: u.HasPublicStory,
		// a story ring shows for public stories, or highlights of accounts the viewer follows
		HasViewableStory: u.HasPublicStory || (u.FollowedByViewer && u.HighlightReelCount > 0),
		MediaCount:       u.EdgeOwnerToTimelineMedia.Count,
		IGTVCount:        u.EdgeFelixVideoTimeline.Count,
		Followers:        u.EdgeFollowedBy.Count,
		Followees:        u.EdgeFollow.Count,
	}
}
