package instagram

import (
	"bytes"
	"encoding/json"
)

// LoginResponse is the body returned by the web login endpoint
type LoginResponse struct {
	Authenticated     bool   `json:"authenticated"`
	User              bool   `json:"user"`
	UserID            string `json:"userId"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	TwoFactorRequired bool   `json:"two_factor_required"`
	CheckpointURL     string `json:"checkpoint_url"`
	ErrorType         string `json:"error_type"`
}

// ProfileResponse is the body of web_profile_info
type ProfileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Status          string `json:"status"`
	Data            struct {
		User *ProfileUser `json:"user"`
	} `json:"data"`
}

// Count wraps Instagram's {"count": n} edge objects
type Count struct {
	Count int `json:"count"`
}

// ProfileUser holds the profile fields read from web_profile_info
type ProfileUser struct {
	ID                       string `json:"id"`
	Username                 string `json:"username"`
	FullName                 string `json:"full_name"`
	Biography                string `json:"biography"`
	ProfilePicURL            string `json:"profile_pic_url"`
	ProfilePicURLHD          string `json:"profile_pic_url_hd"`
	IsVerified               bool   `json:"is_verified"`
	IsPrivate                bool   `json:"is_private"`
	FollowedByViewer         bool   `json:"followed_by_viewer"`
	HasPublicStory           bool   `json:"has_public_story"`
	HighlightReelCount       int    `json:"highlight_reel_count"`
	EdgeFollowedBy           Count  `json:"edge_followed_by"`
	EdgeFollow               Count  `json:"edge_follow"`
	EdgeOwnerToTimelineMedia Count  `json:"edge_owner_to_timeline_media"`
	EdgeFelixVideoTimeline   Count  `json:"edge_felix_video_timeline"`
}

// FriendshipsResponse is one page of followers or followees
type FriendshipsResponse struct {
	Users     []FriendshipUser `json:"users"`
	NextMaxID FlexString       `json:"next_max_id"`
	Status    string           `json:"status"`
}

// FriendshipUser is an entry of a followers or followees page
type FriendshipUser struct {
	PK       json.Number `json:"pk"`
	PKID     string      `json:"pk_id"`
	Username string      `json:"username"`
}

// ID returns the numeric user id, preferring the string form
func (u FriendshipUser) ID() string {
	if u.PKID != "" {
		return u.PKID
	}
	return u.PK.String()
}

// FlexString accepts a JSON string or number
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// MediaResponse is one page of a user's timeline media
type MediaResponse struct {
	Status string `json:"status"`
	Data   struct {
		User *struct {
			EdgeOwnerToTimelineMedia TimelineMedia `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
}

// TimelineMedia is a paginated connection of media nodes
type TimelineMedia struct {
	Count    int         `json:"count"`
	PageInfo PageInfo    `json:"page_info"`
	Edges    []MediaEdge `json:"edges"`
}

type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

type MediaEdge struct {
	Node MediaNode `json:"node"`
}

// MediaNode holds the post fields read from the timeline query
type MediaNode struct {
	ID                      string         `json:"id"`
	Shortcode               string         `json:"shortcode"`
	TakenAtTimestamp        int64          `json:"taken_at_timestamp"`
	DisplayURL              string         `json:"display_url"`
	IsVideo                 bool           `json:"is_video"`
	VideoURL                string         `json:"video_url"`
	VideoViewCount          int            `json:"video_view_count"`
	VideoDuration           float64        `json:"video_duration"`
	EdgeMediaToCaption      CaptionEdges   `json:"edge_media_to_caption"`
	EdgeLikedBy             *Count         `json:"edge_liked_by"`
	EdgeMediaPreviewLike    *Count         `json:"edge_media_preview_like"`
	EdgeMediaToComment      *Count         `json:"edge_media_to_comment"`
	EdgeMediaPreviewComment *Count         `json:"edge_media_preview_comment"`
	EdgeMediaToSponsorUser  SponsorEdges   `json:"edge_media_to_sponsor_user"`
	Location                *MediaLocation `json:"location"`
	Owner                   MediaOwner     `json:"owner"`
}

type CaptionEdges struct {
	Edges []struct {
		Node struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

type SponsorEdges struct {
	Edges []json.RawMessage `json:"edges"`
}

type MediaOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MediaLocation is the location attached to a media node
type MediaLocation struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

// LocationResponse is the body of the location details endpoint
type LocationResponse struct {
	NativeLocationData struct {
		LocationInfo struct {
			Name string   `json:"name"`
			Lat  *float64 `json:"lat"`
			Lng  *float64 `json:"lng"`
		} `json:"location_info"`
	} `json:"native_location_data"`
}
