package storage

import (
	"strconv"
	"strings"

	"igbatch/pkg/models"
)

// AccountHeader is the column order of accounts.csv
var AccountHeader = []string{
	"username", "url", "url_profile_pic", "full_name", "userid", "is_verified",
	"has_viewable_story", "has_public_story", "biography", "media_count",
	"igtv_count", "followers", "followees",
}

// PostHeader is the column order of posts.csv
var PostHeader = []string{
	"shortcode", "username", "date_utc", "url_thumbnail", "url_media",
	"is_video", "is_sponsored", "hashtags", "mentions", "caption",
	"video_view_count", "video_length", "likes", "comments", "likes+comments",
	"location_name", "location_latlong",
}

// DateFormat is the layout of the date_utc column
const DateFormat = "2006-01-02 15:04"

// ProfileURL is the public address of an account
func ProfileURL(username string) string {
	return "https://instagram.com/" + username
}

// YesNo renders a flag column
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// AccountRecord flattens a profile into an accounts.csv row
func AccountRecord(p *models.Profile) []string {
	return []string{
		p.Username,
		ProfileURL(p.Username),
		p.ProfilePicURL,
		p.FullName,
		p.UserID,
		YesNo(p.IsVerified),
		YesNo(p.HasViewableStory),
		YesNo(p.HasPublicStory),
		p.Biography,
		strconv.Itoa(p.MediaCount),
		strconv.Itoa(p.IGTVCount),
		strconv.Itoa(p.Followers),
		strconv.Itoa(p.Followees),
	}
}

// PostRecord flattens a post into a posts.csv row. Video columns are zero
// for images.
func PostRecord(p *models.Post) []string {
	media := p.DisplayURL
	views, length := 0, 0.0
	if p.IsVideo {
		media = p.VideoURL
		views, length = p.VideoViewCount, p.VideoDuration
	}

	var locName, latLong string
	if p.Location != nil {
		locName = p.Location.Name
		latLong = LatLong(p.Location)
	}

	return []string{
		p.Shortcode,
		p.OwnerUsername,
		p.TakenAt.UTC().Format(DateFormat),
		p.DisplayURL,
		media,
		YesNo(p.IsVideo),
		YesNo(p.IsSponsored),
		strings.Join(p.Hashtags, ","),
		strings.Join(p.Mentions, ","),
		p.Caption,
		strconv.Itoa(views),
		formatFloat(length),
		strconv.Itoa(p.Likes),
		strconv.Itoa(p.Comments),
		strconv.Itoa(p.Likes + p.Comments),
		locName,
		latLong,
	}
}

// LatLong renders coordinates as "lat lng", or "" when either is unknown
func LatLong(loc *models.Location) string {
	if loc == nil || loc.Lat == nil || loc.Lng == nil {
		return ""
	}
	return formatFloat(*loc.Lat) + " " + formatFloat(*loc.Lng)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
