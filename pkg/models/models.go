// Package models holds the account, post and follow records exchanged
// between the Instagram session and the batch collector.
package models

import "time"

// Profile is a remote account's public metadata
type Profile struct {
	Username         string
	UserID           string
	FullName         string
	Biography        string
	ProfilePicURL    string
	IsVerified       bool
	IsPrivate        bool
	HasPublicStory   bool
	HasViewableStory bool
	MediaCount       int
	IGTVCount        int
	Followers        int
	Followees        int
}

// User is a follower or followee as listed by Instagram
type User struct {
	Username string
	UserID   string
}

// Location is the place a post was tagged with. Lat and Lng are nil when
// Instagram does not expose coordinates for the location.
type Location struct {
	ID   string
	Name string
	Lat  *float64
	Lng  *float64
}

// Post is a single timeline post of a profile
type Post struct {
	Shortcode      string
	OwnerUsername  string
	TakenAt        time.Time
	DisplayURL     string
	VideoURL       string
	IsVideo        bool
	IsSponsored    bool
	Caption        string
	Hashtags       []string
	Mentions       []string
	VideoViewCount int
	VideoDuration  float64
	Likes          int
	Comments       int
	Location       *Location
}

// Credentials identify the account a batch run logs in with
type Credentials struct {
	Username string
	Password string
}
