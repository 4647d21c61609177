package instagram

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// LoginPageEndpoint serves the login form and sets the csrftoken cookie
	LoginPageEndpoint = "/accounts/login/"

	// LoginEndpoint accepts the web login form
	LoginEndpoint = "/accounts/login/ajax/"

	// ProfileEndpoint is the endpoint pattern for user profiles
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// FollowersEndpoint and FollowingEndpoint take the numeric user id
	FollowersEndpoint = "/api/v1/friendships/%s/followers/"
	FollowingEndpoint = "/api/v1/friendships/%s/following/"

	// LocationEndpoint takes a location id and returns its coordinates
	LocationEndpoint = "/explore/locations/%s/"

	// MediaEndpoint is the endpoint pattern for user media
	MediaEndpoint = "/graphql/query/"

	// MediaQueryHash is the query hash for fetching user media
	MediaQueryHash = "e769aa130647d2354c40ea6a439bfc08"

	// WebAppID is sent as X-IG-App-ID on API requests
	WebAppID = "936619743392459"

	// DefaultMediaLimit is the default number of media items to fetch per request
	DefaultMediaLimit = 12

	// MaxMediaLimit is the maximum number of media items that can be fetched per request
	MaxMediaLimit = 50
)

// ProfilePath returns the request path for a user's profile
func ProfilePath(username string) string {
	params := url.Values{}
	params.Set("username", username)
	return ProfileEndpoint + "?" + params.Encode()
}

// FriendshipsPath returns the request path for one page of followers or
// followees. maxID is the cursor returned by the previous page.
func FriendshipsPath(endpoint, userID string, count int, maxID string) string {
	params := url.Values{}
	params.Set("count", fmt.Sprint(count))
	if maxID != "" {
		params.Set("max_id", maxID)
	}
	return fmt.Sprintf(endpoint, url.PathEscape(userID)) + "?" + params.Encode()
}

// MediaPath returns the request path for one page of a user's timeline media
func MediaPath(userID string, after string, limit int) string {
	if limit <= 0 {
		limit = DefaultMediaLimit
	} else if limit > MaxMediaLimit {
		limit = MaxMediaLimit
	}

	variables := map[string]interface{}{
		"id":    userID,
		"first": limit,
	}
	if after != "" {
		variables["after"] = after
	}
	encoded, _ := json.Marshal(variables)

	params := url.Values{}
	params.Set("query_hash", MediaQueryHash)
	params.Set("variables", string(encoded))
	return MediaEndpoint + "?" + params.Encode()
}

// LocationPath returns the request path for a location's details
func LocationPath(locationID string) string {
	params := url.Values{}
	params.Set("__a", "1")
	params.Set("__d", "dis")
	return fmt.Sprintf(LocationEndpoint, url.PathEscape(locationID)) + "?" + params.Encode()
}

// EncryptedPassword formats a password for the web login form. Version 0
// sends the password unencrypted alongside a timestamp.
func EncryptedPassword(password string, unix int64) string {
	return fmt.Sprintf("#PWD_INSTAGRAM_BROWSER:0:%d:%s", unix, password)
}
