package instagram

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePath(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected string
	}{
		{
			name:     "simple username",
			username: "testuser",
			expected: ProfileEndpoint + "?username=testuser",
		},
		{
			name:     "username with underscore",
			username: "test_user",
			expected: ProfileEndpoint + "?username=test_user",
		},
		{
			name:     "username with dots",
			username: "test.user",
			expected: ProfileEndpoint + "?username=test.user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProfilePath(tt.username))
		})
	}
}

func TestFriendshipsPath(t *testing.T) {
	assert.Equal(t, "/api/v1/friendships/42/followers/?count=50", FriendshipsPath(FollowersEndpoint, "42", 50, ""))
	assert.Equal(t, "/api/v1/friendships/42/following/?count=12&max_id=24", FriendshipsPath(FollowingEndpoint, "42", 12, "24"))
}

func TestMediaPath(t *testing.T) {
	decode := func(t *testing.T, path string) map[string]interface{} {
		u, err := url.Parse(path)
		require.NoError(t, err)
		assert.Equal(t, MediaEndpoint, u.Path)
		assert.Equal(t, MediaQueryHash, u.Query().Get("query_hash"))

		var vars map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(u.Query().Get("variables")), &vars))
		return vars
	}

	t.Run("first page", func(t *testing.T) {
		vars := decode(t, MediaPath("42", "", 20))
		assert.Equal(t, "42", vars["id"])
		assert.Equal(t, float64(20), vars["first"])
		assert.NotContains(t, vars, "after")
	})

	t.Run("next page", func(t *testing.T) {
		vars := decode(t, MediaPath("42", "QVFE", 20))
		assert.Equal(t, "QVFE", vars["after"])
	})

	t.Run("limit bounds", func(t *testing.T) {
		assert.Equal(t, float64(DefaultMediaLimit), decode(t, MediaPath("42", "", 0))["first"])
		assert.Equal(t, float64(MaxMediaLimit), decode(t, MediaPath("42", "", 500))["first"])
	})
}

func TestLocationPath(t *testing.T) {
	assert.Equal(t, "/explore/locations/213385402/?__a=1&__d=dis", LocationPath("213385402"))
}

func TestEncryptedPassword(t *testing.T) {
	enc := EncryptedPassword("s3cret", 1700000000)
	assert.Equal(t, "#PWD_INSTAGRAM_BROWSER:0:1700000000:s3cret", enc)
	assert.True(t, strings.HasSuffix(EncryptedPassword("a:b", 1), ":a:b"))
}
