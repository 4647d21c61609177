package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igbatch/pkg/models"
)

func float(f float64) *float64 { return &f }

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestAccountRecord(t *testing.T) {
	p := &models.Profile{
		Username:         "alice",
		UserID:           "101",
		FullName:         "Alice, Example",
		Biography:        "line one\nline two",
		ProfilePicURL:    "https://cdn.example/a.jpg",
		IsVerified:       true,
		HasViewableStory: true,
		MediaCount:       12,
		IGTVCount:        1,
		Followers:        300,
		Followees:        42,
	}

	row := AccountRecord(p)
	require.Len(t, row, len(AccountHeader))
	assert.Equal(t, []string{
		"alice", "https://instagram.com/alice", "https://cdn.example/a.jpg", "Alice, Example", "101",
		"yes", "yes", "no", "line one\nline two", "12", "1", "300", "42",
	}, row)
}

func TestPostRecord(t *testing.T) {
	taken := time.Date(2023, 11, 14, 22, 13, 20, 0, time.FixedZone("CET", 3600))

	t.Run("image", func(t *testing.T) {
		p := &models.Post{
			Shortcode:      "ABC",
			OwnerUsername:  "alice",
			TakenAt:        taken,
			DisplayURL:     "https://cdn.example/abc.jpg",
			VideoViewCount: 99,
			VideoDuration:  3.5,
			Hashtags:       []string{"one", "two"},
			Mentions:       []string{"bob"},
			Caption:        "#one #two @bob",
			Likes:          10,
			Comments:       5,
		}

		row := PostRecord(p)
		require.Len(t, row, len(PostHeader))
		assert.Equal(t, []string{
			"ABC", "alice", "2023-11-14 21:13", "https://cdn.example/abc.jpg", "https://cdn.example/abc.jpg",
			"no", "no", "one,two", "bob", "#one #two @bob", "0", "0", "10", "5", "15", "", "",
		}, row)
	})

	t.Run("sponsored video with location", func(t *testing.T) {
		p := &models.Post{
			Shortcode:      "VID",
			OwnerUsername:  "alice",
			TakenAt:        taken,
			DisplayURL:     "https://cdn.example/vid.jpg",
			VideoURL:       "https://cdn.example/vid.mp4",
			IsVideo:        true,
			IsSponsored:    true,
			VideoViewCount: 1234,
			VideoDuration:  12.25,
			Location:       &models.Location{Name: "Amsterdam", Lat: float(52.37), Lng: float(4.89)},
		}

		row := PostRecord(p)
		assert.Equal(t, "https://cdn.example/vid.jpg", row[3])
		assert.Equal(t, "https://cdn.example/vid.mp4", row[4])
		assert.Equal(t, "yes", row[5])
		assert.Equal(t, "yes", row[6])
		assert.Equal(t, "1234", row[10])
		assert.Equal(t, "12.25", row[11])
		assert.Equal(t, "Amsterdam", row[15])
		assert.Equal(t, "52.37 4.89", row[16])
	})

	t.Run("location without coordinates", func(t *testing.T) {
		p := &models.Post{Shortcode: "LOC", Location: &models.Location{Name: "Somewhere"}}

		row := PostRecord(p)
		assert.Equal(t, "Somewhere", row[15])
		assert.Empty(t, row[16])
	})
}

func TestCSVSink(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	sink, err := manager.OpenCSV()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, sink.WriteAccount(ctx, &models.Profile{Username: "alice", UserID: "1", Biography: "a \"quoted\" bio"}))
	require.NoError(t, sink.WritePost(ctx, &models.Post{Shortcode: "P1", OwnerUsername: "alice", Caption: "hi, there"}))
	require.NoError(t, sink.WritePost(ctx, &models.Post{Shortcode: "P2", OwnerUsername: "alice"}))

	accounts, posts := sink.Counts()
	assert.Equal(t, 1, accounts)
	assert.Equal(t, 2, posts)
	require.NoError(t, sink.Close())

	accRows := readCSV(t, filepath.Join(dir, AccountsFile))
	require.Len(t, accRows, 2)
	assert.Equal(t, AccountHeader, accRows[0])
	assert.Equal(t, "a \"quoted\" bio", accRows[1][8])

	postRows := readCSV(t, filepath.Join(dir, PostsFile))
	require.Len(t, postRows, 3)
	assert.Equal(t, PostHeader, postRows[0])
	assert.Equal(t, "hi, there", postRows[1][9])
	assert.Equal(t, "P2", postRows[2][0])
}

func TestCSVSinkHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	sink, err := manager.OpenCSV()
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	assert.Equal(t, [][]string{PostHeader}, readCSV(t, filepath.Join(dir, PostsFile)))
	assert.Equal(t, [][]string{AccountHeader}, readCSV(t, filepath.Join(dir, AccountsFile)))
}
