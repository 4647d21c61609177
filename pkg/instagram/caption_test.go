package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptionHashtags(t *testing.T) {
	tests := []struct {
		caption  string
		expected []string
	}{
		{"", []string{}},
		{"no tags here", []string{}},
		{"#first post", []string{"first"}},
		{"sunset at the #beach #goldenhour", []string{"beach", "goldenhour"}},
		{"#café and #東京", []string{"café", "東京"}},
		{"Trip #Paris with #NYC", []string{"paris", "nyc"}},
		{"rock &#39;n roll", []string{}},
		{"summer#beach", []string{"beach"}},
		{"#one#two", []string{"one", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			assert.Equal(t, tt.expected, CaptionHashtags(tt.caption))
		})
	}
}

func TestCaptionMentions(t *testing.T) {
	tests := []struct {
		caption  string
		expected []string
	}{
		{"", []string{}},
		{"@alice took this", []string{"alice"}},
		{"with @bob.smith and @carol_", []string{"bob.smith", "carol_"}},
		{"thanks @dave.", []string{"dave"}},
		{"hi @Alice.Smith and @BOB", []string{"alice.smith", "bob"}},
		{"mail me at someone@example.com", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			assert.Equal(t, tt.expected, CaptionMentions(tt.caption))
		})
	}
}
