package instagram

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]{1,150})`)
	mentionPattern = regexp.MustCompile(`(?:^|[^\w])@(\w(?:[\w.]{0,28}\w)?)`)
)

// CaptionHashtags returns the lowercased hashtags of a caption in order,
// without the #. HTML entities such as &#39; are not hashtags.
func CaptionHashtags(caption string) []string {
	caption = strings.ToLower(caption)
	matches := hashtagPattern.FindAllStringSubmatchIndex(caption, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[0] > 0 && caption[m[0]-1] == '&' {
			continue
		}
		out = append(out, caption[m[2]:m[3]])
	}
	return out
}

// CaptionMentions returns the lowercased @mentions of a caption in order,
// without the @. Email addresses do not count as mentions.
func CaptionMentions(caption string) []string {
	matches := mentionPattern.FindAllStringSubmatch(strings.ToLower(caption), -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
