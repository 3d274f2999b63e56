package analysis

import (
	"regexp"
	"strings"
	"time"
)

var (
	urlPattern     = regexp.MustCompile(`https?://[^\s]+`)
	mediaPattern   = regexp.MustCompile(`(?i)\[media\]|\[photo\]|\[video\]`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// Metadata carries optional request context attached to extracted features.
type Metadata struct {
	AuthorID string
	PostID   string
}

// ExtractFeatures derives structural features from raw post text. It is a
// total function: any string input yields a valid Features value.
func ExtractFeatures(text string, now time.Time, meta Metadata) Features {
	return Features{
		Text:              text,
		HasURL:            urlPattern.MatchString(text),
		HasMedia:          mediaPattern.MatchString(text),
		IsRetweet:         strings.HasPrefix(text, "RT @") || strings.Contains(text, "via @"),
		IsReply:           strings.HasPrefix(text, "@"),
		Length:            len(text),
		HashtagCount:      len(hashtagPattern.FindAllString(text, -1)),
		MentionCount:      len(mentionPattern.FindAllString(text, -1)),
		QuestionMarkCount: strings.Count(text, "?"),
		ExclamationCount:  strings.Count(text, "!"),
		Timestamp:         now.UnixMilli(),
		AuthorID:          meta.AuthorID,
		PostID:            meta.PostID,
	}
}
