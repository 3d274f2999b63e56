package service

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Cache key namespaces. Keys are purpose-prefixed FNV-1a digests of the raw
// input text; case and whitespace are significant.
const (
	analysisPrefix    = "tweet-analysis-"
	suggestionsPrefix = "tweet-suggestions-"
	hashtagPrefix     = "hashtag-suggestions-"
	trendingPrefix    = "trending-topics-"
)

func hashText(text string) string {
	h := fnv.New64a()
	h.Write([]byte(text))
	return fmt.Sprintf("%016x", h.Sum64())
}

func analysisKey(text string) string {
	return analysisPrefix + hashText(text)
}

// suggestionsKey namespaces suggestion results by text and, when present, a
// short fragment of the author context so the same post by different authors
// does not share suggestions.
func suggestionsKey(text, contextFragment string) string {
	key := suggestionsPrefix + hashText(text)
	if contextFragment != "" {
		key += "-" + contextFragment
	}
	return key
}

func hashtagKey(text string) string {
	return hashtagPrefix + hashText(text)
}

func trendingKey(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		region = "worldwide"
	}
	return trendingPrefix + region
}

// contextFragment derives the short suggestion-key fragment from author
// metadata. Empty metadata yields no fragment.
func contextFragment(authorID string) string {
	if authorID == "" {
		return ""
	}
	return hashText(authorID)[:8]
}
