package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysAreDeterministic(t *testing.T) {
	assert.Equal(t, analysisKey("hello"), analysisKey("hello"))
	assert.NotEqual(t, analysisKey("hello"), analysisKey("hello "))
	assert.NotEqual(t, analysisKey("hello"), analysisKey("Hello"))
}

func TestKeyPrefixes(t *testing.T) {
	assert.Contains(t, analysisKey("x"), "tweet-analysis-")
	assert.Contains(t, suggestionsKey("x", ""), "tweet-suggestions-")
	assert.Contains(t, hashtagKey("x"), "hashtag-suggestions-")
	assert.Equal(t, "trending-topics-us", trendingKey(" US "))
	assert.Equal(t, "trending-topics-worldwide", trendingKey(""))
}

func TestSuggestionsKeyFragment(t *testing.T) {
	base := suggestionsKey("x", "")
	withFragment := suggestionsKey("x", contextFragment("alice"))
	assert.NotEqual(t, base, withFragment)
	assert.Contains(t, withFragment, base+"-")
	assert.Len(t, contextFragment("alice"), 8)
	assert.Empty(t, contextFragment(""))
}
