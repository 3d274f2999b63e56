package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 9 AM local: a peak hour.
var peakNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// 3 AM local: off hours.
var quietNow = time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine()
	f := ExtractFeatures("Shipping a big update today! Thoughts? #Tech", peakNow, Metadata{})

	first := e.Score(f, peakNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Score(f, peakNow))
	}
}

func TestScoreEngagingPost(t *testing.T) {
	e := NewEngine()
	text := "Just launched our new AI feature! What do you think? #AI #Tech"
	f := ExtractFeatures(text, peakNow, Metadata{})
	require.Equal(t, 2, f.HashtagCount)

	b := e.Breakdown(f, peakNow)
	assert.Greater(t, b.ContentQuality, 0.5, "content quality above midpoint")
	assert.Greater(t, b.SocialSignals, 0.5, "social signals above midpoint")
	assert.Equal(t, 1.0, b.SafetyScore)
}

func TestScoreFlatPost(t *testing.T) {
	e := NewEngine()
	// No question, no hashtags, no call-to-action vocabulary.
	f := ExtractFeatures("Working on some exciting updates. Stay tuned!", peakNow, Metadata{})

	b := e.Breakdown(f, peakNow)
	assert.InDelta(t, 0.2, b.SocialSignals, 0.05, "engagement near base value")
	assert.Less(t, b.ContentQuality, contentThreshold)
}

func TestBreakdownFactorsInRange(t *testing.T) {
	e := NewEngine()
	inputs := []string{
		"",
		"RT @a boring retweet",
		"amazing incredible shocking unbelievable wow!!!! #a #b #c #d #e #f @x @y @z @w",
		"hate hate stupid idiot kill die damn hell crap suck",
	}
	for _, text := range inputs {
		b := e.Breakdown(ExtractFeatures(text, quietNow, Metadata{}), quietNow)
		for name, v := range map[string]float64{
			"content": b.ContentQuality,
			"social":  b.SocialSignals,
			"timing":  b.Timing,
			"rep":     b.UserReputation,
			"safety":  b.SafetyScore,
		} {
			assert.GreaterOrEqual(t, v, 0.0, "%s for %q", name, text)
			assert.LessOrEqual(t, v, 1.0, "%s for %q", name, text)
		}
	}
}

func TestToxicityDenylist(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 0.0, e.Toxicity("a perfectly pleasant post"))
	assert.InDelta(t, 0.4, e.Toxicity("this is stupid and awful"), 1e-9)
	assert.Equal(t, 1.0, e.Toxicity("hate stupid idiot moron kill die damn hell"), "capped at 1")
}

func TestTimingTable(t *testing.T) {
	e := NewEngine()
	cases := []struct {
		hour int
		want float64
	}{
		{9, 0.9}, {10, 0.9},
		{12, 0.85}, {13, 0.85},
		{17, 0.8}, {18, 0.8},
		{19, 0.75}, {21, 0.75},
		{8, 0.6}, {15, 0.6}, {22, 0.6},
		{3, 0.3}, {23, 0.3}, {0, 0.3},
	}
	for _, tc := range cases {
		now := time.Date(2026, 3, 14, tc.hour, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, e.timing(now), "hour %d", tc.hour)
	}
}

func TestRetweetPenalty(t *testing.T) {
	e := NewEngine()
	plain := ExtractFeatures("Announcing our latest machine learning release today for everyone", peakNow, Metadata{})
	rt := ExtractFeatures("RT @vendor Announcing our latest machine learning release today", peakNow, Metadata{})

	assert.Greater(t, e.contentQuality(plain), e.contentQuality(rt))
}

func TestCompositeWeights(t *testing.T) {
	b := Breakdown{ContentQuality: 1, SocialSignals: 1, Timing: 1, UserReputation: 1, SafetyScore: 1}
	assert.InDelta(t, 1.0, b.Composite(), 1e-9, "weights sum to 1")

	b = Breakdown{}
	assert.Equal(t, 0.0, b.Composite())
}

func TestNormalizeCeilings(t *testing.T) {
	b := Breakdown{ContentQuality: 0.5, SocialSignals: 0.5, Timing: 0.5, UserReputation: 0.5, SafetyScore: 0.5}
	assert.InDelta(t, 50, b.Normalize(100), 1e-9)
	assert.InDelta(t, 250, b.Normalize(500), 1e-9)
}

func TestReputationIsConstantStub(t *testing.T) {
	e := NewEngine()
	a := e.Breakdown(ExtractFeatures("first author text", peakNow, Metadata{AuthorID: "a"}), peakNow)
	b := e.Breakdown(ExtractFeatures("second author text", peakNow, Metadata{AuthorID: "b"}), peakNow)
	assert.Equal(t, a.UserReputation, b.UserReputation)
	assert.Equal(t, defaultReputation, a.UserReputation)
}
