package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/analysis"
	"augur/internal/heavyranker"
	"augur/pkg/logging"
)

const heavyResponse = `{
  "score": {
    "light_ranker_score": 0.7,
    "heavy_ranker_score": 0.8,
    "toxicity_score": 0.05,
    "engagement_score": 0.6,
    "virality_score": 74,
    "features": {
      "text": "hello",
      "has_url": false,
      "has_media": false,
      "is_retweet": false,
      "is_reply": false,
      "length": 5,
      "hashtag_count": 0,
      "mention_count": 0,
      "question_mark_count": 0,
      "exclamation_count": 0,
      "timestamp": 1700000000000
    },
    "breakdown": {
      "content_quality": 0.7,
      "social_signals": 0.6,
      "timing": 0.9,
      "user_reputation": 0.7,
      "safety_score": 0.95
    }
  },
  "suggestions": [],
  "algorithm_version": "heavy-v1.0",
  "processing_time": 12
}`

func writeScorer(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scorer.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func testLogger() logging.Logger {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)
	return logger
}

func newOrchestrator(t *testing.T, binary string, opts ...Option) *Orchestrator {
	t.Helper()
	heavy := heavyranker.NewClient(binary, testLogger())
	return New(heavy, &analysis.Engine{}, testLogger(), opts...)
}

func TestAnalyzePrimarySuccess(t *testing.T) {
	scorer := writeScorer(t, fmt.Sprintf("cat <<'JSON'\n%s\nJSON", heavyResponse))
	var primaries int
	o := newOrchestrator(t, scorer, WithHooks(Hooks{OnPrimary: func() { primaries++ }}))

	report, err := o.Analyze(context.Background(), "hello", analysis.Metadata{})
	require.NoError(t, err)

	assert.Equal(t, analysis.StrategyPrimary, report.Score.Strategy)
	assert.Equal(t, "heavy-v1.0", report.AlgorithmVersion)
	assert.Equal(t, 1, primaries)
}

func TestAnalyzeFallsBackOnExitFailure(t *testing.T) {
	scorer := writeScorer(t, "echo boom >&2; exit 1")
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	var reasons []string
	o := newOrchestrator(t, scorer,
		WithClock(func() time.Time { return now }),
		WithHooks(Hooks{OnFallback: func(r string) { reasons = append(reasons, r) }}))

	text := "Just launched our new AI feature! What do you think? #AI #Tech"
	report, err := o.Analyze(context.Background(), text, analysis.Metadata{AuthorID: "a-1"})
	require.NoError(t, err)

	assert.Equal(t, analysis.StrategyFallback, report.Score.Strategy)
	assert.Equal(t, analysis.Version, report.AlgorithmVersion)
	assert.Equal(t, []string{"exit"}, reasons)

	// The degraded result must match what the local pipeline produces directly.
	features := analysis.ExtractFeatures(text, now, analysis.Metadata{AuthorID: "a-1"})
	want := (&analysis.Engine{}).Score(features, now)
	assert.Equal(t, want, report.Score)
	assert.Equal(t, analysis.Suggest(want), report.Suggestions)
}

func TestAnalyzeFallsBackOnSpawnFailure(t *testing.T) {
	var reasons []string
	o := newOrchestrator(t, "/nonexistent/scorer",
		WithHooks(Hooks{OnFallback: func(r string) { reasons = append(reasons, r) }}))

	report, err := o.Analyze(context.Background(), "some text", analysis.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, analysis.StrategyFallback, report.Score.Strategy)
	assert.Equal(t, []string{"spawn"}, reasons)
}

func TestAnalyzeFallsBackOnMalformedOutput(t *testing.T) {
	scorer := writeScorer(t, "echo 'not json at all'")
	var reasons []string
	o := newOrchestrator(t, scorer,
		WithHooks(Hooks{OnFallback: func(r string) { reasons = append(reasons, r) }}))

	report, err := o.Analyze(context.Background(), "some text", analysis.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, analysis.StrategyFallback, report.Score.Strategy)
	assert.Equal(t, []string{"malformed"}, reasons)
}

func TestAnalyzeFallsBackOnTimeout(t *testing.T) {
	scorer := writeScorer(t, "exec sleep 5")
	heavy := heavyranker.NewClient(scorer, testLogger(), heavyranker.WithTimeout(50*time.Millisecond))
	var reasons []string
	o := New(heavy, &analysis.Engine{}, testLogger(),
		WithHooks(Hooks{OnFallback: func(r string) { reasons = append(reasons, r) }}))

	start := time.Now()
	report, err := o.Analyze(context.Background(), "some text", analysis.Metadata{})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, analysis.StrategyFallback, report.Score.Strategy)
	assert.Equal(t, []string{"timeout"}, reasons)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	o := newOrchestrator(t, "")

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := o.Analyze(context.Background(), text, analysis.Metadata{})
		assert.ErrorIs(t, err, analysis.ErrEmptyInput)
	}
}

func TestScoreLocallyBypassesHeavyRanker(t *testing.T) {
	// Binary that would succeed if invoked; the local path must not touch it.
	scorer := writeScorer(t, "touch \"$0.invoked\"; cat <<'JSON'\n"+heavyResponse+"\nJSON")
	o := newOrchestrator(t, scorer)

	report, err := o.ScoreLocally("plain text post", analysis.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, analysis.StrategyFallback, report.Score.Strategy)
	_, statErr := os.Stat(scorer + ".invoked")
	assert.True(t, os.IsNotExist(statErr), "heavy scorer must not run")
}
