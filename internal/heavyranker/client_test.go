package heavyranker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augur/internal/analysis"
	"augur/pkg/logging"
)

const validResponse = `{
  "score": {
    "light_ranker_score": 0.72,
    "heavy_ranker_score": null,
    "toxicity_score": 0.1,
    "engagement_score": 0.65,
    "virality_score": 78,
    "features": {
      "text": "hello world",
      "has_url": false,
      "has_media": false,
      "is_retweet": false,
      "is_reply": false,
      "length": 11,
      "hashtag_count": 0,
      "mention_count": 0,
      "question_mark_count": 0,
      "exclamation_count": 0,
      "timestamp": 1700000000000,
      "author_id": "a-1",
      "tweet_id": "p-1"
    },
    "breakdown": {
      "content_quality": 0.7,
      "social_signals": 0.6,
      "timing": 0.9,
      "user_reputation": 0.7,
      "safety_score": 0.9
    }
  },
  "suggestions": [
    {"type": "content", "priority": "high", "suggestion": "Expand the post", "expected_improvement": 15}
  ],
  "algorithm_version": "heavy-v1.0",
  "processing_time": 42
}`

// writeScorer creates an executable script that mimics the heavy scorer.
func writeScorer(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scorer.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testLogger() logging.Logger {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAnalyzeSuccess(t *testing.T) {
	scorer := writeScorer(t, fmt.Sprintf("cat <<'JSON'\n%s\nJSON", validResponse))
	client := NewClient(scorer, testLogger())

	result, err := client.Analyze(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, analysis.StrategyPrimary, result.Score.Strategy)
	assert.Equal(t, 0.1, result.Score.Toxicity)
	assert.Equal(t, 0.65, result.Score.Engagement)
	assert.Equal(t, "heavy-v1.0", result.AlgorithmVersion)
	assert.Equal(t, int64(42), result.ProcessingTimeMs)
	assert.Equal(t, "hello world", result.Score.Features.Text)
	assert.Equal(t, "p-1", result.Score.Features.PostID)
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "content", result.Suggestions[0].Type)

	// Composite is recomputed from the breakdown on the canonical scale.
	assert.InDelta(t, result.Score.Breakdown.Composite(), result.Score.Composite, 1e-9)
}

func TestAnalyzePassesTextAsSingleArgument(t *testing.T) {
	scorer := writeScorer(t, `if [ "$1" != "two words" ]; then exit 3; fi
cat <<'JSON'
`+validResponse+`
JSON`)
	client := NewClient(scorer, testLogger())

	_, err := client.Analyze(context.Background(), "two words")
	require.NoError(t, err)
}

func TestAnalyzeNonZeroExit(t *testing.T) {
	scorer := writeScorer(t, "echo 'model not found' >&2; exit 1")
	client := NewClient(scorer, testLogger())

	_, err := client.Analyze(context.Background(), "text")
	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "exit", pe.Reason)
	assert.Contains(t, pe.Stderr, "model not found")
	assert.True(t, Recoverable(err))
}

func TestAnalyzeSpawnFailure(t *testing.T) {
	client := NewClient("/nonexistent/scorer-binary", testLogger())

	_, err := client.Analyze(context.Background(), "text")
	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "spawn", pe.Reason)
	assert.True(t, Recoverable(err))
}

func TestAnalyzeUnconfiguredBinary(t *testing.T) {
	client := NewClient("", testLogger())

	_, err := client.Analyze(context.Background(), "text")
	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "spawn", pe.Reason)
}

func TestAnalyzeTimeoutKillsProcess(t *testing.T) {
	scorer := writeScorer(t, "exec sleep 5")
	client := NewClient(scorer, testLogger(), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.Analyze(context.Background(), "text")
	elapsed := time.Since(start)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "timeout", pe.Reason)
	assert.Less(t, elapsed, 2*time.Second, "process must be killed, not awaited")
}

func TestAnalyzeMalformedOutput(t *testing.T) {
	cases := map[string]string{
		"not json":        "echo 'garbage output'",
		"empty stdout":    "true",
		"trailing data":   fmt.Sprintf("cat <<'JSON'\n%s\nJSON\necho '{}'", validResponse),
		"missing score":   `echo '{"suggestions": [], "algorithm_version": "v", "processing_time": 1}'`,
		"partial partial": `echo '{"score": {"light_ranker_score": 0.5}}'`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := NewClient(writeScorer(t, body), testLogger())
			_, err := client.Analyze(context.Background(), "text")
			var me *MalformedResponseError
			require.ErrorAs(t, err, &me, "expected malformed-response error")
			assert.True(t, Recoverable(err))
		})
	}
}

func TestParseResponseRangeValidation(t *testing.T) {
	bad := []string{
		`"toxicity_score": 1.5`,
		`"toxicity_score": -0.1`,
	}
	for _, repl := range bad {
		raw := []byte(strings.Replace(validResponse, `"toxicity_score": 0.1`, repl, 1))
		_, err := parseResponse(raw)
		var me *MalformedResponseError
		require.ErrorAs(t, err, &me)
		assert.Contains(t, me.Reason, "out of range")
	}
}

func TestRecoverable(t *testing.T) {
	assert.True(t, Recoverable(&ProcessError{Reason: "exit", Err: errors.New("x")}))
	assert.True(t, Recoverable(&MalformedResponseError{Reason: "x"}))
	assert.False(t, Recoverable(errors.New("unrelated")))
	assert.False(t, Recoverable(nil))
}
