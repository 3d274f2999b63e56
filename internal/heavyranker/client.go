// Package heavyranker invokes the external heavy-scoring process and
// validates its JSON response. The process contract: invoked with the raw
// post text as its single argument, it prints exactly one JSON document on
// stdout and exits 0 on success.
package heavyranker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"augur/internal/analysis"
	"augur/pkg/logging"
)

var commandContext = exec.CommandContext

// DefaultTimeout bounds one subprocess invocation. Anything slower is
// treated as a primary-path failure and the caller falls back.
const DefaultTimeout = 3 * time.Second

// Option configures the client.
type Option func(*Client)

// WithTimeout overrides the default invocation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMetrics installs the run-duration histogram and the per-reason
// failure counter.
func WithMetrics(duration *prometheus.HistogramVec, failures *prometheus.CounterVec) Option {
	return func(c *Client) {
		c.duration = duration
		c.failures = failures
	}
}

// Client wraps the heavy-scorer command line.
type Client struct {
	binary  string
	timeout time.Duration
	logger  logging.Logger

	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewClient constructs a client for the given binary.
func NewClient(binary string, logger logging.Logger, opts ...Option) *Client {
	c := &Client{binary: binary, timeout: DefaultTimeout, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured binary, for health reporting.
func (c *Client) Binary() string { return c.binary }

// Analyze runs the heavy scorer for text. The subprocess is killed and
// reaped when the timeout elapses or ctx is cancelled; stdout and stderr
// are captured in full either way.
func (c *Client) Analyze(ctx context.Context, text string) (*analysis.Report, error) {
	if c.binary == "" {
		return nil, &ProcessError{Reason: "spawn", Err: errors.New("no heavy-scorer binary configured")}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := commandContext(runCtx, c.binary, text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Guarantees Wait returns even if a killed scorer leaves a child
	// holding the output pipes open.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		reason := "spawn"
		var exitErr *exec.ExitError
		switch {
		case runCtx.Err() != nil:
			reason = "timeout"
			err = fmt.Errorf("killed after %s: %w", c.timeout, runCtx.Err())
		case errors.As(err, &exitErr):
			reason = "exit"
		}
		c.logger.WithFields(logging.Fields{
			"binary":  c.binary,
			"reason":  reason,
			"elapsed": elapsed,
		}).WithError(err).Warn("Heavy scorer run failed")
		c.observe("failure", elapsed)
		c.fail(reason)
		return nil, &ProcessError{Reason: reason, Stderr: truncate(stderr.String(), 512), Err: err}
	}

	result, err := parseResponse(stdout.Bytes())
	if err != nil {
		c.logger.WithFields(logging.Fields{
			"binary": c.binary,
			"stdout": truncate(stdout.String(), 512),
		}).WithError(err).Warn("Heavy scorer returned unusable output")
		c.observe("failure", elapsed)
		c.fail("malformed")
		return nil, err
	}
	c.observe("success", elapsed)

	c.logger.WithFields(logging.Fields{
		"binary":    c.binary,
		"elapsed":   elapsed,
		"algorithm": result.AlgorithmVersion,
	}).Debug("Heavy scorer run complete")
	return result, nil
}

func (c *Client) observe(status string, elapsed time.Duration) {
	if c.duration == nil {
		return
	}
	c.duration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (c *Client) fail(reason string) {
	if c.failures == nil {
		return
	}
	c.failures.WithLabelValues(reason).Inc()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Wire schema, snake_case per the subprocess contract. Required fields are
// pointers so absence is distinguishable from zero.
type wireResponse struct {
	Score            *wireScore       `json:"score"`
	Suggestions      []wireSuggestion `json:"suggestions"`
	AlgorithmVersion string           `json:"algorithm_version"`
	ProcessingTime   *int64           `json:"processing_time"`
}

type wireScore struct {
	LightRankerScore *float64       `json:"light_ranker_score"`
	HeavyRankerScore *float64       `json:"heavy_ranker_score"`
	ToxicityScore    *float64       `json:"toxicity_score"`
	EngagementScore  *float64       `json:"engagement_score"`
	ViralityScore    *float64       `json:"virality_score"`
	Features         *wireFeatures  `json:"features"`
	Breakdown        *wireBreakdown `json:"breakdown"`
}

type wireFeatures struct {
	Text              *string `json:"text"`
	HasURL            *bool   `json:"has_url"`
	HasMedia          *bool   `json:"has_media"`
	IsRetweet         *bool   `json:"is_retweet"`
	IsReply           *bool   `json:"is_reply"`
	Length            *int    `json:"length"`
	HashtagCount      *int    `json:"hashtag_count"`
	MentionCount      *int    `json:"mention_count"`
	QuestionMarkCount *int    `json:"question_mark_count"`
	ExclamationCount  *int    `json:"exclamation_count"`
	Timestamp         *int64  `json:"timestamp"`
	AuthorID          string  `json:"author_id"`
	PostID            string  `json:"tweet_id"`
}

type wireBreakdown struct {
	ContentQuality *float64 `json:"content_quality"`
	SocialSignals  *float64 `json:"social_signals"`
	Timing         *float64 `json:"timing"`
	UserReputation *float64 `json:"user_reputation"`
	SafetyScore    *float64 `json:"safety_score"`
}

type wireSuggestion struct {
	Type                string `json:"type"`
	Priority            string `json:"priority"`
	Text                string `json:"suggestion"`
	ExpectedImprovement int    `json:"expected_improvement"`
}

func parseResponse(raw []byte) (*analysis.Report, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, &MalformedResponseError{Reason: "empty stdout"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var resp wireResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if dec.More() {
		return nil, &MalformedResponseError{Reason: "trailing data after JSON document"}
	}

	if err := validate(&resp); err != nil {
		return nil, err
	}

	s := resp.Score
	f := s.Features
	features := analysis.Features{
		Text:              *f.Text,
		HasURL:            *f.HasURL,
		HasMedia:          *f.HasMedia,
		IsRetweet:         *f.IsRetweet,
		IsReply:           *f.IsReply,
		Length:            *f.Length,
		HashtagCount:      *f.HashtagCount,
		MentionCount:      *f.MentionCount,
		QuestionMarkCount: *f.QuestionMarkCount,
		ExclamationCount:  *f.ExclamationCount,
		Timestamp:         *f.Timestamp,
		AuthorID:          f.AuthorID,
		PostID:            f.PostID,
	}
	breakdown := analysis.Breakdown{
		ContentQuality: *s.Breakdown.ContentQuality,
		SocialSignals:  *s.Breakdown.SocialSignals,
		Timing:         *s.Breakdown.Timing,
		UserReputation: *s.Breakdown.UserReputation,
		SafetyScore:    *s.Breakdown.SafetyScore,
	}

	suggestions := make([]analysis.Suggestion, 0, len(resp.Suggestions))
	for _, ws := range resp.Suggestions {
		suggestions = append(suggestions, analysis.Suggestion{
			Type:                ws.Type,
			Priority:            ws.Priority,
			Text:                ws.Text,
			ExpectedImprovement: ws.ExpectedImprovement,
		})
	}

	return &analysis.Report{
		Score: analysis.Score{
			Breakdown: breakdown,
			// Composite is recomputed canonically on [0,1]; the reported
			// virality_score carries the producer's own ceiling and is
			// only validated, never trusted for scale.
			Composite:  breakdown.Composite(),
			Toxicity:   *s.ToxicityScore,
			Engagement: *s.EngagementScore,
			Features:   features,
			Strategy:   analysis.StrategyPrimary,
		},
		Suggestions:      suggestions,
		AlgorithmVersion: resp.AlgorithmVersion,
		ProcessingTimeMs: *resp.ProcessingTime,
	}, nil
}

func validate(resp *wireResponse) error {
	if resp.Score == nil {
		return &MalformedResponseError{Reason: "missing score"}
	}
	s := resp.Score
	unit := map[string]*float64{
		"score.light_ranker_score": s.LightRankerScore,
		"score.toxicity_score":     s.ToxicityScore,
		"score.engagement_score":   s.EngagementScore,
	}
	for field, v := range unit {
		if v == nil {
			return &MalformedResponseError{Reason: "missing " + field}
		}
		if *v < 0 || *v > 1 {
			return &MalformedResponseError{Reason: fmt.Sprintf("%s out of range: %v", field, *v)}
		}
	}
	if s.ViralityScore == nil {
		return &MalformedResponseError{Reason: "missing score.virality_score"}
	}
	if s.Features == nil {
		return &MalformedResponseError{Reason: "missing score.features"}
	}
	f := s.Features
	if f.Text == nil || f.HasURL == nil || f.HasMedia == nil || f.IsRetweet == nil || f.IsReply == nil ||
		f.Length == nil || f.HashtagCount == nil || f.MentionCount == nil ||
		f.QuestionMarkCount == nil || f.ExclamationCount == nil || f.Timestamp == nil {
		return &MalformedResponseError{Reason: "incomplete score.features"}
	}
	if s.Breakdown == nil {
		return &MalformedResponseError{Reason: "missing score.breakdown"}
	}
	b := map[string]*float64{
		"score.breakdown.content_quality": s.Breakdown.ContentQuality,
		"score.breakdown.social_signals":  s.Breakdown.SocialSignals,
		"score.breakdown.timing":          s.Breakdown.Timing,
		"score.breakdown.user_reputation": s.Breakdown.UserReputation,
		"score.breakdown.safety_score":    s.Breakdown.SafetyScore,
	}
	for field, v := range b {
		if v == nil {
			return &MalformedResponseError{Reason: "missing " + field}
		}
		if *v < 0 || *v > 1 {
			return &MalformedResponseError{Reason: fmt.Sprintf("%s out of range: %v", field, *v)}
		}
	}
	if resp.AlgorithmVersion == "" {
		return &MalformedResponseError{Reason: "missing algorithm_version"}
	}
	if resp.ProcessingTime == nil {
		return &MalformedResponseError{Reason: "missing processing_time"}
	}
	return nil
}
