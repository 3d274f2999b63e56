// Package analysis holds the local scoring pipeline: feature extraction,
// the heuristic multi-factor scoring engine and rule-based suggestion
// generation. Everything here is pure and deterministic for a fixed input
// and clock reading, which is what makes the orchestrator's fallback path
// reliable.
package analysis

// Version identifies the local scoring algorithm in responses.
const Version = "augur-local-v2.0"

// Strategy records which scoring path produced a result.
type Strategy string

const (
	StrategyPrimary  Strategy = "primary"
	StrategyFallback Strategy = "fallback"
)

// Features are the structural signals extracted from a post. Built once
// per analysis request and never mutated afterwards.
type Features struct {
	Text              string `json:"text"`
	HasURL            bool   `json:"has_url"`
	HasMedia          bool   `json:"has_media"`
	IsRetweet         bool   `json:"is_retweet"`
	IsReply           bool   `json:"is_reply"`
	Length            int    `json:"length"`
	HashtagCount      int    `json:"hashtag_count"`
	MentionCount      int    `json:"mention_count"`
	QuestionMarkCount int    `json:"question_mark_count"`
	ExclamationCount  int    `json:"exclamation_count"`
	Timestamp         int64  `json:"timestamp"`
	AuthorID          string `json:"author_id,omitempty"`
	PostID            string `json:"post_id,omitempty"`
}

// Breakdown is the five-factor score, each factor clamped to [0,1].
type Breakdown struct {
	ContentQuality float64 `json:"content_quality"`
	SocialSignals  float64 `json:"social_signals"`
	Timing         float64 `json:"timing"`
	UserReputation float64 `json:"user_reputation"`
	SafetyScore    float64 `json:"safety_score"`
}

// Factor weights for the composite. They sum to 1 so the composite stays
// in [0,1]; Normalize is the only place a caller-facing ceiling is applied.
const (
	weightContentQuality = 0.30
	weightSocialSignals  = 0.25
	weightTiming         = 0.20
	weightReputation     = 0.10
	weightSafety         = 0.15
)

// Composite returns the weighted sum of the five factors, in [0,1].
func (b Breakdown) Composite() float64 {
	return b.ContentQuality*weightContentQuality +
		b.SocialSignals*weightSocialSignals +
		b.Timing*weightTiming +
		b.UserReputation*weightReputation +
		b.SafetyScore*weightSafety
}

// Normalize scales the composite onto a caller's ceiling (100 and 500 both
// exist among consumers). This is the single scaling boundary; internal
// code always works on [0,1].
func (b Breakdown) Normalize(ceiling float64) float64 {
	return b.Composite() * ceiling
}

// Score is the result of one analysis. Immutable once produced.
type Score struct {
	Breakdown  Breakdown `json:"breakdown"`
	Composite  float64   `json:"composite"`
	Toxicity   float64   `json:"toxicity_score"`
	Engagement float64   `json:"engagement_score"`
	Features   Features  `json:"features"`
	Strategy   Strategy  `json:"strategy_used"`
}

// Report bundles everything one analysis produces: the score, derived
// suggestions and provenance.
type Report struct {
	Score            Score        `json:"score"`
	Suggestions      []Suggestion `json:"suggestions"`
	AlgorithmVersion string       `json:"algorithm_version"`
	ProcessingTimeMs int64        `json:"processing_time"`
}

// Suggestion is one actionable improvement derived from a Score.
type Suggestion struct {
	Type                string `json:"type"`
	Priority            string `json:"priority"`
	Text                string `json:"suggestion"`
	ExpectedImprovement int    `json:"expected_improvement"`
}
