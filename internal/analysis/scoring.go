package analysis

import (
	"strings"
	"time"
)

// Weighted vocabularies. Matching is case-insensitive substring matching,
// so "launched" counts for "launch".
var (
	trendingTopics = map[string]float64{
		"ai": 0.9, "artificial intelligence": 0.9, "machine learning": 0.8,
		"crypto": 0.8, "bitcoin": 0.8, "blockchain": 0.7,
		"tech": 0.7, "startup": 0.7, "innovation": 0.6,
		"breaking": 0.9, "news": 0.6, "update": 0.5,
		"launch": 0.8, "release": 0.7, "announcement": 0.8,
	}

	emotionalWords = map[string]float64{
		"amazing": 0.8, "incredible": 0.8, "shocking": 0.9,
		"unbelievable": 0.8, "mind-blowing": 0.9, "wow": 0.7,
		"excited": 0.6, "thrilled": 0.7, "pumped": 0.6,
		"love": 0.6, "hate": 0.5, "angry": 0.4,
	}

	ctaWords = map[string]float64{
		"what": 0.6, "think": 0.7, "opinion": 0.8,
		"agree": 0.7, "disagree": 0.8, "thoughts": 0.8,
		"share": 0.7, "retweet": 0.6, "comment": 0.6,
	}

	// Denylist for the toxicity heuristic. Each match contributes a fixed
	// step; the total is capped at 1.
	toxicTerms = []string{
		"hate", "stupid", "idiot", "moron", "kill", "die", "damn", "hell",
		"crap", "suck", "terrible", "awful", "disgusting", "pathetic",
	}
)

const toxicityStep = 0.2

// defaultReputation is a placeholder: there is no user graph behind this
// service, so every author scores the same fixed reputation. Replace when
// an author-quality signal becomes available.
const defaultReputation = 0.7

// Peak engagement hours, local time.
var peakHours = map[int]float64{
	9: 0.9, 10: 0.9,
	12: 0.85, 13: 0.85,
	17: 0.8, 18: 0.8,
	19: 0.75, 20: 0.75, 21: 0.75,
}

// Engine computes the heuristic multi-factor score. It is stateless and
// deterministic given features and a clock reading.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lexiconScore(text string, lexicon map[string]float64, max bool) float64 {
	lower := strings.ToLower(text)
	total := 0.0
	for word, weight := range lexicon {
		if !strings.Contains(lower, word) {
			continue
		}
		if max {
			if weight > total {
				total = weight
			}
		} else {
			total += weight
		}
	}
	return clamp01(total)
}

// TrendingScore is the strongest trending-topic weight present in text.
func (e *Engine) TrendingScore(text string) float64 {
	return lexiconScore(text, trendingTopics, true)
}

func (e *Engine) emotionalScore(text string) float64 {
	return lexiconScore(text, emotionalWords, false)
}

func (e *Engine) ctaScore(text string) float64 {
	return lexiconScore(text, ctaWords, false)
}

// Toxicity is a bounded denylist heuristic in [0,1].
func (e *Engine) Toxicity(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, term := range toxicTerms {
		if strings.Contains(lower, term) {
			score += toxicityStep
		}
	}
	return clamp01(score)
}

func (e *Engine) contentQuality(f Features) float64 {
	score := 0.3

	switch {
	case f.Length >= 100 && f.Length <= 200:
		score += 0.3
	case f.Length >= 50 && f.Length <= 280:
		score += 0.2
	case f.Length < 50:
		score -= 0.1
	}

	score += e.TrendingScore(f.Text) * 0.2
	score += e.emotionalScore(f.Text) * 0.15
	score += e.ctaScore(f.Text) * 0.1

	if f.QuestionMarkCount > 0 {
		score += 0.1
	}
	if f.ExclamationCount >= 1 && f.ExclamationCount <= 2 {
		score += 0.05
	} else if f.ExclamationCount > 3 {
		score -= 0.05
	}
	if f.IsRetweet {
		score -= 0.1
	}

	return clamp01(score)
}

// Engagement predicts reply/share potential, the proxy behind the
// social-signals factor. Distinct from content quality: it only rewards
// interaction triggers.
func (e *Engine) Engagement(f Features) float64 {
	score := 0.2

	if f.QuestionMarkCount > 0 {
		score += 0.25
	}
	score += e.ctaScore(f.Text) * 0.2
	score += e.emotionalScore(f.Text) * 0.15

	if f.HashtagCount >= 1 && f.HashtagCount <= 3 {
		score += 0.1
	} else if f.HashtagCount > 5 {
		score -= 0.1
	}
	if f.MentionCount >= 1 && f.MentionCount <= 2 {
		score += 0.05
	} else if f.MentionCount > 3 {
		score -= 0.05
	}
	if f.HasURL {
		score += 0.05
	}
	if f.Length >= 100 && f.Length <= 200 {
		score += 0.1
	}

	return clamp01(score)
}

// timing depends only on the hour of day: peak hours score high, the wider
// daytime window medium, and the rest low.
func (e *Engine) timing(now time.Time) float64 {
	hour := now.Hour()
	if score, ok := peakHours[hour]; ok {
		return score
	}
	if hour >= 8 && hour <= 22 {
		return 0.6
	}
	return 0.3
}

// Breakdown computes the five factors for the given features and clock
// reading. Pure and deterministic.
func (e *Engine) Breakdown(f Features, now time.Time) Breakdown {
	return Breakdown{
		ContentQuality: e.contentQuality(f),
		SocialSignals:  e.Engagement(f),
		Timing:         e.timing(now),
		UserReputation: defaultReputation,
		SafetyScore:    clamp01(1 - e.Toxicity(f.Text)),
	}
}

// Score runs the full local pipeline on already-extracted features.
func (e *Engine) Score(f Features, now time.Time) Score {
	breakdown := e.Breakdown(f, now)
	return Score{
		Breakdown:  breakdown,
		Composite:  breakdown.Composite(),
		Toxicity:   e.Toxicity(f.Text),
		Engagement: e.Engagement(f),
		Features:   f,
		Strategy:   StrategyFallback,
	}
}
