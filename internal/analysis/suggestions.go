package analysis

import (
	"sort"
	"strings"
)

// Suggestion thresholds. A factor below its threshold (above, for
// toxicity) emits the matching suggestion.
const (
	contentThreshold    = 0.6
	engagementThreshold = 0.5
	timingThreshold     = 0.7
	toxicityThreshold   = 0.3
)

// Suggest derives actionable suggestions from a completed score. Rules are
// evaluated in a fixed order (content, engagement, timing, safety, then
// hashtag usage) so output is deterministic for a given score.
func Suggest(score Score) []Suggestion {
	var out []Suggestion
	f := score.Features
	b := score.Breakdown

	if b.ContentQuality < contentThreshold {
		if f.Length < 100 {
			out = append(out, Suggestion{
				Type:                "content",
				Priority:            "high",
				Text:                "Expand your post to 100-200 characters for better engagement",
				ExpectedImprovement: 20,
			})
		} else {
			out = append(out, Suggestion{
				Type:                "content",
				Priority:            "high",
				Text:                "Add trending keywords or emotional language to boost content quality",
				ExpectedImprovement: 15,
			})
		}
	}

	if b.SocialSignals < engagementThreshold {
		if f.QuestionMarkCount == 0 {
			out = append(out, Suggestion{
				Type:                "engagement",
				Priority:            "high",
				Text:                "Add a question to encourage replies and increase engagement",
				ExpectedImprovement: 25,
			})
		} else {
			out = append(out, Suggestion{
				Type:                "engagement",
				Priority:            "medium",
				Text:                `Use more call-to-action words like "think", "opinion", or "share"`,
				ExpectedImprovement: 15,
			})
		}
	}

	if b.Timing < timingThreshold {
		out = append(out, Suggestion{
			Type:                "timing",
			Priority:            "medium",
			Text:                "Consider posting during peak hours (9-10 AM, 12-1 PM, 5-6 PM, 7-9 PM)",
			ExpectedImprovement: 10,
		})
	}

	if score.Toxicity > toxicityThreshold {
		out = append(out, Suggestion{
			Type:                "safety",
			Priority:            "high",
			Text:                "Reduce potentially offensive language to improve content safety score",
			ExpectedImprovement: 25,
		})
	}

	switch {
	case f.HashtagCount == 0:
		out = append(out, Suggestion{
			Type:                "hashtags",
			Priority:            "medium",
			Text:                "Add 1-3 relevant hashtags to increase discoverability",
			ExpectedImprovement: 12,
		})
	case f.HashtagCount > 3:
		out = append(out, Suggestion{
			Type:                "hashtags",
			Priority:            "low",
			Text:                "Reduce hashtags to 1-3 for better performance",
			ExpectedImprovement: 8,
		})
	}

	return out
}

// RecommendHashtags proposes hashtags for a post: trending topics already
// mentioned in the text first, strongest weight first, padded with the top
// trending topics when the text matches nothing.
func RecommendHashtags(text string, limit int) []string {
	if limit <= 0 {
		limit = 3
	}
	lower := strings.ToLower(text)

	type candidate struct {
		topic  string
		weight float64
	}
	var matched, rest []candidate
	for topic, weight := range trendingTopics {
		if strings.Contains(lower, topic) {
			matched = append(matched, candidate{topic, weight})
		} else {
			rest = append(rest, candidate{topic, weight})
		}
	}
	byWeight := func(cands []candidate) {
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].weight != cands[j].weight {
				return cands[i].weight > cands[j].weight
			}
			return cands[i].topic < cands[j].topic
		})
	}
	byWeight(matched)
	byWeight(rest)

	var tags []string
	for _, c := range append(matched, rest...) {
		if len(tags) == limit {
			break
		}
		tags = append(tags, toHashtag(c.topic))
	}
	return tags
}

func toHashtag(topic string) string {
	parts := strings.Fields(topic)
	for i, p := range parts {
		if len(p) <= 2 {
			parts[i] = strings.ToUpper(p)
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return "#" + strings.Join(parts, "")
}

// TrendingTopic is one entry of the trending lexicon with its weight.
type TrendingTopic struct {
	Topic  string  `json:"topic"`
	Weight float64 `json:"weight"`
}

// TrendingSnapshot returns the trending lexicon sorted by weight descending,
// ties broken alphabetically.
func TrendingSnapshot() []TrendingTopic {
	out := make([]TrendingTopic, 0, len(trendingTopics))
	for topic, weight := range trendingTopics {
		out = append(out, TrendingTopic{Topic: topic, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
