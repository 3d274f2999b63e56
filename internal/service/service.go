// Package service is the cached façade over the analysis pipeline. It owns
// one TTL store per cache purpose and wires GetOrSet around the
// orchestrator, suggestion rules, hashtag recommendations and the trending
// lexicon snapshot.
package service

import (
	"context"
	"strings"
	"time"

	"augur/internal/analysis"
	"augur/internal/orchestrator"
	"augur/pkg/cache"
	"augur/pkg/llm"
	"augur/pkg/logging"
)

// TTLPolicy holds the per-purpose cache lifetimes.
type TTLPolicy struct {
	Analysis    time.Duration
	Suggestions time.Duration
	Hashtags    time.Duration
	Trending    time.Duration
}

// DefaultTTLPolicy matches the documented defaults: analysis results live
// longest, trending data shortest.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Analysis:    30 * time.Minute,
		Suggestions: 15 * time.Minute,
		Hashtags:    10 * time.Minute,
		Trending:    5 * time.Minute,
	}
}

// Options configures a Service.
type Options struct {
	TTL           TTLPolicy
	SweepInterval time.Duration
	Clock         func() time.Time

	// LLM augments rule-based suggestions when set. Augmentation is
	// best-effort: failures and timeouts degrade to the rule output.
	LLM        llm.Provider
	LLMTimeout time.Duration

	// CacheHooks, when set, supplies metric hooks per cache purpose.
	CacheHooks func(purpose string) cache.MetricsHooks
}

// Purpose labels, used for cache metrics and the stats endpoint.
const (
	PurposeAnalysis    = "analysis"
	PurposeSuggestions = "suggestions"
	PurposeHashtags    = "hashtags"
	PurposeTrending    = "trending"
)

const defaultLLMTimeout = 5 * time.Second

// Service caches analysis pipeline results by purpose.
type Service struct {
	orch       *orchestrator.Orchestrator
	logger     logging.Logger
	llm        llm.Provider
	llmTimeout time.Duration

	analyses    *cache.Store[*analysis.Report]
	suggestions *cache.Store[[]analysis.Suggestion]
	hashtags    *cache.Store[[]string]
	trending    *cache.Store[[]analysis.TrendingTopic]
}

func New(orch *orchestrator.Orchestrator, logger logging.Logger, opts Options) *Service {
	if opts.TTL == (TTLPolicy{}) {
		opts.TTL = DefaultTTLPolicy()
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}
	hooks := opts.CacheHooks
	if hooks == nil {
		hooks = func(string) cache.MetricsHooks { return cache.MetricsHooks{} }
	}
	store := func(ttl time.Duration) cache.Options {
		return cache.Options{
			DefaultTTL:    ttl,
			SweepInterval: opts.SweepInterval,
			Clock:         opts.Clock,
		}
	}
	return &Service{
		orch:        orch,
		logger:      logger,
		llm:         opts.LLM,
		llmTimeout:  opts.LLMTimeout,
		analyses:    cache.New[*analysis.Report](store(opts.TTL.Analysis), hooks(PurposeAnalysis)),
		suggestions: cache.New[[]analysis.Suggestion](store(opts.TTL.Suggestions), hooks(PurposeSuggestions)),
		hashtags:    cache.New[[]string](store(opts.TTL.Hashtags), hooks(PurposeHashtags)),
		trending:    cache.New[[]analysis.TrendingTopic](store(opts.TTL.Trending), hooks(PurposeTrending)),
	}
}

// Close stops the background sweeps of all stores.
func (s *Service) Close() {
	s.analyses.Close()
	s.suggestions.Close()
	s.hashtags.Close()
	s.trending.Close()
}

// Analyze returns the cached analysis for text, running the full pipeline on
// a miss.
func (s *Service) Analyze(ctx context.Context, text string, meta analysis.Metadata) (*analysis.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyInput
	}
	return s.analyses.GetOrSet(ctx, analysisKey(text), 0, func(ctx context.Context) (*analysis.Report, error) {
		return s.orch.Analyze(ctx, text, meta)
	})
}

// Suggestions returns cached improvement suggestions for text. The rule
// output from the analysis report is the base; a configured LLM may append
// one extra suggestion, and its failure only costs that extra.
func (s *Service) Suggestions(ctx context.Context, text string, meta analysis.Metadata) ([]analysis.Suggestion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyInput
	}
	key := suggestionsKey(text, contextFragment(meta.AuthorID))
	return s.suggestions.GetOrSet(ctx, key, 0, func(ctx context.Context) ([]analysis.Suggestion, error) {
		report, err := s.Analyze(ctx, text, meta)
		if err != nil {
			return nil, err
		}
		return s.augment(ctx, text, report.Suggestions), nil
	})
}

// HashtagSuggestions returns cached hashtag recommendations for text.
func (s *Service) HashtagSuggestions(ctx context.Context, text string, limit int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyInput
	}
	return s.hashtags.GetOrSet(ctx, hashtagKey(text), 0, func(ctx context.Context) ([]string, error) {
		return analysis.RecommendHashtags(text, limit), nil
	})
}

// TrendingTopics returns the cached trending lexicon snapshot for a region.
// The lexicon is currently global; the region only namespaces the cache so
// regional sources can be added without changing callers.
func (s *Service) TrendingTopics(ctx context.Context, region string) ([]analysis.TrendingTopic, error) {
	return s.trending.GetOrSet(ctx, trendingKey(region), 0, func(ctx context.Context) ([]analysis.TrendingTopic, error) {
		return analysis.TrendingSnapshot(), nil
	})
}

// CacheStats reports per-purpose store statistics.
func (s *Service) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		PurposeAnalysis:    s.analyses.Stats(),
		PurposeSuggestions: s.suggestions.Stats(),
		PurposeHashtags:    s.hashtags.Stats(),
		PurposeTrending:    s.trending.Stats(),
	}
}

// ClearCaches empties every store and returns how many entries were dropped.
func (s *Service) ClearCaches() int {
	total := s.analyses.Stats().Entries +
		s.suggestions.Stats().Entries +
		s.hashtags.Stats().Entries +
		s.trending.Stats().Entries
	s.analyses.Clear()
	s.suggestions.Clear()
	s.hashtags.Clear()
	s.trending.Clear()
	return total
}

// augment asks the LLM for one extra suggestion. Any failure is logged and
// the rule-based suggestions are returned unchanged.
func (s *Service) augment(ctx context.Context, text string, base []analysis.Suggestion) []analysis.Suggestion {
	if s.llm == nil {
		return base
	}
	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	prompt := "Suggest one concrete improvement, in a single sentence, for this social media post:\n\n" + text
	completion, err := s.llm.Complete(llmCtx, prompt)
	if err != nil {
		s.logger.WithFields(logging.Fields{"error": err}).Warn("LLM suggestion augmentation failed, returning rule-based suggestions only")
		return base
	}
	completion = strings.TrimSpace(completion)
	if completion == "" {
		return base
	}
	return append(base, analysis.Suggestion{
		Type:                "ai",
		Priority:            "low",
		Text:                completion,
		ExpectedImprovement: 5,
	})
}
