// Package orchestrator runs the tiered analysis pipeline: the heavy
// out-of-process scorer first, with the in-process engine as a fallback
// when the heavy path fails recoverably.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/fallback"

	"augur/internal/analysis"
	"augur/internal/heavyranker"
	"augur/pkg/logging"
)

// Hooks receive strategy outcomes for metric counters. Nil hooks are skipped.
type Hooks struct {
	OnPrimary  func()
	OnFallback func(reason string)
}

// Orchestrator scores posts via the heavy ranker when it is healthy and
// degrades to the local engine otherwise. Local engine failures are fatal.
type Orchestrator struct {
	heavy  *heavyranker.Client
	engine *analysis.Engine
	logger logging.Logger
	hooks  Hooks
	now    func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHooks installs outcome callbacks.
func WithHooks(h Hooks) Option {
	return func(o *Orchestrator) { o.hooks = h }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(heavy *heavyranker.Client, engine *analysis.Engine, logger logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		heavy:  heavy,
		engine: engine,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze scores text, trying the heavy ranker first. Recoverable heavy
// failures (spawn, exit, timeout, malformed output) degrade to the local
// engine; anything the local engine cannot handle is returned as an error.
func (o *Orchestrator) Analyze(ctx context.Context, text string, meta analysis.Metadata) (*analysis.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyInput
	}

	policy := fallback.NewBuilderWithFunc[*analysis.Report](func(exec failsafe.Execution[*analysis.Report]) (*analysis.Report, error) {
		o.degraded(exec.LastError())
		return o.scoreLocally(text, meta)
	}).
		HandleIf(func(_ *analysis.Report, err error) bool {
			return heavyranker.Recoverable(err)
		}).
		Build()

	report, err := failsafe.With(policy).WithContext(ctx).Get(func() (*analysis.Report, error) {
		return o.heavy.Analyze(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	if report.Score.Strategy == analysis.StrategyPrimary && o.hooks.OnPrimary != nil {
		o.hooks.OnPrimary()
	}
	return report, nil
}

// ScoreLocally runs the in-process pipeline directly, bypassing the heavy
// ranker. Used when callers explicitly want the cheap path.
func (o *Orchestrator) ScoreLocally(text string, meta analysis.Metadata) (*analysis.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, analysis.ErrEmptyInput
	}
	return o.scoreLocally(text, meta)
}

func (o *Orchestrator) scoreLocally(text string, meta analysis.Metadata) (report *analysis.Report, err error) {
	// The local engine is the last line of defense; surface anything it
	// throws as a typed fatal error instead of crashing the request.
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = &analysis.LocalScoringError{Err: fmt.Errorf("local scoring panic: %v", r)}
		}
	}()

	started := o.now()
	features := analysis.ExtractFeatures(text, started, meta)
	score := o.engine.Score(features, started)
	suggestions := analysis.Suggest(score)
	return &analysis.Report{
		Score:            score,
		Suggestions:      suggestions,
		AlgorithmVersion: analysis.Version,
		ProcessingTimeMs: o.now().Sub(started).Milliseconds(),
	}, nil
}

func (o *Orchestrator) degraded(err error) {
	reason := "unknown"
	var pe *heavyranker.ProcessError
	var me *heavyranker.MalformedResponseError
	switch {
	case errors.As(err, &pe):
		reason = pe.Reason
	case errors.As(err, &me):
		reason = "malformed"
	}
	o.logger.WithFields(logging.Fields{
		"reason": reason,
		"error":  err,
	}).Warn("Heavy scorer unavailable, degrading to local engine")
	if o.hooks.OnFallback != nil {
		o.hooks.OnFallback(reason)
	}
}
