package handlers

import (
	"github.com/prometheus/client_golang/prometheus"

	"augur/pkg/cache"
)

type AnalysisMetrics struct {
	Analyses       *prometheus.CounterVec
	CacheRequests  *prometheus.CounterVec
	CacheEntries   *prometheus.GaugeVec
	CacheEvictions *prometheus.CounterVec
}

func (m *AnalysisMetrics) IncAnalysis(strategy, status string) {
	if m == nil || m.Analyses == nil {
		return
	}

	m.Analyses.WithLabelValues(strategy, status).Inc()
}

// CacheHooks adapts the prometheus vectors into per-purpose cache hooks.
func (m *AnalysisMetrics) CacheHooks(purpose string) cache.MetricsHooks {
	if m == nil || m.CacheRequests == nil {
		return cache.MetricsHooks{}
	}

	return cache.MetricsHooks{
		OnHit: func(string) {
			m.CacheRequests.WithLabelValues(purpose, "hit").Inc()
		},
		OnMiss: func(string) {
			m.CacheRequests.WithLabelValues(purpose, "miss").Inc()
		},
		OnStore: func(string) {
			m.CacheEntries.WithLabelValues(purpose).Inc()
		},
		OnEvict: func(string) {
			m.CacheEntries.WithLabelValues(purpose).Dec()
			m.CacheEvictions.WithLabelValues(purpose).Inc()
		},
	}
}

// SetCacheEntries forces the entries gauge to an absolute value. Used after
// bulk operations like a full clear, which bypass the per-key hooks.
func (m *AnalysisMetrics) SetCacheEntries(purpose string, n int) {
	if m == nil || m.CacheEntries == nil {
		return
	}

	m.CacheEntries.WithLabelValues(purpose).Set(float64(n))
}
