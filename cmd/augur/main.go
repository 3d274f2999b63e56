package main

import (
	"time"

	"augur/internal/analysis"
	"augur/internal/handlers"
	"augur/internal/heavyranker"
	"augur/internal/orchestrator"
	"augur/internal/service"
	"augur/pkg/config"
	"augur/pkg/llm"
	"augur/pkg/logging"
	"augur/pkg/monitoring"
	"augur/pkg/server"
	"augur/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("augur")
	config.LoadEnv(logger)

	port := config.GetEnv("PORT", "18090")
	scorerBinary := config.GetEnv("HEAVY_SCORER_BINARY", "")
	scorerTimeout := config.GetEnvDuration("HEAVY_SCORER_TIMEOUT", heavyranker.DefaultTimeout)

	healthChecker := monitoring.NewHealthChecker("augur", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("augur", version.Version, version.GitCommit)

	analyses, scorerDuration, scorerFailures := metricsCollector.CreateScoringMetrics()
	cacheRequests, cacheEntries, cacheEvictions := metricsCollector.CreateCacheMetrics()
	metrics := &handlers.AnalysisMetrics{
		Analyses:       analyses,
		CacheRequests:  cacheRequests,
		CacheEntries:   cacheEntries,
		CacheEvictions: cacheEvictions,
	}

	heavy := heavyranker.NewClient(scorerBinary, logger,
		heavyranker.WithTimeout(scorerTimeout),
		heavyranker.WithMetrics(scorerDuration, scorerFailures),
	)
	orch := orchestrator.New(heavy, analysis.NewEngine(), logger)

	var provider llm.Provider
	llmConfig := llm.LoadConfig()
	if llmConfig.Enabled() {
		p, err := llm.NewProvider(llmConfig)
		if err != nil {
			logger.WithError(err).Warn("LLM provider misconfigured, suggestion augmentation disabled")
		} else {
			provider = p
			logger.WithFields(logging.Fields{
				"provider": llmConfig.Provider,
				"model":    llmConfig.Model,
			}).Info("LLM suggestion augmentation enabled")
		}
	}

	svc := service.New(orch, logger, service.Options{
		TTL: service.TTLPolicy{
			Analysis:    config.GetEnvDuration("CACHE_TTL_ANALYSIS", 30*time.Minute),
			Suggestions: config.GetEnvDuration("CACHE_TTL_SUGGESTIONS", 15*time.Minute),
			Hashtags:    config.GetEnvDuration("CACHE_TTL_HASHTAGS", 10*time.Minute),
			Trending:    config.GetEnvDuration("CACHE_TTL_TRENDING", 5*time.Minute),
		},
		SweepInterval: config.GetEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		LLM:           provider,
		LLMTimeout:    config.GetEnvDuration("LLM_TIMEOUT", 5*time.Second),
		CacheHooks:    metrics.CacheHooks,
	})
	defer svc.Close()

	healthChecker.AddCheck("heavy_scorer", monitoring.ScorerBinaryHealthCheck(scorerBinary))
	healthChecker.AddCheck("cache", monitoring.CacheHealthCheck(func() (int, float64) {
		stats := svc.CacheStats()[service.PurposeAnalysis]
		return stats.Entries, stats.HitRate
	}))

	app := server.SetupServiceRouter(logger, "augur", healthChecker, metricsCollector)

	analyzeHandler := handlers.NewAnalyzeHandler(svc, logger, metrics)
	suggestionsHandler := handlers.NewSuggestionsHandler(svc, logger)
	trendingHandler := handlers.NewTrendingHandler(svc, logger)
	cacheHandler := handlers.NewCacheHandler(svc, logger, metrics)

	app.POST("/api/analyze", analyzeHandler.Handle)
	app.POST("/api/suggestions", suggestionsHandler.Handle)
	app.GET("/api/hashtags", suggestionsHandler.HandleHashtags)
	app.GET("/api/trending/:region", trendingHandler.Handle)
	app.GET("/api/cache/stats", cacheHandler.HandleStats)
	app.POST("/api/cache/clear", cacheHandler.HandleClear)

	serverConfig := server.DefaultConfig("augur", port)
	if err := server.Start(serverConfig, app, logger); err != nil {
		logger.Fatal(err.Error())
	}
}
