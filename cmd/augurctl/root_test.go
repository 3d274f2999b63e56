package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"augur/internal/analysis"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputJSON = false
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCommandJSON(t *testing.T) {
	t.Setenv("HEAVY_SCORER_BINARY", "")

	out, err := runCommand(t, "analyze", "--json", "Just launched our new AI feature! What do you think? #AI #Tech")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var report analysis.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if report.Score.Strategy != analysis.StrategyFallback {
		t.Fatalf("expected local strategy, got %s", report.Score.Strategy)
	}
	if report.AlgorithmVersion != analysis.Version {
		t.Fatalf("unexpected algorithm version %s", report.AlgorithmVersion)
	}
}

func TestAnalyzeCommandHumanOutput(t *testing.T) {
	t.Setenv("HEAVY_SCORER_BINARY", "")

	out, err := runCommand(t, "analyze", "hello", "world")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Virality score:") {
		t.Fatalf("expected formatted output, got %q", out)
	}
	if !strings.Contains(out, "local engine") {
		t.Fatalf("expected strategy line, got %q", out)
	}
}

func TestHashtagsCommand(t *testing.T) {
	out, err := runCommand(t, "hashtags", "--limit", "2", "machine learning launch")
	if err != nil {
		t.Fatalf("hashtags: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 hashtags, got %v", lines)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "#") {
			t.Fatalf("expected hashtag, got %q", line)
		}
	}
}

func TestTrendingCommand(t *testing.T) {
	out, err := runCommand(t, "trending")
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if !strings.Contains(out, "ai") {
		t.Fatalf("expected lexicon entries, got %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "augurctl") {
		t.Fatalf("unexpected output %q", out)
	}
}
