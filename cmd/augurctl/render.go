package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"augur/internal/analysis"
)

var (
	highColor   = color.New(color.FgGreen, color.Bold)
	medColor    = color.New(color.FgYellow)
	lowColor    = color.New(color.FgRed)
	labelColor  = color.New(color.FgCyan)
	strategyTag = map[analysis.Strategy]string{
		analysis.StrategyPrimary:  "heavy scorer",
		analysis.StrategyFallback: "local engine",
	}
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

func scoreColor(v float64) *color.Color {
	switch {
	case v >= 0.7:
		return highColor
	case v >= 0.4:
		return medColor
	default:
		return lowColor
	}
}

func renderReport(w io.Writer, report *analysis.Report) {
	score := report.Score
	virality := score.Breakdown.Normalize(100)

	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Virality score:"), scoreColor(score.Composite).Sprintf("%.0f / 100", virality))
	fmt.Fprintf(w, "%s %s (%s, %dms)\n\n", labelColor.Sprint("Scored by:"), strategyTag[score.Strategy], report.AlgorithmVersion, report.ProcessingTimeMs)

	factors := []struct {
		name  string
		value float64
	}{
		{"content quality", score.Breakdown.ContentQuality},
		{"social signals", score.Breakdown.SocialSignals},
		{"timing", score.Breakdown.Timing},
		{"user reputation", score.Breakdown.UserReputation},
		{"safety", score.Breakdown.SafetyScore},
	}
	for _, f := range factors {
		fmt.Fprintf(w, "  %-18s %s\n", f.name, scoreColor(f.value).Sprintf("%.2f", f.value))
	}

	if len(report.Suggestions) == 0 {
		fmt.Fprintf(w, "\nNo suggestions — looks good.\n")
		return
	}
	fmt.Fprintf(w, "\n%s\n", labelColor.Sprint("Suggestions:"))
	for _, s := range report.Suggestions {
		fmt.Fprintf(w, "  [%s] %s (+%d%%)\n", priorityColor(s.Priority).Sprint(s.Priority), s.Text, s.ExpectedImprovement)
	}
}

func priorityColor(priority string) *color.Color {
	switch priority {
	case "high":
		return lowColor
	case "medium":
		return medColor
	default:
		return highColor
	}
}
