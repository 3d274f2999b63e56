package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"augur/internal/analysis"
	"augur/internal/heavyranker"
	"augur/internal/orchestrator"
	"augur/pkg/config"
	"augur/pkg/logging"
)

func newAnalyzeCmd() *cobra.Command {
	var authorID string

	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Score a post and print suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			report, err := runPipeline(cmd.Context(), text, analysis.Metadata{AuthorID: authorID})
			if err != nil {
				if errors.Is(err, analysis.ErrEmptyInput) {
					return errors.New("text must not be empty")
				}
				return err
			}

			if outputJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&authorID, "author", "", "author identifier for context-aware suggestions")
	return cmd
}

// runPipeline wires a one-shot orchestrator from the environment: the heavy
// scorer is used when HEAVY_SCORER_BINARY is set, otherwise scoring is local.
func runPipeline(ctx context.Context, text string, meta analysis.Metadata) (*analysis.Report, error) {
	logger := logging.NewLogger()
	logger.SetOutput(io.Discard)
	config.LoadEnv(logger)

	heavy := heavyranker.NewClient(
		config.GetEnv("HEAVY_SCORER_BINARY", ""),
		logger,
		heavyranker.WithTimeout(config.GetEnvDuration("HEAVY_SCORER_TIMEOUT", heavyranker.DefaultTimeout)),
	)
	orch := orchestrator.New(heavy, analysis.NewEngine(), logger)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return orch.Analyze(ctx, text, meta)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newHashtagsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "hashtags <text>",
		Short: "Recommend hashtags for a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			tags := analysis.RecommendHashtags(text, limit)

			if outputJSON {
				return printJSON(cmd.OutOrStdout(), tags)
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 3, "maximum number of hashtags")
	return cmd
}

func newTrendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Print the trending topics lexicon",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := analysis.TrendingSnapshot()

			if outputJSON {
				return printJSON(cmd.OutOrStdout(), topics)
			}
			for _, topic := range topics {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %.2f\n", topic.Topic, topic.Weight)
			}
			return nil
		},
	}
}
