package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/pipeline"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

var (
	scoreTimeout time.Duration
	visualize    bool
	asJSON       bool
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score the coherence of a single paragraph",
	Long: `Score reads a paragraph from a file (or stdin when no file is given),
runs the coherence pipeline, and prints the score with any detected
disruptions.

Example:
  cohergraph score paragraph.txt
  cat paragraph.txt | cohergraph score
  cohergraph score paragraph.txt --json --visualize`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", time.Minute, "overall scoring timeout")
	scoreCmd.Flags().BoolVar(&visualize, "visualize", false, "include the graph payload in output")
	scoreCmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
}

func runScore(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Minute
	cache := embeddings.NewMemoryCache(ttl, 2*ttl)

	evaluator, _, err := pipeline.BuildEvaluator(cfg, cache)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	result, err := evaluator.Evaluate(ctx, text, pipeline.Options{Visualize: visualize})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Coherence: %.3f (%d%%)\n", result.CoherenceScore, result.CoherencePercent)
	if len(result.Disruptions) == 0 {
		fmt.Println("No disruptions detected.")
		return nil
	}
	fmt.Printf("Disruptions (%d):\n", len(result.Disruptions))
	for _, d := range result.Disruptions {
		fmt.Printf("  sentence %d -> %d: %s (similarity %.2f)\n", d.FromIdx, d.ToIdx, d.Reason, d.Score)
	}

	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
