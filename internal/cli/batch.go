package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/pipeline"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

var (
	batchWorkers int
	batchTimeout time.Duration
	batchJSON    bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score multiple paragraphs from a file in parallel",
	Long: `Batch reads paragraphs from a file, one per line, and scores them
concurrently with a configurable worker count. Failed items score zero
and do not abort the batch.

Example:
  cohergraph batch paragraphs.txt
  cohergraph batch paragraphs.txt --workers 8 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent workers (0 uses the configured default)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as JSON")
}

func runBatch(cmd *cobra.Command, args []string) error {
	texts, err := readLines(args[0])
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no paragraphs found in %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if batchWorkers > 0 {
		cfg.Pipeline.BatchWorkers = batchWorkers
	}

	ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Minute
	cache := embeddings.NewMemoryCache(ttl, 2*ttl)

	evaluator, _, err := pipeline.BuildEvaluator(cfg, cache)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	results := evaluator.EvaluateBatch(ctx, texts)

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for i, r := range results {
		fmt.Printf("%3d  %.3f  %s\n", i, r.CoherenceScore, snippet(texts[i], 60))
	}

	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	return lines, nil
}

func snippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
