package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cohergraph",
	Short: "Cohergraph - discourse coherence scoring for paragraphs",
	Long: `Cohergraph evaluates how coherently a paragraph reads.

It segments text into sentences, embeds them, builds a weighted
similarity graph enriched with discourse and syntactic signals, and
reports a coherence score together with the sentence transitions that
disrupt the flow.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cohergraph v1.0.0")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and initializes logging for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, "console", "stderr"); err != nil {
		return nil, err
	}

	return cfg, nil
}
