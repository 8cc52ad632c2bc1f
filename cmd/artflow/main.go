// Package main provides the CLI entry point for artflow-go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackms/artflow-go/cmd/artflow/commands"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "artflow",
	Short: "ArtFlow - adaptive resonance pattern-learning engines",
	Long: `ArtFlow is a toolkit for adaptive resonance theory (ART) pattern learning.

It provides:
  - Unsupervised category formation with vigilance-gated search
  - Supervised ARTMAP learning with match tracking
  - Pluggable learning rules (fuzzy ART, Hebbian, BCM, instar-outstar, gradient hybrid)
  - Batched, pooled processing for allocation-light training loops
  - SQLite snapshot storage for trained category sets`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(commands.TrainCmd)
	rootCmd.AddCommand(commands.PredictCmd)
	rootCmd.AddCommand(commands.BenchmarkCmd)
	rootCmd.AddCommand(commands.StoreCmd)
}
