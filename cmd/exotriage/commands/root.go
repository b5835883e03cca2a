package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	catalogPath string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "exotriage",
	Short: "exotriage - exoplanet candidate triage backend",
	Long: `exotriage unified CLI

Two-stage candidate-evaluation pipeline for the exoplanet exploration
dashboard: broad screening (ESI + signal plausibility) and targeted
refinement (atmosphere inference + habitability), with deterministic
seeded scoring.

Usage:
  go run ./cmd/exotriage [command]

Examples:
  go run ./cmd/exotriage api
  go run ./cmd/exotriage run
  go run ./cmd/exotriage catalog`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "evaluation profile YAML (default: embedded profile)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "candidate catalog JSON (default: embedded catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
