package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/internal/profile"
	"github.com/skyfield/exotriage/pkg/config"
	"github.com/skyfield/exotriage/pkg/logger"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline pass and print the results",
	Long: `Run the full two-stage pipeline over the catalog once.

Thresholds default to the evaluation profile and can be overridden per gate.

Example:
  go run ./cmd/exotriage run
  go run ./cmd/exotriage run --esi 0.9 --habitability 0.7
  go run ./cmd/exotriage run --json`,
	RunE: runPipelineOnce,
}

var (
	runESI          float64
	runSignal       float64
	runHabitability float64
	runJSON         bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64Var(&runESI, "esi", -1, "ESI threshold override [0,1]")
	runCmd.Flags().Float64Var(&runSignal, "signal", -1, "signal threshold override [0,1]")
	runCmd.Flags().Float64Var(&runHabitability, "habitability", -1, "habitability threshold override [0,1]")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the full run result as JSON")
}

func runPipelineOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyGlobalFlags(cfg)

	log := logger.New(cfg)

	cat, err := catalog.NewLoader(log).Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	thresholds, err := overrideThresholds(prof.Thresholds)
	if err != nil {
		return err
	}

	orch, err := pipeline.NewOrchestrator(cat, prof, log)
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}

	result, err := orch.Run(cmd.Context(), thresholds)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printRunResult(result)
	return nil
}

// overrideThresholds applies the per-gate flag overrides.
func overrideThresholds(base contracts.ThresholdSet) (contracts.ThresholdSet, error) {
	var err error
	if runESI >= 0 {
		if base, err = base.With(contracts.ThresholdESI, runESI); err != nil {
			return base, err
		}
	}
	if runSignal >= 0 {
		if base, err = base.With(contracts.ThresholdSignal, runSignal); err != nil {
			return base, err
		}
	}
	if runHabitability >= 0 {
		if base, err = base.With(contracts.ThresholdHabitability, runHabitability); err != nil {
			return base, err
		}
	}
	return base, nil
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Printf("Run %s (%.0fms)\n", result.RunID, float64(result.Duration.Milliseconds()))
	fmt.Printf("Thresholds: esi=%.2f signal=%.2f habitability=%.2f\n",
		result.Thresholds.ESI, result.Thresholds.Signal, result.Thresholds.Habitability)
	fmt.Printf("Candidates: %d total, %d passed S1, %d shortlisted\n\n",
		result.Summary.Total, result.Summary.Stage1Passed, result.Summary.Shortlisted)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tESI\tSIGNAL\tHABITABILITY")
	for _, e := range result.Results {
		a := e.Analysis
		hab := "-"
		if a.Stage2.Status == contracts.Stage2Evaluated {
			hab = fmt.Sprintf("%.3f", a.Stage2.HabitabilityLikelihood)
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%s\n",
			e.Candidate.Name, a.State(), a.Stage1.ESI.Aggregate, a.Stage1.SignalScore, hab)
	}
	w.Flush()

	fmt.Printf("\nFingerprint: %s\n", result.Fingerprint)
}
