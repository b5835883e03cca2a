package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/pkg/config"
	"github.com/skyfield/exotriage/pkg/logger"
)

// catalogCmd represents the catalog command.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List and validate the candidate catalog",
	Long: `Load the candidate catalog, validate every record, and print it.

Example:
  go run ./cmd/exotriage catalog
  go run ./cmd/exotriage catalog --catalog ./my-catalog.json`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Catalog OK: %d candidates\n\n", cat.Count())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS(R⊕)\tFLUX(F⊕)\tPERIOD(d)\tYEAR\tMETHOD")
	for _, r := range cat.Records() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			fmtFloat(r.RadiusEarth),
			fmtFloat(r.InsolationFlux),
			fmtFloat(r.PeriodDays),
			fmtYear(r.DiscoveryYear),
			r.DiscoveryMethod,
		)
	}
	return w.Flush()
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtYear(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}
