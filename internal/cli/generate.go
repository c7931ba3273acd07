package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/store"
	"github.com/jmylchreest/huegrid/internal/worker"
)

var (
	generateConfig   string
	generateFormat   = newChoiceValue(formatTable, formatTable, formatJSON, formatCSS)
	generatePreview  bool
	generateIsolated bool
	generateOnly     []string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compute a palette grid and print it",
	Long: `Compute every cell of a palette grid and print the result.

Each level is a contrast target; each hue is an OKLCH hue angle. A cell is
the colour of that hue which reaches the level's contrast against the
palette background. Hex values marked with * fall outside sRGB.

Examples:
  # Print the grid for ./huegrid.yaml
  huegrid generate

  # Coloured preview in the terminal
  huegrid generate -c themes/mocha.toml --preview

  # CSS custom properties
  huegrid generate -f css > palette.css

  # Recompute two levels only, in a separate worker process
  huegrid generate --only body,muted --isolated -f json`,
	RunE: runGenerate,
}

func init() {
	addConfigFlag(generateCmd.Flags(), &generateConfig)
	generateCmd.Flags().VarP(generateFormat, "format", "f", "output format (table, json, css)")
	generateCmd.Flags().BoolVar(&generatePreview, "preview", false, "draw table entries as colour swatches")
	addIsolatedFlag(generateCmd.Flags(), &generateIsolated)
	generateCmd.Flags().StringSliceVar(&generateOnly, "only", nil, "compute only these level IDs (comma-separated)")
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, path, err := loadPalette(generateConfig)
	if err != nil {
		return err
	}
	logger.Debug("palette loaded", "path", path, "levels", len(p.Levels), "hues", len(p.Hues))

	subset := engine.All
	if cmd.Flags().Changed("only") {
		subset = engine.Subset(generateOnly)
	}

	ch, err := openChannel(generateIsolated, logger)
	if err != nil {
		return err
	}
	defer ch.Close()

	metrics, flushMetrics := newMetrics(cmd.Context(), logger)
	defer flushMetrics()

	grid := store.New()
	session := worker.NewSession(ch, grid, p.Request, metrics, logger.Named("session"))
	if err := session.Compute(subset); err != nil {
		return fmt.Errorf("failed to compute grid: %w", err)
	}

	preview := generatePreview && colour.SupportsANSIColours()
	if generatePreview && !preview {
		logger.Debug("preview disabled: stdout is not a colour terminal")
	}
	return writeResult(cmd.OutOrStdout(), generateFormat.String(), p, grid, preview)
}
