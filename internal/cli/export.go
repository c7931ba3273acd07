package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/store"
	"github.com/jmylchreest/huegrid/internal/swatch"
	"github.com/jmylchreest/huegrid/internal/worker"
)

var (
	exportConfig   string
	exportOutput   string
	exportCellSize int
	exportIsolated bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a palette grid to an image",
	Long: `Render a palette grid to an image file.

The first row holds level tints and the first column hue tints. Each level
column is drawn on its own background, so split palettes show both.
The format follows the output extension: .png, .bmp, .tif or .tiff.

Examples:
  huegrid export -o grid.png
  huegrid export -c palette.toml -o grid.tiff --cell 64`,
	RunE: runExport,
}

func init() {
	addConfigFlag(exportCmd.Flags(), &exportConfig)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "image file to write (required)")
	exportCmd.Flags().IntVar(&exportCellSize, "cell", swatch.DefaultCellSize, "swatch size in pixels")
	addIsolatedFlag(exportCmd.Flags(), &exportIsolated)
	_ = exportCmd.MarkFlagRequired("output")
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, _, err := loadPalette(exportConfig)
	if err != nil {
		return err
	}

	ch, err := openChannel(exportIsolated, logger)
	if err != nil {
		return err
	}
	defer ch.Close()

	metrics, flushMetrics := newMetrics(cmd.Context(), logger)
	defer flushMetrics()

	grid := store.New()
	session := worker.NewSession(ch, grid, p.Request, metrics, logger.Named("session"))
	if err := session.Compute(engine.All); err != nil {
		return fmt.Errorf("failed to compute grid: %w", err)
	}

	if err := swatch.WriteFile(exportOutput, p, grid, swatch.Options{CellSize: exportCellSize}); err != nil {
		return err
	}
	logger.Info("grid exported", "path", exportOutput)
	return nil
}
