// Package cli provides the command-line interface for huegrid.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huegrid/internal/version"
)

var (
	globalVerbose bool
	globalQuiet   bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "huegrid",
		Short: "Contrast-driven palette generator",
		Long: `huegrid builds accessible colour palettes from a grid of contrast levels and
hues. Every cell is solved in OKLCH to hit its contrast target against the
palette background, under APCA or WCAG 2, for Display P3 or sRGB.

Palettes are described in a YAML, TOML or JSON file (huegrid.yaml by
default) and can be printed, exported as an image, or watched for changes.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(workerCmd)
}

// newLogger builds the process logger from the global flags.
func newLogger() hclog.Logger {
	level := hclog.Info
	switch {
	case globalVerbose:
		level = hclog.Debug
	case globalQuiet:
		level = hclog.Error
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "huegrid",
		Output: os.Stderr,
		Level:  level,
	})
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}
