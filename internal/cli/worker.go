package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huegrid/internal/worker"
)

// workerCmd serves the engine to a host process over go-plugin. It is
// launched by --isolated and refuses to run from a terminal.
var workerCmd = &cobra.Command{
	Use:    worker.WorkerCommand,
	Short:  "Serve the palette engine to a host process",
	Hidden: true,
	Args:   cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		level := hclog.Info
		if globalVerbose {
			level = hclog.Debug
		}
		// go-plugin forwards the worker's stderr to the host as JSON logs.
		worker.Serve(hclog.New(&hclog.LoggerOptions{
			Name:       "huegrid-worker",
			Level:      level,
			JSONFormat: true,
		}))
	},
}
