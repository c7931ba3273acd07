package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huegrid/internal/colour"
	"github.com/jmylchreest/huegrid/internal/config"
	"github.com/jmylchreest/huegrid/internal/engine"
	"github.com/jmylchreest/huegrid/internal/palette"
	"github.com/jmylchreest/huegrid/internal/scheduler"
	"github.com/jmylchreest/huegrid/internal/store"
	"github.com/jmylchreest/huegrid/internal/worker"
)

var (
	watchConfig   string
	watchFormat   = newChoiceValue(formatTable, formatTable, formatJSON, formatCSS)
	watchInterval time.Duration
	watchIsolated bool
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute a palette grid whenever its file changes",
	Long: `Watch a palette file and reprint the grid after every change.

Only the levels an edit affects are recomputed. Bursts of saves are
coalesced; moving the background split is batched over a longer window so
a series of moves costs one computation.

Examples:
  huegrid watch
  huegrid watch -c palette.toml --interval 100ms`,
	RunE: runWatch,
}

func init() {
	addConfigFlag(watchCmd.Flags(), &watchConfig)
	watchCmd.Flags().VarP(watchFormat, "format", "f", "output format (table, json, css)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 250*time.Millisecond, "file polling interval")
	addIsolatedFlag(watchCmd.Flags(), &watchIsolated)
}

// watcher reloads a palette file and schedules the affected levels.
//
// Direct edits go through the fast path, which keeps only the latest subset
// of a burst, so they are diffed against baseline: the palette as of the
// last fast-path dispatch. Split moves go through the accumulating path,
// which unions its subsets, so they are diffed against the previous poll.
type watcher struct {
	path   string
	out    io.Writer
	format string
	logger hclog.Logger

	mu       sync.Mutex
	printMu  sync.Mutex
	current  *palette.Palette
	baseline *palette.Palette
	modTime  time.Time

	grid    *store.Grid
	edits   *scheduler.Scheduler
	splits  *scheduler.Scheduler
	session *worker.Session
}

func newWatcher(path string, p *palette.Palette, modTime time.Time, ch worker.Channel, metrics *worker.Metrics,
	out io.Writer, format string, cfg scheduler.Config, logger hclog.Logger) *watcher {
	w := &watcher{
		path:    path,
		out:     out,
		format:  format,
		logger:  logger,
		current: p,
		modTime: modTime,
		grid:    store.New(),
	}
	w.session = worker.NewSession(ch, w.grid, w.request, metrics, logger.Named("session"))
	w.session.OnRun = w.print

	cfg.Logger = logger.Named("scheduler")
	w.edits = scheduler.New(scheduler.NewPending(), w.dispatchEdits, cfg)
	w.splits = scheduler.New(scheduler.NewPending(), w.session.Dispatch, cfg)
	return w
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	p, path, err := loadPalette(watchConfig)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	ch, err := openChannel(watchIsolated, logger)
	if err != nil {
		return err
	}
	defer ch.Close()

	metrics, flushMetrics := newMetrics(cmd.Context(), logger)
	defer flushMetrics()

	w := newWatcher(path, p, info.ModTime(), ch, metrics, cmd.OutOrStdout(), watchFormat.String(), scheduler.Config{}, logger)
	defer w.stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching palette", "path", path)
	w.start()
	w.poll(ctx, watchInterval)
	return w.session.Wait()
}

// start schedules the initial computation of every level.
func (w *watcher) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.edits.Recalc(engine.All)
}

func (w *watcher) stop() {
	w.edits.Stop()
	w.splits.Stop()
}

// flush dispatches pending bursts at once.
func (w *watcher) flush() {
	w.edits.Flush()
	w.splits.Flush()
}

// request snapshots the current palette for a run.
func (w *watcher) request(subset engine.Subset) engine.Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current.Request(subset)
}

func (w *watcher) dispatchEdits(subset engine.Subset) {
	w.mu.Lock()
	w.baseline = w.current
	w.mu.Unlock()
	w.session.Dispatch(subset)
}

func (w *watcher) poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check reloads the palette if the file changed and schedules the levels
// the edit affects.
func (w *watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn("cannot stat palette", "path", w.path, "error", err)
		return
	}
	if info.ModTime().Equal(w.modTime) {
		return
	}
	w.modTime = info.ModTime()

	next, err := config.Load(w.path)
	if err == nil {
		err = next.Validate()
	}
	if err != nil {
		w.logger.Error("palette not reloaded", "error", err)
		return
	}

	w.grid.Prune(next.LevelIDs(), next.HueIDs())

	w.mu.Lock()
	prev := w.current
	w.current = next
	if palette.SplitOnly(prev, next) {
		w.splits.RecalcAccumulated(palette.Changed(prev, next))
		w.mu.Unlock()
		return
	}

	changed := engine.All
	if w.baseline != nil {
		changed = palette.Changed(w.baseline, next)
	}
	if changed.IsAll() || len(changed) > 0 {
		w.edits.Recalc(changed)
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	// Removals and renames need no computation, only a fresh print.
	if !slices.Equal(prev.LevelIDs(), next.LevelIDs()) || !slices.Equal(prev.HueIDs(), next.HueIDs()) ||
		palette.Relabelled(prev, next) {
		w.print(nil)
	}
}

func (w *watcher) print(err error) {
	if err != nil {
		return
	}
	w.mu.Lock()
	p := w.current.Clone()
	w.mu.Unlock()

	w.printMu.Lock()
	defer w.printMu.Unlock()
	preview := w.format == formatTable && colour.SupportsANSIColours()
	if preview {
		fmt.Fprint(w.out, "\033[H\033[2J")
	}
	if err := writeResult(w.out, w.format, p, w.grid, preview); err != nil {
		w.logger.Error("failed to print grid", "error", err)
	}
}
