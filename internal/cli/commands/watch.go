package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/internal/cli/config"
	"github.com/leapstack-labs/tsqlscript/internal/cli/output"
	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/tsql"
)

// defaultDebounce is how long a file must be quiet before it is checked.
const defaultDebounce = 100 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Write    bool
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <paths...>",
		Short: "Validate or format scripts as they change",
		Long: `Watch files and directories for changes to .sql files.

Each changed script is validated and its diagnostics reported. With --write
valid scripts are also rewritten in canonical layout. Press Ctrl+C to stop.`,
		Example: `  # Report syntax errors while editing
  tsqlscript watch ./sql

  # Keep scripts formatted
  tsqlscript watch --write --keyword-casing lower ./sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite changed scripts in canonical layout")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", defaultDebounce, "Quiet period before a changed file is checked")
	config.AddStyleFlags(cmd.Flags())

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := newScriptWatcher(cmdCtx, opts)
	return w.run(ctx, args)
}

// scriptWatcher checks .sql files after they are written.
type scriptWatcher struct {
	c        *CommandContext
	write    bool
	debounce time.Duration

	ready chan struct{} // closed once every path is watched

	mu     sync.Mutex // guards timers and serializes output
	timers map[string]*time.Timer
	files  map[string]bool // explicitly named files; empty means any .sql file
}

func newScriptWatcher(c *CommandContext, opts *WatchOptions) *scriptWatcher {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &scriptWatcher{
		c:        c,
		write:    opts.Write,
		debounce: debounce,
		ready:    make(chan struct{}),
		timers:   make(map[string]*time.Timer),
		files:    make(map[string]bool),
	}
}

// run watches paths until ctx is done.
func (w *scriptWatcher) run(ctx context.Context, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, path := range paths {
		if err := w.add(watcher, path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}
	close(w.ready)

	w.c.Logger.Info("watching for changes", "paths", strings.Join(paths, ", "), "write", w.write)
	w.c.Renderer.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", strings.Join(paths, ", ")))

	w.loop(ctx, watcher)

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return nil
}

// add watches a directory tree, or the directory holding a single file.
func (w *scriptWatcher) add(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func (w *scriptWatcher) wants(path string) bool {
	if !isSQLFile(path) {
		return false
	}
	return len(w.files) == 0 || w.files[filepath.Clean(path)]
}

// loop handles file system events.
func (w *scriptWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only handle write/create events for scripts
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.wants(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.c.Logger.Warn("watcher error", "error", err)
		}
	}
}

// schedule debounces checks of path.
func (w *scriptWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.check(path)
	})
}

// check validates path and, in write mode, rewrites it when its layout
// differs. Rewriting an already formatted file is a no-op, so the write
// event it causes settles on the next check.
func (w *scriptWatcher) check(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cfg := w.c.Cfg
	r := w.c.Renderer
	logger := w.c.Logger.With("path", path)

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the watched tree
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.Error(fmt.Sprintf("%s: %v", path, err))
		}
		return
	}
	content := string(data)

	if !w.write {
		ok, diags, err := tsql.Validate(content, cfg.Dialect, cfg.QuotedIdentifierOff)
		if err != nil {
			r.Error(err.Error())
			return
		}
		logger.Debug("validated", "valid", ok)
		w.report(path, ok, diags)
		return
	}

	formatted, err := tsql.Format(content, cfg.Dialect, cfg.QuotedIdentifierOff, cfg.Style)
	if err != nil {
		var diagErr *core.DiagnosticError
		if errors.As(err, &diagErr) {
			w.report(path, false, diagErr.Diagnostics)
			return
		}
		r.Error(err.Error())
		return
	}
	formatted = withTrailingNewline(formatted)
	if formatted == content {
		logger.Debug("already formatted")
		return
	}
	if err := writeFilePreservingMode(path, formatted); err != nil {
		r.Error(err.Error())
		return
	}
	logger.Debug("formatted file")
	r.StatusLine(path, output.StatusChanged, "")
}

func (w *scriptWatcher) report(path string, ok bool, diags core.Diagnostics) {
	r := w.c.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(output.ValidateFileResult{Path: path, Valid: ok, Diagnostics: toDiagnosticOutputs(diags)})
		return
	}
	if ok {
		r.StatusLine(path, output.StatusOK, "")
		return
	}
	r.StatusLine(path, output.StatusInvalid, fmt.Sprintf("%d diagnostics", len(diags)))
	renderDiagnostics(r, "", diags)
}
