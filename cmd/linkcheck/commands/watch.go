package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "github.com/sanzoku-labs/linkcheck/internal/docs/errors"
	"github.com/sanzoku-labs/linkcheck/internal/linkverify"
	"github.com/sanzoku-labs/linkcheck/internal/logfields"
	"github.com/sanzoku-labs/linkcheck/internal/report"
)

// WatchCmd implements the 'watch' command: an initial validation pass, then
// a rescan on every docs-tree change. Interrupt exits 0 regardless of
// findings; watch is a feedback loop, not a gate.
type WatchCmd struct {
	DocsRoot     string        `short:"d" name:"docs-root" default:"docs" help:"Path to the docs tree to watch"`
	Report       string        `short:"o" name:"report" default:"dead_links_report.md" help:"Report output path"`
	SkipExternal bool          `name:"skip-external" help:"Do not probe external URLs (network-free runs)"`
	Timeout      time.Duration `name:"timeout" default:"10s" help:"Per-request timeout for external URL probes"`
	Workers      int           `name:"workers" default:"4" help:"Concurrent external URL probes"`
	JSON         bool          `name:"json" help:"Also write a JSON report next to the markdown one"`
	HTML         bool          `name:"html" help:"Also write an HTML report next to the markdown one"`
	Debounce     time.Duration `name:"debounce" default:"300ms" help:"Quiet period before a change triggers a rescan"`
}

func (wc *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	opts, reportPath := resolveScan(cfg, wc.DocsRoot, wc.Report, wc.SkipExternal, wc.Timeout, wc.Workers)

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial pass. Startup failures are fatal; findings are not, the
	// watcher keeps running so edits can fix them.
	initial, err := runScan(sigctx, opts, reportPath, wc.JSON, wc.HTML)
	if err != nil {
		if errors.Is(err, derrors.ErrDocsRootNotFound) {
			return fmt.Errorf("docs directory %q not found", opts.DocsRoot)
		}
		return err
	}
	echoReport(report.Markdown(initial), reportPath, !initial.HasFindings())

	watcher, err := setupDocsWatcher(opts.DocsRoot)
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	rescan, trigger := newRescanDebouncer(wc.Debounce)
	go rescanLoop(sigctx, opts, reportPath, wc.JSON, wc.HTML, rescan, initial.DocsHash)

	slog.Info("Watching docs for changes",
		logfields.DocsRoot(opts.DocsRoot),
		slog.Duration("debounce", wc.Debounce))

	for {
		select {
		case <-sigctx.Done():
			slog.Info("Shutting down watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleDocsEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// rescanLoop serially runs one scan per coalesced request. The cap-1 rescan
// channel collapses bursts that arrive while a scan is in flight into a
// single followup run. An unchanged docs hash skips the console echo so an
// editor's save-noise does not spam the terminal.
func rescanLoop(ctx context.Context, opts linkverify.Options, reportPath string, jsonOut, htmlOut bool, rescan <-chan struct{}, lastHash string) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rescan:
			slog.Info("Change detected; rescanning docs", logfields.DocsRoot(opts.DocsRoot))
			result, err := runScan(ctx, opts, reportPath, jsonOut, htmlOut)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Warn("Rescan failed", logfields.Error(err))
				}
				continue
			}
			if result.DocsHash == lastHash {
				slog.Debug("Docs content unchanged since last scan")
				continue
			}
			lastHash = result.DocsHash
			echoReport(report.Markdown(result), reportPath, !result.HasFindings())
		}
	}
}

// setupDocsWatcher creates a recursive filesystem watcher over the docs tree.
func setupDocsWatcher(docsRoot string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, docsRoot); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// newRescanDebouncer returns the rescan channel and a trigger that resets a
// quiet-period timer on every call; only the last event of a burst fires.
func newRescanDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rescan := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rescan <- struct{}{}:
			default:
			}
		})
	}

	return rescan, trigger
}

// handleDocsEvent filters event noise, registers newly created directories,
// and schedules a rescan.
func handleDocsEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rescans: hidden files and editor temp/swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}
