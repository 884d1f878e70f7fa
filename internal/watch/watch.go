// Package watch reruns generation when input files change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/modelsite/internal/logfields"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Run.
type Options struct {
	// Paths are input files or directories. Files are watched through their
	// parent directory; directories recursively.
	Paths []string
	// Ignore lists directories whose events never trigger a rebuild, typically
	// the output directory.
	Ignore   []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches opts.Paths and calls rebuild after changes settle, until ctx is
// done. Rebuilds never overlap; changes during a rebuild queue one more.
func Run(ctx context.Context, opts Options, rebuild func(context.Context)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := setupFileWatcher(opts.Paths, logger)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	requests, trigger, stop := newDebouncer(debounce)
	defer stop()

	workerCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-requests:
				logger.Info("Change detected; regenerating site")
				rebuild(workerCtx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, opts.Ignore) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name, logger)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func setupFileWatcher(paths []string, logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	added := 0
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			logger.Warn("Cannot watch path", logfields.Path(p), logfields.Error(err))
			continue
		}
		if fi.IsDir() {
			added += addDirsRecursive(watcher, p, logger)
			continue
		}
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
			continue
		}
		added++
	}
	if added == 0 {
		_ = watcher.Close()
		return nil, fmt.Errorf("nothing to watch")
	}
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) int {
	added := 0
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
				return nil
			}
			added++
		}
		return nil
	})
	return added
}

// newDebouncer returns a request channel, a trigger that sends one request
// after calls have paused for d, and a stop function.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return requests, trigger, stop
}

// relevant reports whether ev should trigger a rebuild.
func relevant(ev fsnotify.Event, ignore []string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if shouldIgnoreEvent(ev.Name) {
		return false
	}
	for _, dir := range ignore {
		if isUnder(ev.Name, dir) {
			return false
		}
	}
	return true
}

// shouldIgnoreEvent returns true for hidden, swap and temporary files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	return false
}

func isUnder(path, dir string) bool {
	if dir == "" {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
