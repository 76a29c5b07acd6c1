// Package watch reloads the site when configuration or content files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrPathsRequired indicates a watcher with nothing to watch.
	ErrPathsRequired = errors.New("watch: at least one path is required")
	// ErrReloadRequired indicates a watcher without a reload callback.
	ErrReloadRequired = errors.New("watch: reload callback is required")
)

const defaultDebounce = 200 * time.Millisecond

// ReloadFunc is invoked once per settled batch of changes with the sorted
// list of changed paths.
type ReloadFunc func(ctx context.Context, changed []string) error

// Config selects what to watch.
type Config struct {
	// Paths lists files and directories. Directories are watched
	// recursively; files are watched through their parent directory so
	// editors that replace files on save are still observed.
	Paths    []string
	Debounce time.Duration
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher batches filesystem events and triggers a reload once they settle.
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	reload   ReloadFunc
	logger   interfaces.Logger

	mu    sync.RWMutex
	stats Stats
}

// New validates cfg and returns a watcher. Paths are made absolute.
func New(cfg Config, reload ReloadFunc, logger interfaces.Logger) (*Watcher, error) {
	if reload == nil {
		return nil, ErrReloadRequired
	}
	w := &Watcher{
		files:    map[string]struct{}{},
		debounce: cfg.Debounce,
		reload:   reload,
		logger:   logging.OrNoOp(logger),
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	for _, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch: stat %s: %w", p, err)
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
		} else {
			w.files[abs] = struct{}{}
		}
	}
	if len(w.files) == 0 && len(w.dirs) == 0 {
		return nil, ErrPathsRequired
	}
	return w, nil
}

// Run watches until ctx is cancelled. Reload failures are logged and
// counted; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.register(fsw); err != nil {
		return err
	}
	w.logger.Info("watch.started", "files", len(w.files), "dirs", len(w.dirs), "debounce", w.debounce)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]struct{}{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.follow(fsw, event.Name)
			}
			pending[event.Name] = struct{}{}
			w.recordEvent(event.Name)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch.error", "error", err)
			w.recordError()

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			sort.Strings(changed)
			w.runReload(ctx, changed)
		}
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) register(fsw *fsnotify.Watcher) error {
	parents := map[string]struct{}{}
	for file := range w.files {
		parents[filepath.Dir(file)] = struct{}{}
	}
	for dir := range parents {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	for _, dir := range w.dirs {
		if err := addTree(fsw, dir); err != nil {
			return err
		}
	}
	return nil
}

// follow starts watching directories created below a watched tree.
func (w *Watcher) follow(fsw *fsnotify.Watcher, name string) {
	if !w.underDir(name) {
		return
	}
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := addTree(fsw, name); err != nil {
		w.logger.Warn("watch.follow.failed", "path", name, "error", err)
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if _, ok := w.files[event.Name]; ok {
		return true
	}
	return w.underDir(event.Name)
}

func (w *Watcher) underDir(name string) bool {
	for _, dir := range w.dirs {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) runReload(ctx context.Context, changed []string) {
	w.logger.Info("watch.reload.started", "changed", changed)
	start := time.Now()
	err := w.reload(ctx, changed)

	w.mu.Lock()
	w.stats.Reloads++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("watch.reload.failed", "error", err, "changed", changed)
		return
	}
	w.logger.Info("watch.reload.completed", "duration", time.Since(start))
}

func (w *Watcher) recordEvent(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Events++
	w.stats.LastEventPath = name
	w.stats.LastEventTime = time.Now()
}

func (w *Watcher) recordError() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Errors++
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch: add %s: %w", p, err)
		}
		return nil
	})
}
