package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/compozy/tagflat/engine/rewrite"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
	"github.com/spf13/afero"
)

const (
	DefaultDebounce = 200 * time.Millisecond
	DefaultMaxWait  = 2 * time.Second
)

// ignoredDirs contains directories that are never watched
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".next":        true,
	".nuxt":        true,
	".cache":       true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// Runner is the part of rewrite.Processor the watcher depends on.
type Runner interface {
	Run(ctx context.Context, paths []string) (*rewrite.Report, error)
	Supported(path string) bool
	Excluded(root, path string) bool
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	MaxWait  time.Duration
	// OnReport receives the report of every pass, including the first one.
	OnReport func(*rewrite.Report)
}

// Watcher re-flattens files as they change.
type Watcher struct {
	runner  Runner
	opts    Options
	fs      afero.Fs
	roots   []string
	mu      sync.Mutex
	pending map[string]struct{}
	runMu   sync.Mutex
}

// New creates a Watcher.
func New(runner Runner, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxWait < opts.Debounce {
		opts.MaxWait = max(DefaultMaxWait, opts.Debounce)
	}
	return &Watcher{
		runner:  runner,
		opts:    opts,
		fs:      afero.NewOsFs(),
		pending: make(map[string]struct{}),
	}
}

// Run flattens paths once and then keeps watching them until ctx is done.
func (w *Watcher) Run(ctx context.Context, paths []string) error {
	log := logger.FromContext(ctx)
	if err := w.pass(ctx, paths); err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()
	w.roots = w.roots[:0]
	dirs := 0
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		w.roots = append(w.roots, abs)
		n, err := w.addTree(ctx, fsw, abs)
		if err != nil {
			log.Warn("Failed to watch path", "path", path, "error", err)
			continue
		}
		dirs += n
	}
	if dirs == 0 {
		return errors.New("nothing to watch")
	}
	log.Info("Watching for changes", "directories", dirs, "debounce", w.opts.Debounce)

	flush, cancel := debounce.NewWithMaxWait(w.opts.Debounce, w.opts.MaxWait, func() {
		w.flush(ctx)
	})
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			log.Info("Context canceled, stopping file watcher")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.isNewDir(event) {
				if _, err := w.addTree(ctx, fsw, event.Name); err != nil {
					log.Warn("Failed to watch directory", "path", event.Name, "error", err)
				}
				continue
			}
			if w.queue(event) {
				log.Debug("Detected file change, debouncing", "file", event.Name)
				flush()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// addTree watches dir and its subdirectories, or the parent directory of a
// file. It returns the number of directories added.
func (w *Watcher) addTree(ctx context.Context, fsw *fsnotify.Watcher, path string) (int, error) {
	info, err := w.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 1, fsw.Add(filepath.Dir(path))
	}
	added := 0
	err = afero.Walk(w.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if p != path && (ignoredDirs[info.Name()] || w.excluded(p)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			logger.FromContext(ctx).Warn("Failed to watch directory", "path", p, "error", err)
			return nil
		}
		added++
		return nil
	})
	return added, err
}

func (w *Watcher) isNewDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || ignoredDirs[filepath.Base(event.Name)] || w.excluded(event.Name) {
		return false
	}
	info, err := w.fs.Stat(event.Name)
	return err == nil && info.IsDir()
}

// queue records a change to a supported file under one of the roots.
func (w *Watcher) queue(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if !w.runner.Supported(event.Name) || !w.underRoot(event.Name) || w.excluded(event.Name) {
		return false
	}
	w.mu.Lock()
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()
	return true
}

func (w *Watcher) underRoot(path string) bool {
	_, ok := w.rootOf(path)
	return ok
}

// rootOf returns the watched root containing path.
func (w *Watcher) rootOf(path string) (string, bool) {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

// excluded applies the walk exclude patterns relative to the root holding
// path. A root named explicitly is never excluded.
func (w *Watcher) excluded(path string) bool {
	root, ok := w.rootOf(path)
	if !ok || root == path {
		return false
	}
	return w.runner.Excluded(root, path)
}

// drain empties the pending set and returns its paths in sorted order.
func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.pending))
	for path := range w.pending {
		files = append(files, path)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(files)
	return files
}

func (w *Watcher) flush(ctx context.Context) {
	files := w.drain()
	if len(files) == 0 || ctx.Err() != nil {
		return
	}
	if err := w.pass(ctx, files); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Error("Failed to flatten changed files", "error", err)
	}
}

// pass runs one batch; batches never overlap.
func (w *Watcher) pass(ctx context.Context, paths []string) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	report, err := w.runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	if w.opts.OnReport != nil {
		w.opts.OnReport(report)
	}
	return nil
}
