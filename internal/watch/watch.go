// Package watch recompiles templates when they change on disk.
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

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/hbs2jsx/internal/config"
)

// DefaultDelay groups bursts of writes, such as an editor saving through a
// temporary file, into one batch.
const DefaultDelay = 100 * time.Millisecond

// Handler receives the templates changed since the last call, in sorted
// order. Calls never overlap.
type Handler func(ctx context.Context, paths []string)

type Watcher struct {
	watcher *fsnotify.Watcher
	roots   []string
	cfg     config.Config
	logger  *zap.Logger
	delay   time.Duration

	mu      sync.Mutex
	pending map[string]struct{}

	handlerMu sync.Mutex
}

// New watches every directory below roots. Templates are selected with the
// include and exclude globs of cfg, relative to their root.
func New(roots []string, cfg config.Config, delay time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		cfg:     cfg,
		logger:  logger,
		delay:   delay,
		pending: make(map[string]struct{}),
	}
	for _, root := range roots {
		root = filepath.Clean(root)
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
		w.roots = append(w.roots, root)
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run dispatches changes to handler until ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	debounced := debounce.New(w.delay)
	flush := func() { w.flush(ctx, handler) }

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				debounced(flush)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// handleEvent records a changed template and reports whether a flush is due.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				w.logger.Error("Error watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}
	if !w.matches(event.Name) {
		return false
	}

	w.logger.Debug("Template changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
	w.mu.Lock()
	w.pending[filepath.Clean(event.Name)] = struct{}{}
	w.mu.Unlock()
	return true
}

func (w *Watcher) matches(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if w.cfg.Match(rel) {
			return true
		}
	}
	return false
}

func (w *Watcher) flush(ctx context.Context, handler Handler) {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(paths)

	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	handler(ctx, paths)
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
