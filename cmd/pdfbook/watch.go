package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-pdfbook/internal/config"
	"github.com/alnah/go-pdfbook/internal/fileutil"
	"github.com/alnah/go-pdfbook/internal/manifest"
)

// watchDebounce collapses bursts of events, such as a renderer rewriting
// its output in several writes.
const watchDebounce = 300 * time.Millisecond

// bookWatcher maps watched files to the manifests that depend on them.
type bookWatcher struct {
	fs     *fsnotify.Watcher
	logger *slog.Logger

	mu    sync.Mutex
	deps  map[string][]string // file -> manifests
	dirs  map[string]bool
	dirty map[string]bool
}

func newBookWatcher(logger *slog.Logger) (*bookWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &bookWatcher{
		fs:     w,
		logger: logger,
		deps:   make(map[string][]string),
		dirs:   make(map[string]bool),
		dirty:  make(map[string]bool),
	}, nil
}

func (w *bookWatcher) Close() error { return w.fs.Close() }

// track registers the files manifestPath depends on: the manifest itself,
// its input PDF and its cover asset. Parent directories are watched, which
// survives editors that replace files on save.
func (w *bookWatcher) track(manifestPath string, opts manifest.Options) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		abs = manifestPath
	}
	files := []string{abs}

	// A manifest that does not load yet is still watched for fixes.
	if m, err := manifest.Load(manifestPath, opts); err == nil {
		files = append(files, m.Input)
		if m.Cover != nil {
			if cover, ok, err := fileutil.AssetPath(m.Cover.Src, m.ContentRoot); err == nil && ok {
				files = append(files, cover)
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		f = filepath.Clean(f)
		if !contains(w.deps[f], manifestPath) {
			w.deps[f] = append(w.deps[f], manifestPath)
		}
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = true
	}
}

// mark records the manifests affected by an event and reports whether any were.
func (w *bookWatcher) mark(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	manifests := w.deps[filepath.Clean(event.Name)]
	for _, m := range manifests {
		w.dirty[m] = true
	}
	return len(manifests) > 0
}

// drain returns the dirty manifests in a stable order and resets the set.
func (w *bookWatcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.dirty))
	for m := range w.dirty {
		out = append(out, m)
	}
	clear(w.dirty)
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// runWatch processes the manifests once, then again whenever one of their
// files changes, until ctx ends.
func runWatch(ctx context.Context, proc DocumentProcessor, manifests []string, cfg *config.Config,
	params *jobParams, flags *processFlags, env *Environment, logger *slog.Logger, sink *metricsSink,
) error {
	w, err := newBookWatcher(logger)
	if err != nil {
		return err
	}
	defer w.Close()

	process := func(batch []string) {
		results := runBatch(ctx, proc, batch, cfg.Workers, params)
		printResults(results, flags.common.quiet, flags.common.verbose, env, params.hint)
		if err := sink.flush(); err != nil {
			fmt.Fprintf(env.Stderr, "warning: writing metrics: %v\n", err)
		}
		// Paths may have moved in an edited manifest.
		for _, m := range batch {
			w.track(m, params.overrides)
		}
	}

	process(manifests)
	logger.Info("watching for changes", "manifests", len(manifests))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch stopped")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.mark(event) {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if batch := w.drain(); len(batch) > 0 {
				process(batch)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
