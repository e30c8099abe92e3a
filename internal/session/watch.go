package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize session watcher")

// Change reports that the session file was written or removed by any process.
type Change struct {
	// Cleared is true when the session file no longer exists.
	Cleared bool
}

// Watcher observes a session file so a long-running dashboard notices a
// logout or 401 teardown done by another healthctl process.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan Change
	errs    chan error
}

// Watch starts watching the session file at path until ctx is done.
// The parent directory is watched so atomic renames and first creation are
// seen.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		changes: make(chan Change, 4),
		errs:    make(chan error, 1),
	}
	go w.run(ctx)
	return w, nil
}

// Changes delivers session changes. It is closed when watching stops.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Errors delivers watcher errors without blocking the watch loop.
func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			_, err := os.Stat(w.path)
			change := Change{Cleared: errors.Is(err, fs.ErrNotExist)}
			select {
			case w.changes <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
