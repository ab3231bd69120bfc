// Package watch reports changes to scene files so the CLI can re-render.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrClosed is returned by Wait after Close
var ErrClosed = errors.New("watcher closed")

// Watcher watches a set of files. Editors often save by writing a new file and
// renaming it over the old one, so the parent directories are watched and
// events are filtered by file name.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	files   map[string]bool
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New starts watching files. logger may be nil.
func New(logger *zap.Logger, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		logger:  logger,
		files:   make(map[string]bool, len(files)),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", file, err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("scene file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			w.notify(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// notify records a pending change. Bursts of events collapse into one.
func (w *Watcher) notify(file string) {
	select {
	case w.changes <- file:
	default:
	}
}

// Changes delivers the name of a changed file. At most one change is pending at a time.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Wait blocks until a watched file changes, ctx is done or the watcher is closed.
// It returns the changed file.
func (w *Watcher) Wait(ctx context.Context) (string, error) {
	select {
	case file := <-w.changes:
		return file, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-w.done:
		return "", ErrClosed
	}
}

// Drain discards a pending change, if any
func (w *Watcher) Drain() {
	select {
	case <-w.changes:
	default:
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
