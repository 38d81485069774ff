package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of filesystem events into one change
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls onChange when apps appear in or disappear from the apps dir.
// It watches the apps dir and its direct subdirectories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger

	startOnce sync.Once
	closeOnce sync.Once
	fswOnce   sync.Once
	fswErr    error
	done      chan struct{}
	started   atomic.Bool
}

// NewWatcher creates a watcher for dir. The directory must exist.
func NewWatcher(dir string, debounce time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.addSubdirs()

	return w, nil
}

// addSubdirs watches every direct subdirectory so marker files created inside
// an existing app directory are noticed
func (w *Watcher) addSubdirs() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("Failed to list apps directory", zap.String("dir", w.dir), zap.Error(err))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addDir(filepath.Join(w.dir, e.Name()))
		}
	}
}

func (w *Watcher) addDir(path string) {
	if err := w.fsw.Add(path); err != nil {
		w.logger.Debug("Failed to watch directory", zap.String("dir", path), zap.Error(err))
	}
}

// Start begins watching in the background until ctx is done or Close is called.
// Cancelling ctx releases the underlying fsnotify watcher.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.started.Store(true)
		go w.run(ctx)
	})
}

// Close stops the watcher and waits for the background loop to exit
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.closeFsw()
		if w.started.Load() {
			<-w.done
		}
	})
	return err
}

func (w *Watcher) closeFsw() error {
	w.fswOnce.Do(func() {
		w.fswErr = w.fsw.Close()
	})
	return w.fswErr
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if err := w.closeFsw(); err != nil {
				w.logger.Debug("Failed to close watcher", zap.Error(err))
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == w.dir {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addDir(ev.Name)
				}
			}
			w.logger.Debug("Apps directory changed", zap.String("event", ev.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if w.onChange != nil {
				w.onChange()
			}
		}
	}
}
