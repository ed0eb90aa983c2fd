package loader

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/papapumpkin/atlas/internal/viewstate"
)

// WatchDebounce is how long a data file must stay quiet before a change is
// reported.
const WatchDebounce = 100 * time.Millisecond

// Change reports a data document that was written, created or removed.
type Change struct {
	File string
}

// Watcher monitors a data directory for changes to the collection documents.
type Watcher struct {
	Dir     string
	Changes <-chan Change

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewWatcher creates a watcher for dir. Call Start to begin watching.
func NewWatcher(dir string, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ch := make(chan Change, 16)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
		logger:  logger,
	}, nil
}

// Start begins watching the directory. On error the watcher is closed and
// must not be stopped.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		w.watcher.Close()
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher, waits for the loop to exit and closes Changes.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(WatchDebounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file := range pending {
					w.emit(file)
				}
				return
			}
			if !isDataFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) >= WatchDebounce {
					w.emit(file)
					delete(pending, file)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("data watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) emit(file string) {
	select {
	case w.changes <- Change{File: file}:
	default:
		// A reload is already queued; it will pick this change up too.
	}
}

func isDataFile(name string) bool {
	base := filepath.Base(name)
	for _, names := range documents {
		for _, n := range names {
			if base == n {
				return true
			}
		}
	}
	return false
}

// Reload loads src and replaces the store's collections each time the
// watcher reports a change, until ctx is done or Changes is closed.
func Reload(ctx context.Context, w *Watcher, src Source, store *viewstate.Store, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-w.Changes:
			if !ok {
				return
			}
			logger.Info("data changed, reloading", zap.String("file", ch.File))
			res := Load(ctx, src, logger)
			store.SetCollections(res.Data)
		}
	}
}
