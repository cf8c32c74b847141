package library

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
)

// DefaultSettle is how long a file must stay quiet before the watcher
// imports it.
const DefaultSettle = 750 * time.Millisecond

// Watcher imports audio files dropped into watched directories.
type Watcher struct {
	library *Library
	fsw     *fsnotify.Watcher
	settle  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches dirs. Events are not delivered until Run.
func NewWatcher(library *Library, dirs []string, settle time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		library: library,
		fsw:     fsw,
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run delivers settled audio files to emit until ctx is cancelled. emit is
// called from timer goroutines.
func (w *Watcher) Run(ctx context.Context, emit func([]api.FileEntry)) error {
	defer w.stopPending()
	for {
		select {
		case <-ctx.Done():
			return w.fsw.Close()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			switch {
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				w.cancel(event.Name)
				w.library.Forget(event.Name)
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.schedule(event.Name, emit)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			zlog.Warn().Err(err).Msg("library: watch error")
		}
	}
}

// schedule (re)arms the settle timer for path.
func (w *Watcher) schedule(path string, emit func([]api.FileEntry)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.settled(path, emit)
	})
}

func (w *Watcher) settled(path string, emit func([]api.FileEntry)) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	entry, err := w.library.Scanner().ScanFile(path)
	if err != nil {
		zlog.Debug().Err(err).Str("path", path).Msg("library: watched file unreadable")
		return
	}
	if !IsAudioMIME(entry.MIMEType) {
		return
	}
	if fresh := w.library.Admit([]api.FileEntry{entry}); len(fresh) > 0 {
		zlog.Info().Str("path", path).Msg("library: new file in watched directory")
		emit(fresh)
	}
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
