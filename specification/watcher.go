package specification

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchEvent signals that the watched specification changed on disk.
type WatchEvent struct {
	// Path is the specification file that changed.
	Path string

	// Err is set when the underlying watcher failed.
	Err error
}

// Watcher re-signals changes to a specification file, debounced so editor
// write-rename sequences produce a single event.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
	events   chan WatchEvent
}

// NewWatcher creates a watcher for the given specification file.
// Debounce defaults to 250ms.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		events:   make(chan WatchEvent, 8),
	}, nil
}

// Events returns the channel change notifications are delivered on.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching. The directory is watched rather than the file
// itself because editors typically replace the file on save. Runs until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.events)

	var timer *time.Timer
	var timerC <-chan time.Time

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("specification changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				// The timer may already have fired with its value still
				// queued; drain it or the stale value delivers a second
				// event after the reset.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.events <- WatchEvent{Path: w.path, Err: err}:
			case <-ctx.Done():
				return
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.events <- WatchEvent{Path: w.path}:
			case <-ctx.Done():
				return
			}
		}
	}
}
