package cipher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/logger"
)

// DebouncePeriod collapses bursts of file events into one reload.
const DebouncePeriod = 200 * time.Millisecond

// Event reports that the cipher directory changed.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watch reports changes to *.json files in dir until ctx is cancelled.
// Bursts are debounced; the last event of a burst is delivered. The
// returned channel is closed when watching stops.
func Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating ciphers directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watching %s", dir)
	}

	log := logger.Named("cipher.watch")
	out := make(chan Event, 1)

	go func() {
		defer close(out)
		defer w.Close()

		var (
			pending *Event
			timer   *time.Timer
			fire    <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Ext(ev.Name) != ext {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debugw("Cipher file changed", logger.FieldFile, ev.Name, "op", ev.Op.String())
				pending = &Event{Path: ev.Name, Op: ev.Op}
				if timer == nil {
					timer = time.NewTimer(DebouncePeriod)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(DebouncePeriod)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				if pending == nil {
					continue
				}
				select {
				case out <- *pending:
				case <-ctx.Done():
					return
				}
				pending = nil

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnw("Cipher watcher error", logger.FieldError, err)
			}
		}
	}()

	return out, nil
}
