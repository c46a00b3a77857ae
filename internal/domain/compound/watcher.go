package compound

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
)

// reloadDebounce coalesces the burst of filesystem events an editor
// emits when saving a file into one reload.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a library overlay file whenever it changes on disk.
// It watches the containing directory rather than the file itself, so
// editors that replace the file by rename keep triggering reloads.
type Watcher struct {
	lib  *Library
	path string
	fsw  *fsnotify.Watcher
	log  logging.Logger
	done chan struct{}
}

// NewWatcher starts watching the overlay file at path.  The initial
// load is the caller's responsibility; the watcher only handles
// subsequent changes.
func NewWatcher(lib *Library, path string, log logging.Logger) (*Watcher, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		lib:  lib,
		path: abs,
		fsw:  fsw,
		log:  log.Named("compound-watcher"),
		done: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending = time.After(reloadDebounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("compound watch error", logging.Err(err))
		case <-pending:
			pending = nil
			w.reload()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	if err := w.lib.LoadOverlay(w.path); err != nil {
		w.log.Warn("compound overlay reload failed",
			logging.String("path", w.path), logging.Err(err))
		return
	}
	w.log.Info("compound overlay reloaded",
		logging.String("path", w.path), logging.Int("compounds", w.lib.Len()))
}

// Close stops the watcher.  It is safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
