package config

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/admitcalc/exprlang/internal/limits"
)

// Watcher holds the most recently loaded Limits and keeps it current by
// watching its source file for writes, debouncing bursts of edits the way
// an editor's save-with-backup-file dance produces them. Grounded in the
// teacher's moxieWatcher (cmd/moxie/watch.go): an fsnotify.Watcher plus a
// mutex-guarded pending timer, generalized from "rebuild the binary" to
// "republish a config value".
//
// Current() is safe to call from any number of goroutines concurrently
// with a reload; a parse already holding a Limits value it read before a
// reload is unaffected; it simply won't see the new bounds until its next
// Current() call.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	current  atomic.Pointer[limits.Limits]

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
}

// NewWatcher loads path once, then begins watching it for further writes.
// Reload errors (a transient partial write, a momentarily invalid file)
// are logged and otherwise ignored: the previously published Limits stays
// in effect until a subsequent write parses cleanly.
func NewWatcher(path string) (*Watcher, error) {
	lim, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		fsw:      fsw,
		debounce: 200 * time.Millisecond,
		done:     make(chan struct{}),
	}
	w.current.Store(&lim)

	go w.run()
	return w, nil
}

// Current returns the most recently successfully loaded Limits.
func (w *Watcher) Current() limits.Limits {
	return *w.current.Load()
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error for %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	lim, err := Load(w.path)
	if err != nil {
		log.Printf("config: reload of %s failed, keeping previous limits: %v", w.path, err)
		return
	}
	w.current.Store(&lim)
}
