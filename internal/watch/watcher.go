// Package watch reports replay files appearing, changing or disappearing in
// a replay folder.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/slpkit/ripped/internal/platform"
)

// DefaultDebounce is how long a file must stay quiet before a change is emitted.
// Dolphin appends to a replay every frame while a game is running.
const DefaultDebounce = 2 * time.Second

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeRemoved
	ChangeAdded
)

// String returns the change kind name
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Change represents a detected change to a replay file.
type Change struct {
	Kind ChangeKind
	File string // Absolute path
}

// Watcher monitors a replay folder using fsnotify.
type Watcher struct {
	Dir       string
	Recursive bool
	Debounce  time.Duration
	Changes   <-chan Change // Read-only external channel

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
	log     zerolog.Logger
}

type pendingChange struct {
	at      time.Time
	created bool
}

// NewWatcher creates a watcher for dir. When recursive is set every
// subdirectory is watched too, including ones created later.
func NewWatcher(dir string, recursive bool, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 64)
	return &Watcher{
		Dir:       dir,
		Recursive: recursive,
		Debounce:  DefaultDebounce,
		Changes:   ch,
		changes:   ch,
		done:      make(chan struct{}),
		watcher:   fw,
		log:       log,
	}, nil
}

// Start begins watching. Debounce must not be changed afterwards.
func (w *Watcher) Start() error {
	if err := w.add(w.Dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

// add watches dir and, in recursive mode, everything below it
func (w *Watcher) add(dir string) error {
	if !w.Recursive {
		return w.watcher.Add(dir)
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The root must be readable; unreadable subtrees are skipped
			if path == dir {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.log.Debug().Str("dir", path).Err(err).Msg("cannot watch directory")
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tick := debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}

	pending := make(map[string]pendingChange)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, p := range pending {
					w.emit(file, p)
				}
				return
			}
			w.handle(event, pending)

		case <-ticker.C:
			now := time.Now()
			for file, p := range pending {
				if now.Sub(p.at) >= debounce {
					w.emit(file, p)
					delete(pending, file)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, pending map[string]pendingChange) {
	if w.Recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.add(event.Name); err != nil {
				w.log.Debug().Str("dir", event.Name).Err(err).Msg("cannot watch new directory")
			}
			return
		}
	}

	if !platform.IsReplayFile(event.Name) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	p := pending[event.Name]
	p.at = time.Now()
	p.created = p.created || event.Has(fsnotify.Create)
	pending[event.Name] = p
}

func (w *Watcher) emit(file string, p pendingChange) {
	change := Change{Kind: ChangeModified, File: file}

	_, err := os.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		change.Kind = ChangeRemoved
	case p.created:
		change.Kind = ChangeAdded
	}

	select {
	case w.changes <- change:
	default:
		// Consumers reload the whole folder on any change
		w.log.Debug().Str("file", file).Msg("change buffer full, dropping event")
	}
}
