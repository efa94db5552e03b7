package discover

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for after a change
// before it reloads.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls fn with the result of Models once, and again whenever a .go
// file under dir is created, written, removed or renamed. Bursts of
// changes are folded into one reload. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, fn func([]string, error), patterns ...string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := addDirs(w, dir); err != nil {
		return err
	}
	fn(Models(ctx, dir, patterns...))

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New directories are watched too.
				_ = addDirs(w, ev.Name)
			}
			if !strings.HasSuffix(ev.Name, ".go") {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DefaultDebounce)
			} else {
				timer.Reset(DefaultDebounce)
			}
			reload = timer.C
		case <-reload:
			reload = nil
			fn(Models(ctx, dir, patterns...))
		}
	}
}

// addDirs watches root and every directory below it, skipping hidden,
// vendor and testdata directories.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root {
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata" {
				return filepath.SkipDir
			}
		}
		return w.Add(path)
	})
}
