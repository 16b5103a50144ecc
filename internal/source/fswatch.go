package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vburojevic/fixwatch/internal/domain"
)

// skipDirs are directory names never worth watching
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".idea":        true,
	".vscode":      true,
}

// FSWatcher delivers content-change notifications for files under a set
// of project roots, backed by fsnotify. Newly created subdirectories are
// added to the watch set as they appear.
type FSWatcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// NewFSWatcher creates a watcher over the given roots
func NewFSWatcher(roots []string, log *zap.Logger) (*FSWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FSWatcher{watcher: w, log: log}
	for _, root := range roots {
		if err := fw.addTree(root); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

func (fw *FSWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			fw.log.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if skipDirs[name] || (strings.HasPrefix(name, ".") && path != root) {
			return fs.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// Run delivers supported-file write events to onChange until ctx is
// cancelled. Runs in the caller's goroutine.
func (fw *FSWatcher) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				// Watch directories created after startup
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !skipDirs[filepath.Base(ev.Name)] {
						fw.addTree(ev.Name)
					}
					continue
				}
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !domain.Supported(ev.Name) {
				continue
			}
			onChange(ev.Name)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Close releases the underlying fsnotify watcher
func (fw *FSWatcher) Close() error {
	return fw.watcher.Close()
}
