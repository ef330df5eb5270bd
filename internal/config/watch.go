package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a config file whenever it changes on disk and hands
// the new value to the game loop through Changes.
type Watcher struct {
	path    string
	log     *zap.Logger
	fs      *fsnotify.Watcher
	changes chan *Config
	done    chan struct{}
}

// Watch starts watching path. The parent directory is watched rather
// than the file itself, since editors often replace files by renaming.
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		log:     log,
		fs:      fw,
		changes: make(chan *Config, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes delivers the latest valid config. Only the newest pending
// value is kept; invalid files are logged and skipped.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := reload(w.path)
	if err != nil {
		w.log.Warn("config reload skipped", zap.String("path", w.path), zap.Error(err))
		return
	}

	// Drop a value the game loop has not picked up yet.
	select {
	case <-w.changes:
	default:
	}
	w.changes <- cfg
	w.log.Info("config reloaded", zap.String("path", w.path))
}
