package templates

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a template file whenever it is written or replaced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(File)
	logger   *log.Logger
	done     chan struct{}
}

// Watch starts watching path. onChange runs on the watcher goroutine with
// every successfully parsed version; broken edits are logged and skipped.
func Watch(path string, onChange func(File), logger *log.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen too
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", absPath, err)
	}

	w := &Watcher{
		watcher:  watcher,
		path:     absPath,
		onChange: onChange,
		logger:   logger.With("template", absPath),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != w.path {
				continue
			}
			f, err := LoadFile(w.path)
			if err != nil {
				w.logger.Warn("template reload failed", "err", err)
				continue
			}
			w.logger.Info("template reloaded", "blocks", len(f.Blocks))
			if w.onChange != nil {
				w.onChange(f)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}
