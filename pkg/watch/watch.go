// Package watch re-runs a build whenever one of its input files changes.
// Spreadsheet sources are edited and re-exported repeatedly while a
// crosswalk is being curated; watching them keeps the generated artifacts
// current without manual re-runs.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

// Watcher monitors a set of input files and invokes a callback after a
// change, debounced so editors that write in several bursts trigger one
// rebuild.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]bool
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(path string)
	debounce time.Duration
}

// New creates a watcher over the given files. onChange is invoked with
// the changed path after the debounce window closes.
func New(files []string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback cannot be nil")
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watched := make(map[string]bool, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", file, err)
		}
		watched[abs] = true
	}

	return &Watcher{
		files:    watched,
		onChange: onChange,
		debounce: debounce,
	}, nil
}

// Start begins watching. Directories are watched rather than the files
// themselves: editors replace files on save, which drops a direct file
// watch.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.stopChan = make(chan struct{})
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for file := range w.files {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()
	return nil
}

// Stop ends watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopChan != nil {
		close(w.stopChan)
		w.stopChan = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
}

func (w *Watcher) loop() {
	w.mu.Lock()
	stopChan := w.stopChan
	watcher := w.watcher
	w.mu.Unlock()

	var (
		timer   *time.Timer
		pending string
	)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-stopChan:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			pending = abs
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if pending != "" {
				w.onChange(pending)
				pending = ""
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			_ = err // transient watch errors are ignored; the loop continues
		}
	}
}
