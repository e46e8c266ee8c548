package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Writers copy history dumps into the watch directory; wait for the
// file to settle before announcing it.
const DEBOUNCE_SECS = 5

// Watcher monitors the import path for new history files and emits events
type Watcher struct {
	watcher        *fsnotify.Watcher
	watchPath      string
	debounceTimers map[string]*time.Timer
	debounceMutex  sync.Mutex
	running        bool
	stopChan       chan struct{}
	eventChan      chan<- FileEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher(eventChan chan<- FileEvent) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:        watcher,
		eventChan:      eventChan,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching the import path for file changes
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	w.running = true

	// Start the event loop
	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully")
	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)

	// Cancel any pending debounce timers
	w.debounceMutex.Lock()
	for path, timer := range w.debounceTimers {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A dump lands via create, then grows via write
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	if !w.isSupportedFile(event.Name) {
		return
	}

	slog.Info("Detected history file", "file", event.Name)

	// Start or reset the per-file debounce timer
	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if timer, ok := w.debounceTimers[event.Name]; ok {
		timer.Stop()
	}

	path := event.Name
	w.debounceTimers[path] = time.AfterFunc(time.Duration(DEBOUNCE_SECS)*time.Second, func() {
		w.emitDebounceEvent(path)
	})
}

// isSupportedFile checks if the file is a supported history format
func (w *Watcher) isSupportedFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".json"
}

// emitDebounceEvent emits a file event after debounce period
func (w *Watcher) emitDebounceEvent(path string) {
	w.debounceMutex.Lock()
	delete(w.debounceTimers, path)
	w.debounceMutex.Unlock()

	event := FileEvent{
		Path:      path,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Info("Emitted file event after debounce", "path", event.Path)
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}
