// Package watch re-runs analysis when a watched resume file changes on
// disk. Used by the analyze command's --watch flag.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumelens/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single resume file and triggers a callback after
// changes settle. Editors often write via rename, so the file's directory
// is watched as well.
type FileWatcher struct {
	mu sync.RWMutex

	file        string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	callback func()
	logger   *errors.Logger

	running bool
}

// NewFileWatcher creates a watcher for the given resume file.
func NewFileWatcher(file string, debounceDelay time.Duration, callback func(), logger *errors.Logger) (*FileWatcher, error) {
	if file == "" {
		return nil, fmt.Errorf("no file to watch")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &FileWatcher{
		file:          file,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		callback:      callback,
		logger:        logger,
	}, nil
}

// Start begins watching the file for changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("file watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw.fsWatcher = watcher

	if stat, err := os.Stat(fw.file); err == nil {
		fw.lastModTime = stat.ModTime()
	} else {
		fw.cleanupWatcher()
		return fmt.Errorf("failed to stat watched file %s: %w", fw.file, err)
	}

	if err := fw.addFileToWatcher(); err != nil {
		fw.cleanupWatcher()
		return err
	}

	fw.running = true
	go fw.watchLoop()

	if fw.logger != nil {
		fw.logger.Info("Resume file watcher started",
			"file", fw.file,
			"debounce_delay", fw.debounceDelay)
	}
	return nil
}

// Stop stops the file watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	close(fw.stopChan)

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	if fw.fsWatcher != nil {
		if err := fw.fsWatcher.Close(); err != nil {
			if fw.logger != nil {
				fw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	fw.running = false

	if fw.logger != nil {
		fw.logger.Info("Resume file watcher stopped")
	}

	return nil
}

// IsRunning returns whether the watcher is currently running.
func (fw *FileWatcher) IsRunning() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

func (fw *FileWatcher) cleanupWatcher() {
	if fw.fsWatcher != nil {
		if closeErr := fw.fsWatcher.Close(); closeErr != nil && fw.logger != nil {
			fw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// addFileToWatcher watches the file and its directory. The directory watch
// catches atomic writes (rename operations).
func (fw *FileWatcher) addFileToWatcher() error {
	if err := fw.fsWatcher.Add(fw.file); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", fw.file, err)
	}

	dir := filepath.Dir(fw.file)
	if err := fw.fsWatcher.Add(dir); err != nil {
		if fw.logger != nil {
			fw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// hasFileChanged checks if the file has been modified since last check.
func (fw *FileWatcher) hasFileChanged() bool {
	stat, err := os.Stat(fw.file)
	if err != nil {
		return false
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if stat.ModTime().After(fw.lastModTime) {
		fw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// watchLoop is the main event loop for file watching.
func (fw *FileWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-fw.fsWatcher.Events:
			if !ok {
				return
			}

			if fw.shouldProcessEvent(event) {
				fw.scheduleReload()
			}

		case err, ok := <-fw.fsWatcher.Errors:
			if !ok {
				return
			}
			if fw.logger != nil {
				fw.logger.LogError(err, "File watcher error")
			}

		case <-fw.reloadChan:
			// Debounced reload trigger
			if fw.hasFileChanged() {
				if fw.logger != nil {
					fw.logger.Info("Resume file changed, re-running analysis", "file", fw.file)
				}
				fw.callback()
			}

		case <-fw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event concerns the
// watched file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != fw.file && filepath.Base(event.Name) != filepath.Base(fw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload.
func (fw *FileWatcher) scheduleReload() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, func() {
		select {
		case fw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}
