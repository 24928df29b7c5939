package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned when Watch is called on a running watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config contains configuration for the file watcher.
type Config struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively.
	Paths []string

	// Debounce is the quiet period after the last change before onChange runs.
	// Default: 200ms
	Debounce time.Duration

	// Extensions limits events to these file extensions. Empty accepts all.
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool
}

// DefaultConfig returns a config for YAML and JSON declaration files.
func DefaultConfig(paths ...string) *Config {
	return &Config{
		Paths:      paths,
		Debounce:   200 * time.Millisecond,
		Extensions: []string{".yaml", ".yml", ".json"},
		SkipHidden: true,
	}
}

// FileWatcher watches config and declaration files and calls back once
// changes settle.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a file watcher. A nil config watches nothing until paths are
// supplied via DefaultConfig.
func New(cfg *Config, logger *slog.Logger) (*FileWatcher, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		logger:   logger.With("component", "watch"),
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, calling onChange
// after each burst of relevant file events. Errors from onChange are logged
// and watching continues.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(path string) error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	for _, path := range fw.config.Paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}

	fw.logger.Info("file watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped", "reason", "context cancelled")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !fw.shouldProcess(event) {
				continue
			}

			fw.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

			if event.Op.Has(fsnotify.Create) {
				if isDir, _ := isDirectory(event.Name); isDir {
					if err := fw.addDirectory(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			name := event.Name
			fw.debounce.Trigger(func() {
				if err := onChange(name); err != nil {
					fw.logger.Error("change handler failed", "path", name, "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops a running watcher and releases its resources.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) addPath(path string) error {
	isDir, err := isDirectory(path)
	if err != nil {
		return err
	}
	if isDir {
		return fw.addDirectory(path)
	}
	// Watch the parent so editors that replace the file are still seen.
	return fw.watcher.Add(filepath.Dir(path))
}

func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if fw.config.SkipHidden && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if fw.config.SkipHidden && strings.HasPrefix(base, ".") {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		if isDir, _ := isDirectory(event.Name); isDir {
			return true
		}
	}
	return fw.hasValidExtension(strings.ToLower(filepath.Ext(base)))
}

func (fw *FileWatcher) hasValidExtension(ext string) bool {
	if len(fw.config.Extensions) == 0 {
		return true
	}
	for _, valid := range fw.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
