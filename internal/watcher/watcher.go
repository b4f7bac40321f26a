// Package watcher re-triggers autolinking while a project's dependencies
// change. It watches the project root (for tamer.config.json), node_modules,
// every scope directory and every package directory, and delivers debounced
// batches of relevant changes to its handlers.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nanofuxion/tamer4lynx/internal/config"
	"github.com/nanofuxion/tamer4lynx/internal/discovery"
	"github.com/nanofuxion/tamer4lynx/internal/logging"
	"github.com/nanofuxion/tamer4lynx/internal/naming"
)

// FileWatcher watches for file changes with debouncing
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	root      string
	mutex     sync.RWMutex
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a change is relevant. Every filter must accept
// an event for it to be delivered.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of changes
type ChangeHandler func(events []ChangeEvent) error

// Debouncer groups rapid file changes together
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

// NewFileWatcher creates a watcher for the project at root.
func NewFileWatcher(root string, debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.Discard()
	}

	debouncer := &Debouncer{
		delay:   debounceDelay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	return &FileWatcher{
		watcher:   watcher,
		debouncer: debouncer,
		filters:   make([]FileFilter, 0),
		handlers:  make([]ChangeHandler, 0),
		logger:    logger.WithComponent("watcher"),
		root:      abs,
	}, nil
}

// AddFilter adds a file filter
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath adds a path inside the project root to the watch list.
func (fw *FileWatcher) AddPath(path string) error {
	cleanPath, err := fw.validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	return fw.watcher.Add(cleanPath)
}

// WatchProject watches the project root, node_modules and the package
// directories discovery looks into. A missing node_modules is not an error;
// it is picked up once it is created.
func (fw *FileWatcher) WatchProject() error {
	if err := fw.AddPath(fw.root); err != nil {
		return err
	}
	return fw.addDependencyTree(filepath.Join(fw.root, discovery.DependencyDir))
}

// addDependencyTree watches node_modules plus one level below it, and one
// more level inside scope directories, mirroring discovery's depth.
func (fw *FileWatcher) addDependencyTree(modules string) error {
	entries, err := os.ReadDir(modules)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := fw.AddPath(modules); err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(modules, entry.Name())
		if err := fw.AddPath(dir); err != nil {
			fw.logger.Warn(context.Background(), err, "Skipping directory", "path", dir)
			continue
		}
		if !strings.HasPrefix(entry.Name(), naming.ScopeSigil) {
			continue
		}
		scoped, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, s := range scoped {
			if s.IsDir() && !strings.HasPrefix(s.Name(), ".") {
				if err := fw.AddPath(filepath.Join(dir, s.Name())); err != nil {
					fw.logger.Warn(context.Background(), err, "Skipping directory", "path", filepath.Join(dir, s.Name()))
				}
			}
		}
	}
	return nil
}

// validatePath cleans path and rejects anything outside the project root.
func (fw *FileWatcher) validatePath(path string) (string, error) {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}
	if absPath != fw.root && !strings.HasPrefix(absPath, fw.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the project root", path)
	}
	return absPath, nil
}

// Start starts the file watcher goroutines; they stop with ctx.
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.debouncer.start(ctx)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop stops the file watcher and cleans up resources
func (fw *FileWatcher) Stop() error {
	fw.debouncer.mutex.Lock()
	if fw.debouncer.timer != nil {
		fw.debouncer.timer.Stop()
	}
	fw.debouncer.mutex.Unlock()

	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	info, statErr := os.Stat(event.Name)

	// Newly installed packages and scopes need their own watches so their
	// manifests are seen.
	if event.Op&fsnotify.Create == fsnotify.Create && statErr == nil && info.IsDir() {
		fw.watchNewDirectory(event.Name)
	}

	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var modTime time.Time
	var size int64
	if statErr == nil {
		modTime = info.ModTime()
		size = info.Size()
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		eventType = EventTypeCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		eventType = EventTypeModified
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		eventType = EventTypeDeleted
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		eventType = EventTypeRenamed
	default:
		eventType = EventTypeModified
	}

	changeEvent := ChangeEvent{
		Type:    eventType,
		Path:    event.Name,
		ModTime: modTime,
		Size:    size,
	}

	select {
	case fw.debouncer.events <- changeEvent:
	default:
		fw.logger.Debug(context.Background(), "Dropping change event, queue full", "path", event.Name)
	}
}

func (fw *FileWatcher) watchNewDirectory(dir string) {
	modules := filepath.Join(fw.root, discovery.DependencyDir)
	switch {
	case dir == modules:
		_ = fw.addDependencyTree(modules)
	case filepath.Dir(dir) == modules:
		_ = fw.AddPath(dir)
		if strings.HasPrefix(filepath.Base(dir), naming.ScopeSigil) {
			_ = fw.addDependencyTree(modules)
		}
	case strings.HasPrefix(filepath.Base(filepath.Dir(dir)), naming.ScopeSigil) &&
		filepath.Dir(filepath.Dir(dir)) == modules:
		_ = fw.AddPath(dir)
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.output:
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					fw.logger.Error(ctx, err, "File watcher handler error")
				}
			}
		}
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	// Last event per path wins.
	eventMap := make(map[string]ChangeEvent)
	for _, event := range d.pending {
		eventMap[event.Path] = event
	}

	events := make([]ChangeEvent, 0, len(eventMap))
	for _, event := range eventMap {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	select {
	case d.output <- events:
	default:
	}

	d.pending = d.pending[:0]
}

// RelevantFilter returns a filter accepting the changes that can alter an
// autolink pass for the project at root: the host config, manifests,
// package.json files, and packages or scopes appearing and disappearing in
// node_modules.
func RelevantFilter(root string) FileFilter {
	modules := filepath.Join(root, discovery.DependencyDir)
	return func(path string) bool {
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") {
			return false
		}
		switch {
		case path == filepath.Join(root, config.FileName):
			return true
		case path == modules:
			return true
		case base == discovery.ManifestName || base == "package.json":
			return strings.HasPrefix(path, modules+string(filepath.Separator))
		}

		// Package or scope directories directly below node_modules, or
		// packages directly below a scope.
		parent := filepath.Dir(path)
		if parent == modules {
			return true
		}
		return strings.HasPrefix(filepath.Base(parent), naming.ScopeSigil) && filepath.Dir(parent) == modules
	}
}
