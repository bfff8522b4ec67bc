// Package watcher reports batched changes to the public directory and theme
// file so the dev server can rebuild.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/logging"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 150 * time.Millisecond

// FileWatcher watches paths and hands debounced batches to its handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
	stopOnce  sync.Once
}

// ChangeEvent is one file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType represents the type of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

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

// FileFilter reports whether a path is interesting. All filters must agree.
type FileFilter func(path string) bool

// ChangeHandler receives one debounced batch, sorted by path.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// Debouncer collapses bursts of events into one batch per quiet period.
type Debouncer struct {
	delay   time.Duration
	output  chan []ChangeEvent
	timer   *time.Timer
	pending map[string]ChangeEvent
	mutex   sync.Mutex
}

// NewDebouncer creates a debouncer that flushes after delay of quiet.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		delay:   delay,
		output:  make(chan []ChangeEvent, 10),
		pending: make(map[string]ChangeEvent),
	}
}

// Add records event and restarts the quiet period. A later event for the
// same path replaces the earlier one.
func (d *Debouncer) Add(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// Output delivers batches.
func (d *Debouncer) Output() <-chan []ChangeEvent { return d.output }

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}
	events := make([]ChangeEvent, 0, len(d.pending))
	for _, event := range d.pending {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	d.pending = make(map[string]ChangeEvent)

	select {
	case d.output <- events:
	default:
		// Consumer is behind; it will rebuild everything on the batch it
		// is processing anyway.
	}
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// NewFileWatcher creates a watcher with the given quiet period.
func NewFileWatcher(debounce time.Duration, logger logging.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeWatchFailed, "fsnotify")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FileWatcher{
		watcher:   w,
		debouncer: NewDebouncer(debounce),
		logger:    logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath watches a single file or directory.
func (fw *FileWatcher) AddPath(path string) error {
	if err := fw.watcher.Add(filepath.Clean(path)); err != nil {
		return serrors.WrapIO(err, serrors.ErrCodeWatchFailed, path)
	}
	return nil
}

// AddRecursive watches root and every directory below it. Directories
// created later are picked up as they appear.
func (fw *FileWatcher) AddRecursive(root string) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.AddPath(path)
	})
}

// Start runs the watch loop until ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
}

// Stop releases the underlying watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		fw.debouncer.stop()
		err = fw.watcher.Close()
	})
	return err
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
			fw.handle(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) handle(ctx context.Context, event fsnotify.Event) {
	info, statErr := os.Stat(event.Name)
	if statErr == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := fw.AddRecursive(event.Name); err != nil {
				fw.logger.Warn(ctx, err, "Failed to watch new directory", "path", event.Name)
			}
		}
		return
	}

	if !fw.accept(event.Name) {
		return
	}

	change := ChangeEvent{Path: event.Name, Type: eventType(event.Op)}
	if statErr == nil {
		change.ModTime = info.ModTime()
		change.Size = info.Size()
	}
	fw.logger.Debug(ctx, "File changed", "path", change.Path, "type", change.Type.String())
	fw.debouncer.Add(change)
}

func (fw *FileWatcher) accept(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()
	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.Output():
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(ctx, events); err != nil {
					fw.logger.Error(ctx, err, "Change handler failed", "events", len(events))
				}
			}
		}
	}
}

// NoHiddenFilter skips dotfiles and editor swap files.
func NoHiddenFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp")
}

// ExtFilter accepts files whose extension, case-insensitively, is one of exts.
func ExtFilter(exts ...string) FileFilter {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}
	return func(path string) bool {
		return allowed[strings.ToLower(filepath.Ext(path))]
	}
}

// AnyFilter accepts a path when any of filters does.
func AnyFilter(filters ...FileFilter) FileFilter {
	return func(path string) bool {
		for _, f := range filters {
			if f(path) {
				return true
			}
		}
		return false
	}
}

// PathFilter accepts exactly the given file.
func PathFilter(file string) FileFilter {
	clean := filepath.Clean(file)
	return func(path string) bool { return filepath.Clean(path) == clean }
}
