/*
Package watch monitors the productivity dataset file and re-triggers
analysis when its contents change.

The watcher observes the dataset's parent directory rather than the file
itself so that editors which replace files atomically (write to a temp
file, then rename over the original) are still picked up.
*/
package watch

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last event
// before invoking the change handler. Editors and CSV writers often emit
// several write events for one logical save.
const DefaultDebounce = 500 * time.Millisecond

// Event is one observed change to the dataset file.
type Event struct {
	Path string
	Op   string
	Time time.Time
}

// Config holds the watcher setup.
type Config struct {
	// DatasetPath is the CSV file to observe.
	DatasetPath string
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// Verbose prints per-event progress to stdout.
	Verbose bool
	// OnChange receives the batched events after the debounce window
	// closes. It runs on the watcher's goroutine.
	OnChange func(events []Event)
}

// Watcher watches a single dataset file for content changes.
type Watcher struct {
	datasetPath string
	watchDir    string
	verbose     bool
	onChange    func([]Event)

	watcher     *fsnotify.Watcher
	debouncer   *ChangeDebouncer
	hashTracker *ContentHashTracker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for the dataset at cfg.DatasetPath.
func New(cfg Config) (*Watcher, error) {
	absPath, err := filepath.Abs(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		datasetPath: absPath,
		watchDir:    filepath.Dir(absPath),
		verbose:     cfg.Verbose,
		onChange:    cfg.OnChange,
		watcher:     fw,
		hashTracker: NewContentHashTracker(),
		ctx:         ctx,
		cancel:      cancel,
	}

	delay := cfg.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	w.debouncer = NewChangeDebouncer(delay, w.handleBatch)

	// Seed the tracker so an unchanged rewrite right after startup does
	// not trigger a spurious run.
	_ = w.hashTracker.HasChanged(absPath)

	return w, nil
}

// Path returns the absolute dataset path being watched.
func (w *Watcher) Path() string {
	return w.datasetPath
}

// Start begins watching. It returns an error when the dataset's
// directory cannot be observed.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.watchDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.watchDir, err)
	}

	if w.verbose {
		fmt.Printf("Watching %s\n", w.datasetPath)
	}

	w.wg.Add(1)
	go w.eventLoop()

	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.debouncer.Stop()
	w.wg.Wait()
}

// eventLoop processes filesystem events until Stop is called.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

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
			if w.verbose {
				fmt.Printf("watch error: %v\n", err)
			}

		case <-w.ctx.Done():
			return
		}
	}
}

// handleEvent filters directory events down to the dataset file and
// queues real content changes for the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.datasetPath {
		return
	}

	op := "modify"
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Remove != 0:
		op = "remove"
		w.hashTracker.Remove(event.Name)
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
		w.hashTracker.Remove(event.Name)
	}

	// Writes that leave the content identical (touch, chmod, editor
	// metadata updates) are skipped.
	if op == "modify" {
		if !w.hashTracker.HasChanged(event.Name) {
			if w.verbose {
				fmt.Printf("skip (no change): %s\n", filepath.Base(event.Name))
			}
			return
		}
	}

	w.debouncer.Add(Event{
		Path: w.datasetPath,
		Op:   op,
		Time: time.Now(),
	})

	if w.verbose {
		fmt.Printf("%s: %s\n", op, filepath.Base(event.Name))
	}
}

// handleBatch forwards a debounced batch to the change handler.
func (w *Watcher) handleBatch(events []Event) {
	if len(events) == 0 || w.onChange == nil {
		return
	}
	w.onChange(events)
}

// ChangeDebouncer batches rapid file changes into one callback.
type ChangeDebouncer struct {
	pending []Event
	timer   *time.Timer
	mu      sync.Mutex
	onFlush func([]Event)
	delay   time.Duration
	stopped bool
}

// NewChangeDebouncer creates a debouncer that flushes after delay of
// quiet time.
func NewChangeDebouncer(delay time.Duration, onFlush func([]Event)) *ChangeDebouncer {
	return &ChangeDebouncer{
		pending: make([]Event, 0),
		onFlush: onFlush,
		delay:   delay,
	}
}

// Add queues an event and resets the flush timer.
func (d *ChangeDebouncer) Add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// flush sends pending events to the handler.
func (d *ChangeDebouncer) flush() {
	d.mu.Lock()
	events := d.pending
	d.pending = make([]Event, 0)
	d.mu.Unlock()

	if len(events) > 0 && d.onFlush != nil {
		d.onFlush(events)
	}
}

// Stop stops the debouncer. Pending events are dropped.
func (d *ChangeDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// ContentHashTracker remembers file content hashes so no-op writes can
// be told apart from real changes.
type ContentHashTracker struct {
	hashes map[string]string
	mu     sync.RWMutex
}

// NewContentHashTracker creates an empty tracker.
func NewContentHashTracker() *ContentHashTracker {
	return &ContentHashTracker{
		hashes: make(map[string]string),
	}
}

// HasChanged reports whether the file's content differs from the last
// observation. Unreadable files count as changed so the caller surfaces
// the problem instead of silently skipping it.
func (t *ContentHashTracker) HasChanged(path string) bool {
	hash, err := t.computeHash(path)
	if err != nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	oldHash, exists := t.hashes[path]
	t.hashes[path] = hash

	if !exists {
		return true
	}

	return hash != oldHash
}

// Remove forgets a file's recorded hash.
func (t *ContentHashTracker) Remove(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hashes, path)
}

// computeHash calculates the MD5 hash of the file content.
func (t *ContentHashTracker) computeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
