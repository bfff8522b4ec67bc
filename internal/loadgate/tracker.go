// Package loadgate coordinates the page-level "all assets loaded" flag.
//
// Every leaf component on a page loads its own images independently and
// reports exactly once when it is done, whether its assets loaded or
// failed. The Tracker aggregates those reports into one boolean that the
// page shell uses to decide between the loading spinner and real content.
//
// A Tracker belongs to one page mount. The owner creates it, hands it to the
// leaves, arms the timeout fallback and disposes it on unmount:
//
//	gate := loadgate.New(loadgate.WithLogger(logger))
//	defer gate.Dispose()
//	gate.Register("Hero")
//	gate.ForceTimeout(5 * time.Second)
//	...
//	gate.ReportLoaded("Hero")
//
// Failures are deliberately folded into "loaded": the gate favours forward
// progress over reporting which asset broke. Broken images are handled by
// the component that renders them.
package loadgate

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/sparkle/internal/logging"
)

// ErrDisposed is returned by Wait when the tracker was disposed before the
// gate opened.
var ErrDisposed = errors.New("loadgate: tracker disposed")

// Reporter is the side of the gate handed to leaf components.
type Reporter interface {
	ReportLoaded(id string)
}

// Status is the side of the gate read by the page shell.
type Status interface {
	IsLoading() bool
}

// Snapshot is a point-in-time copy of the tracker state.
type Snapshot struct {
	Ready     []string
	Missing   []string
	Threshold int
	Loading   bool
	Forced    bool
}

// Tracker aggregates ready signals from leaf components.
//
// The threshold is either fixed with WithThreshold or, by default, the
// number of leaves that called Register. Mutations are serialized under one
// mutex because asset loads complete on their own goroutines in any order.
type Tracker struct {
	mu        sync.Mutex
	clock     Clock
	logger    logging.Logger
	fixed     int
	expected  map[string]struct{}
	ready     map[string]struct{}
	loading   bool
	forced    bool
	disposed  bool
	epoch     uint64
	timer     Timer
	done      chan struct{}
	gone      chan struct{}
	observers []func(Snapshot)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithThreshold fixes the number of distinct reports that opens the gate.
// Reports are then accepted from any id, registered or not.
func WithThreshold(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.fixed = n
		}
	}
}

// WithClock replaces the wall clock used by ForceTimeout.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.WithComponent("loadgate")
		}
	}
}

// New creates a tracker in the loading state.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		clock:    RealClock(),
		logger:   logging.NewNop(),
		expected: make(map[string]struct{}),
		ready:    make(map[string]struct{}),
		loading:  true,
		done:     make(chan struct{}),
		gone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register declares that id will report. Registering twice is a no-op, as
// is registering after Dispose.
func (t *Tracker) Register(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.expected[id] = struct{}{}
}

// ReportLoaded records that id finished loading, successfully or not.
// Duplicate reports, reports after the gate opened and reports after
// Dispose change nothing.
func (t *Tracker) ReportLoaded(id string) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	if t.fixed == 0 {
		if _, ok := t.expected[id]; !ok {
			t.mu.Unlock()
			t.logger.Warn(context.Background(), nil, "Ignoring report from unregistered component", "id", id)
			return
		}
	}
	if _, dup := t.ready[id]; dup {
		t.mu.Unlock()
		return
	}

	t.ready[id] = struct{}{}
	total, threshold := len(t.ready), t.threshold()
	t.logger.Debug(context.Background(), "Component loaded", "id", id, "total", total, "threshold", threshold)

	if !t.loading || total < threshold {
		t.mu.Unlock()
		return
	}
	snap, observers := t.settleLocked(false)
	t.mu.Unlock()

	t.logger.Info(context.Background(), "All components loaded", "total", total)
	notify(observers, snap)
}

// IsLoading reports whether the gate is still closed.
func (t *Tracker) IsLoading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Reset clears the ready set and closes the gate again. Registrations are
// kept since a remounted page declares the same leaves. A pending timeout is
// cancelled.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.stopTimerLocked()
	t.ready = make(map[string]struct{})
	t.forced = false
	if !t.loading {
		t.done = make(chan struct{})
	}
	t.loading = true
}

// ForceTimeout schedules a one-shot fallback. If the gate is still closed
// when d elapses, every registered component is marked as reported and the
// gate opens. Calling it again replaces the pending fallback.
func (t *Tracker) ForceTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed || !t.loading {
		return
	}
	t.stopTimerLocked()
	epoch := t.epoch
	t.timer = t.clock.AfterFunc(d, func() { t.expire(epoch, d) })
}

func (t *Tracker) expire(epoch uint64, d time.Duration) {
	t.mu.Lock()
	// Reset and Dispose bump the epoch; a callback from an older epoch is stale.
	if t.disposed || epoch != t.epoch || !t.loading {
		t.mu.Unlock()
		return
	}
	missing := t.missingLocked()
	for id := range t.expected {
		t.ready[id] = struct{}{}
	}
	snap, observers := t.settleLocked(true)
	t.mu.Unlock()

	t.logger.Warn(context.Background(), nil, "Loading took too long, forcing gate open",
		"timeout", d.String(), "missing", missing)
	notify(observers, snap)
}

// Dispose tears the tracker down. The pending timeout is cancelled and no
// later call or callback mutates state. Waiters receive ErrDisposed.
func (t *Tracker) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.disposed = true
	t.stopTimerLocked()
	t.observers = nil
	close(t.gone)
}

// Done returns a channel closed when the gate opens. After Reset a new
// channel is handed out.
func (t *Tracker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Wait blocks until the gate opens, the tracker is disposed or ctx ends.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	done, gone := t.done, t.gone
	t.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-gone:
		return ErrDisposed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnSettle registers fn to run every time the gate opens. fn runs on the
// goroutine that opened the gate, outside the tracker's lock.
func (t *Tracker) OnSettle(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.observers = append(t.observers, fn)
}

// Snapshot copies the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) threshold() int {
	if t.fixed > 0 {
		return t.fixed
	}
	return len(t.expected)
}

func (t *Tracker) settleLocked(forced bool) (Snapshot, []func(Snapshot)) {
	t.loading = false
	t.forced = forced
	t.stopTimerLocked()
	close(t.done)

	observers := make([]func(Snapshot), len(t.observers))
	copy(observers, t.observers)
	return t.snapshotLocked(), observers
}

func (t *Tracker) stopTimerLocked() {
	t.epoch++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) snapshotLocked() Snapshot {
	ready := make([]string, 0, len(t.ready))
	for id := range t.ready {
		ready = append(ready, id)
	}
	sort.Strings(ready)

	return Snapshot{
		Ready:     ready,
		Missing:   t.missingLocked(),
		Threshold: t.threshold(),
		Loading:   t.loading,
		Forced:    t.forced,
	}
}

func (t *Tracker) missingLocked() []string {
	var missing []string
	for id := range t.expected {
		if _, ok := t.ready[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
