package page

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/components"
	"github.com/conneroisu/sparkle/internal/loadgate"
	"github.com/conneroisu/sparkle/internal/logging"
)

// DefaultGateTimeout bounds how long a mount waits for its leaves.
const DefaultGateTimeout = 5 * time.Second

// Session is one mount of a page. It owns the page's tracker: created at
// Mount, disposed at Unmount.
type Session struct {
	page    *Page
	loader  asset.Loader
	logger  logging.Logger
	timeout time.Duration
	gate    []loadgate.Option

	mu      sync.Mutex
	tracker *loadgate.Tracker
	results components.Results
	cancel  context.CancelFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithGateTimeout sets the ForceTimeout fallback armed at Mount.
func WithGateTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTrackerOptions passes options through to the session's tracker.
func WithTrackerOptions(opts ...loadgate.Option) SessionOption {
	return func(s *Session) {
		s.gate = append(s.gate, opts...)
	}
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession prepares a mount of p that resolves assets through loader.
func NewSession(p *Page, loader asset.Loader, opts ...SessionOption) *Session {
	s := &Session{
		page:    p,
		loader:  loader,
		logger:  logging.NewNop(),
		timeout: DefaultGateTimeout,
		results: make(components.Results),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("page").With("route", p.Route)
	return s
}

// Mount registers every leaf, starts its asset loads and arms the timeout
// fallback. All leaves are registered before any load starts so a fast leaf
// cannot open the gate early.
func (s *Session) Mount(ctx context.Context) *loadgate.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker != nil {
		return s.tracker
	}

	ctx, s.cancel = context.WithCancel(ctx)
	opts := append([]loadgate.Option{loadgate.WithLogger(s.logger)}, s.gate...)
	s.tracker = loadgate.New(opts...)

	for _, leaf := range s.page.Leaves {
		s.tracker.Register(leaf.ID())
	}
	for _, leaf := range s.page.Leaves {
		results := asset.LoadAll(ctx, s.loader, leaf.Assets())
		loadgate.Subscribe(ctx, s.tracker, leaf.ID(), results, s.record)
	}

	// A page with no leaves has nothing to wait for.
	timeout := s.timeout
	if len(s.page.Leaves) == 0 {
		timeout = 0
	}
	s.tracker.ForceTimeout(timeout)

	s.logger.Debug(ctx, "Mounted page", "leaves", len(s.page.Leaves), "timeout", timeout)
	return s.tracker
}

// Wait blocks until the gate opens, the tracker is disposed or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	t := s.current()
	if t == nil {
		return loadgate.ErrDisposed
	}
	return t.Wait(ctx)
}

// Snapshot reports the tracker state. An unmounted session reports loading.
func (s *Session) Snapshot() loadgate.Snapshot {
	t := s.current()
	if t == nil {
		return loadgate.Snapshot{Loading: true}
	}
	return t.Snapshot()
}

// State is what the page should render right now.
func (s *Session) State() components.State {
	s.mu.Lock()
	results := make(components.Results, len(s.results))
	for k, v := range s.results {
		results[k] = v
	}
	t := s.tracker
	s.mu.Unlock()

	loading := true
	if t != nil {
		loading = t.IsLoading()
	}
	return components.State{Loading: loading, Results: results}
}

// Results returns a copy of every asset outcome recorded so far.
func (s *Session) Results() []asset.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]asset.Result, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	return out
}

// Render writes the full page for the current state.
func (s *Session) Render(ctx context.Context, w io.Writer, css string) error {
	st := s.State()
	body, footer := s.page.sections(st)
	return components.Layout(components.LayoutProps{
		Title:       s.page.Title,
		Description: s.page.Description,
		CSS:         css,
		Loading:     st.Loading,
		Current:     s.page.Route,
		Catalog:     s.page.catalog,
		Body:        body,
		Footer:      footer,
	}).Render(ctx, w)
}

// Unmount stops pending loads and disposes the tracker. Late asset results
// and the timeout fallback can no longer change anything.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.tracker != nil {
		s.tracker.Dispose()
	}
}

func (s *Session) record(r asset.Result) {
	if !r.OK() {
		s.logger.Warn(context.Background(), r.Err, "Asset failed to load", "ref", string(r.Ref))
	}
	s.mu.Lock()
	s.results[r.Ref] = r
	s.mu.Unlock()
}

func (s *Session) current() *loadgate.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker
}
