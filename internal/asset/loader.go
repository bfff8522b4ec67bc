// Package asset loads the images leaf components depend on.
//
// Loading means "the browser would be able to show this": the file exists
// under the public directory and its header decodes as a known image
// format. Pixels are never decoded. Remote URLs are not fetched; they are
// reported as loaded and left to the browser.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	_ "golang.org/x/image/webp"

	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/logging"
	"github.com/conneroisu/sparkle/internal/validation"
)

// Ref is a public image path such as /images/products/rings/img2.webp or a
// remote URL.
type Ref string

// IsRemote reports whether the ref points at another host.
func (r Ref) IsRemote() bool {
	s := strings.ToLower(string(r))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "//")
}

// Result is the outcome of one load. Err is nil on success.
type Result struct {
	Ref    Ref
	Width  int
	Height int
	Format string
	Err    error
}

// OK reports whether the asset loaded.
func (r Result) OK() bool { return r.Err == nil }

// Loader resolves a ref to exactly one Result.
type Loader interface {
	Load(ctx context.Context, ref Ref) Result
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ref Ref) Result

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, ref Ref) Result { return f(ctx, ref) }

// FileLoader loads refs from a public directory on disk.
type FileLoader struct {
	root    string
	timeout time.Duration
	logger  logging.Logger
}

// FileLoaderOption configures a FileLoader.
type FileLoaderOption func(*FileLoader)

// WithTimeout bounds each load.
func WithTimeout(d time.Duration) FileLoaderOption {
	return func(l *FileLoader) { l.timeout = d }
}

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) FileLoaderOption {
	return func(l *FileLoader) {
		if logger != nil {
			l.logger = logger.WithComponent("asset")
		}
	}
}

// NewFileLoader creates a loader rooted at the public directory.
func NewFileLoader(root string, opts ...FileLoaderOption) *FileLoader {
	l := &FileLoader{root: root, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, ref Ref) Result {
	if ref.IsRemote() {
		return Result{Ref: ref, Format: "remote"}
	}

	path, err := l.resolve(ref)
	if err != nil {
		return Result{Ref: ref, Err: err}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ch := make(chan Result, 1)
	go func() { ch <- decodeHeader(ref, path) }()

	select {
	case res := <-ch:
		if res.Err != nil {
			l.logger.Debug(ctx, "Asset failed to load", "ref", string(ref), "error", res.Err.Error())
		}
		return res
	case <-ctx.Done():
		return Result{
			Ref: ref,
			Err: serrors.NewAssetError(serrors.ErrCodeAssetTimeout, fmt.Sprintf("timed out loading %s", ref), ctx.Err()),
		}
	}
}

// resolve maps a ref onto the public directory, rejecting traversal.
func (l *FileLoader) resolve(ref Ref) (string, error) {
	clean, err := validation.CleanRelPath(string(ref))
	if err != nil {
		return "", serrors.NewValidationError(serrors.ErrCodeInvalidPath, err.Error()).WithContext("ref", string(ref))
	}
	return filepath.Join(l.root, clean), nil
}

// DecodeFile reads just the image header of a file on disk.
func DecodeFile(path string) (width, height int, format string, err error) {
	res := decodeHeader(Ref(path), path)
	return res.Width, res.Height, res.Format, res.Err
}

func decodeHeader(ref Ref, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Ref: ref, Err: serrors.WrapAsset(err, serrors.ErrCodeAssetNotFound, string(ref), "")}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Result{Ref: ref, Err: serrors.WrapAsset(err, serrors.ErrCodeAssetDecode, string(ref), "")}
	}
	return Result{Ref: ref, Width: cfg.Width, Height: cfg.Height, Format: format}
}

// CachedLoader memoizes another loader. Pages share most of their images, so
// a build loads each ref once, even when pages load concurrently.
type CachedLoader struct {
	next    Loader
	mu      sync.Mutex
	entries map[Ref]*cacheEntry
}

// cacheEntry is one load, in flight until done is closed.
type cacheEntry struct {
	done      chan struct{}
	res       Result
	transient bool
}

// NewCachedLoader wraps next.
func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{next: next, entries: make(map[Ref]*cacheEntry)}
}

// Load implements Loader. Concurrent loads of one ref share a single call to
// the wrapped loader. Timeouts and cancellations are not cached; callers
// waiting on such a load retry it.
func (c *CachedLoader) Load(ctx context.Context, ref Ref) Result {
	for {
		c.mu.Lock()
		if e, ok := c.entries[ref]; ok {
			c.mu.Unlock()
			select {
			case <-e.done:
				if !e.transient {
					return e.res
				}
				continue
			case <-ctx.Done():
				return Result{
					Ref: ref,
					Err: serrors.NewAssetError(serrors.ErrCodeAssetTimeout, fmt.Sprintf("timed out loading %s", ref), ctx.Err()),
				}
			}
		}

		e := &cacheEntry{done: make(chan struct{})}
		c.entries[ref] = e
		c.mu.Unlock()

		e.res = c.next.Load(ctx, ref)
		e.transient = isTransient(e.res.Err)

		c.mu.Lock()
		if e.transient && c.entries[ref] == e {
			delete(c.entries, ref)
		}
		c.mu.Unlock()
		close(e.done)
		return e.res
	}
}

// Invalidate drops every cached result. Loads in flight finish but are not
// kept.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Ref]*cacheEntry)
}

func isTransient(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// LoadAll starts one load per ref and returns a channel that yields every
// result, in completion order, then closes.
func LoadAll(ctx context.Context, loader Loader, refs []Ref) <-chan Result {
	out := make(chan Result, len(refs))

	go func() {
		defer close(out)
		var wg conc.WaitGroup
		for _, ref := range refs {
			ref := ref
			wg.Go(func() {
				out <- loader.Load(ctx, ref)
			})
		}
		wg.Wait()
	}()

	return out
}
