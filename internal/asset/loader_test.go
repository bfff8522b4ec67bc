package asset

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/conneroisu/sparkle/internal/errors"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 212, G: 165, B: 165, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRefIsRemote(t *testing.T) {
	assert.True(t, Ref("https://picsum.photos/300/200?random=1").IsRemote())
	assert.True(t, Ref("HTTP://example.com/a.png").IsRemote())
	assert.True(t, Ref("//cdn.example.com/a.png").IsRemote())
	assert.False(t, Ref("/images/a.webp").IsRemote())
}

func TestFileLoaderLoadsHeader(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "images", "rings", "img2.png"), 40, 30)

	loader := NewFileLoader(root)
	res := loader.Load(context.Background(), "/images/rings/img2.png")

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
	assert.Equal(t, "png", res.Format)
}

func TestFileLoaderMissingAndCorrupt(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.webp"), []byte("not an image"), 0o644))
	loader := NewFileLoader(root)

	missing := loader.Load(context.Background(), "/nope.webp")
	assert.False(t, missing.OK())
	assert.ErrorIs(t, missing.Err, &serrors.StoreError{Type: serrors.ErrorTypeAsset, Code: serrors.ErrCodeAssetNotFound})

	corrupt := loader.Load(context.Background(), "/broken.webp")
	assert.False(t, corrupt.OK())
	assert.ErrorIs(t, corrupt.Err, &serrors.StoreError{Type: serrors.ErrorTypeAsset, Code: serrors.ErrCodeAssetDecode})
}

func TestFileLoaderRejectsTraversal(t *testing.T) {
	loader := NewFileLoader(t.TempDir())
	for _, ref := range []Ref{"/../etc/passwd", "../../secret.png", ""} {
		res := loader.Load(context.Background(), ref)
		assert.False(t, res.OK(), "ref %q should fail", ref)
	}
}

func TestFileLoaderStripsQuery(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 2, 2)
	res := NewFileLoader(root).Load(context.Background(), "/a.png?v=3")
	assert.True(t, res.OK())
}

func TestFileLoaderRemoteIsLoaded(t *testing.T) {
	res := NewFileLoader(t.TempDir()).Load(context.Background(), "https://picsum.photos/300/200?random=4")
	assert.True(t, res.OK())
	assert.Equal(t, "remote", res.Format)
}

func TestLoadAllYieldsEveryResultThenCloses(t *testing.T) {
	refs := []Ref{"/a", "/b", "/c", "/d"}
	loader := LoaderFunc(func(_ context.Context, ref Ref) Result {
		if ref == "/c" {
			return Result{Ref: ref, Err: assert.AnError}
		}
		return Result{Ref: ref}
	})

	var got []Ref
	failures := 0
	for res := range LoadAll(context.Background(), loader, refs) {
		got = append(got, res.Ref)
		if !res.OK() {
			failures++
		}
	}

	assert.ElementsMatch(t, refs, got)
	assert.Equal(t, 1, failures)
}

func TestLoadAllEmpty(t *testing.T) {
	ch := LoadAll(context.Background(), LoaderFunc(func(context.Context, Ref) Result {
		t.Fatal("loader must not be called")
		return Result{}
	}), nil)

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}

func TestCachedLoader(t *testing.T) {
	var calls int32
	next := LoaderFunc(func(_ context.Context, ref Ref) Result {
		atomic.AddInt32(&calls, 1)
		return Result{Ref: ref, Width: 1}
	})
	cache := NewCachedLoader(next)

	for i := 0; i < 5; i++ {
		cache.Load(context.Background(), "/same.webp")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cache.Invalidate()
	cache.Load(context.Background(), "/same.webp")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedLoaderSkipsCancelledFailures(t *testing.T) {
	var calls int32
	next := LoaderFunc(func(ctx context.Context, ref Ref) Result {
		atomic.AddInt32(&calls, 1)
		return Result{Ref: ref, Err: ctx.Err()}
	})
	cache := NewCachedLoader(next)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cache.Load(ctx, "/x.webp")
	cache.Load(context.Background(), "/x.webp")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedLoaderSkipsLoaderTimeouts(t *testing.T) {
	var calls int32
	next := LoaderFunc(func(ctx context.Context, ref Ref) Result {
		if atomic.AddInt32(&calls, 1) == 1 {
			// The wrapped loader times out on its own deadline while the
			// caller's context stays live.
			loadCtx, cancel := context.WithTimeout(ctx, time.Nanosecond)
			defer cancel()
			<-loadCtx.Done()
			return Result{Ref: ref, Err: serrors.NewAssetError(serrors.ErrCodeAssetTimeout, "timed out", loadCtx.Err())}
		}
		return Result{Ref: ref, Width: 4, Height: 3}
	})
	cache := NewCachedLoader(next)

	first := cache.Load(context.Background(), "/slow.webp")
	require.Error(t, first.Err)

	second := cache.Load(context.Background(), "/slow.webp")
	require.NoError(t, second.Err)
	assert.Equal(t, 4, second.Width)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	cache.Load(context.Background(), "/slow.webp")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "successful result is cached")
}

func TestCachedLoaderSharesInFlightLoads(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	next := LoaderFunc(func(_ context.Context, ref Ref) Result {
		atomic.AddInt32(&calls, 1)
		<-release
		return Result{Ref: ref, Width: 1}
	})
	cache := NewCachedLoader(next)

	const pages = 8
	results := make([]Result, pages)
	var wg sync.WaitGroup
	for i := 0; i < pages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Load(context.Background(), "/shared.webp")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, res := range results {
		assert.True(t, res.OK())
		assert.Equal(t, 1, res.Width)
	}
}

func TestCachedLoaderWaiterRetriesAfterTimeout(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	next := LoaderFunc(func(_ context.Context, ref Ref) Result {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			return Result{Ref: ref, Err: serrors.NewAssetError(serrors.ErrCodeAssetTimeout, "timed out", context.DeadlineExceeded)}
		}
		return Result{Ref: ref, Width: 2}
	})
	cache := NewCachedLoader(next)

	leader := make(chan Result, 1)
	go func() { leader <- cache.Load(context.Background(), "/x.webp") }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	waiter := make(chan Result, 1)
	go func() { waiter <- cache.Load(context.Background(), "/x.webp") }()
	time.Sleep(10 * time.Millisecond)
	close(release)

	assert.Error(t, (<-leader).Err)
	got := <-waiter
	assert.True(t, got.OK())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedLoaderWaiterHonorsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	next := LoaderFunc(func(ctx context.Context, ref Ref) Result {
		select {
		case <-release:
			return Result{Ref: ref}
		case <-ctx.Done():
			return Result{Ref: ref, Err: ctx.Err()}
		}
	})
	cache := NewCachedLoader(next)

	go cache.Load(context.Background(), "/stuck.webp")
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := cache.Load(ctx, "/stuck.webp")
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}
