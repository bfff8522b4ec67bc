package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSeverityString(t *testing.T) {
	testCases := []struct {
		severity ErrorSeverity
		expected string
	}{
		{ErrorSeverityInfo, "info"},
		{ErrorSeverityWarning, "warning"},
		{ErrorSeverityError, "error"},
		{ErrorSeverityFatal, "fatal"},
		{ErrorSeverity(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.severity.String())
		})
	}
}

func TestPageErrorError(t *testing.T) {
	err := PageError{
		Route:     "/shop",
		Component: "ProductGrid",
		Message:   "render failed",
		Severity:  ErrorSeverityError,
	}

	errorStr := err.Error()
	assert.Contains(t, errorStr, "/shop")
	assert.Contains(t, errorStr, "ProductGrid")
	assert.Contains(t, errorStr, "error")
	assert.Contains(t, errorStr, "render failed")

	noComponent := PageError{Route: "/", Message: "boom", Severity: ErrorSeverityWarning}
	assert.Equal(t, "/: warning: boom", noComponent.Error())
}

func TestErrorCollectorAdd(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())

	before := time.Now()
	collector.Add(PageError{Route: "/", Component: "Hero", Message: "bad", Severity: ErrorSeverityError})
	after := time.Now()

	require.True(t, collector.HasErrors())
	require.Len(t, collector.GetErrors(), 1)

	added := collector.GetErrors()[0]
	assert.Equal(t, "Hero", added.Component)
	assert.True(t, !added.Timestamp.Before(before) && !added.Timestamp.After(after))
}

func TestErrorCollectorAddErrorIgnoresNil(t *testing.T) {
	collector := NewErrorCollector()
	collector.AddError(nil)
	assert.False(t, collector.HasErrors())

	collector.AddError(fmt.Errorf("disk full"))
	assert.True(t, collector.HasErrors())
	assert.Len(t, collector.GetAllErrors(), 1)
}

func TestErrorCollectorFilters(t *testing.T) {
	collector := NewErrorCollector()
	collector.Add(PageError{Route: "/", Component: "Hero"})
	collector.Add(PageError{Route: "/", Component: "Selection"})
	collector.Add(PageError{Route: "/shop", Component: "ProductGrid"})

	assert.Len(t, collector.GetErrorsByRoute("/"), 2)
	assert.Len(t, collector.GetErrorsByRoute("/shop"), 1)
	assert.Len(t, collector.GetErrorsByComponent("Hero"), 1)
	assert.Empty(t, collector.GetErrorsByComponent("Footer"))

	collector.Clear()
	assert.False(t, collector.HasErrors())
}

func TestErrorCollectorConcurrentAdd(t *testing.T) {
	collector := NewErrorCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			collector.Add(PageError{Route: fmt.Sprintf("/p/%d", i)})
		}(i)
	}
	wg.Wait()
	assert.Len(t, collector.GetErrors(), 50)
}

func TestErrorOverlayEscapesMessages(t *testing.T) {
	collector := NewErrorCollector()
	assert.Empty(t, collector.ErrorOverlay())

	collector.Add(PageError{Route: "/", Message: "<script>alert(1)</script>", Severity: ErrorSeverityError})
	collector.AddError(fmt.Errorf("a & b"))

	overlay := collector.ErrorOverlay()
	assert.Contains(t, overlay, "sparkle-error-overlay")
	assert.NotContains(t, overlay, "<script>alert(1)</script>")
	assert.Contains(t, overlay, "&lt;script&gt;")
	assert.Contains(t, overlay, "a &amp; b")
}

func TestStoreErrorFormatting(t *testing.T) {
	err := NewBuildError(ErrCodeRenderFailed, "render failed", fmt.Errorf("template panic")).
		WithComponent("Hero").
		WithRoute("/")

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "[ERR_RENDER_FAILED]"))
	assert.Contains(t, msg, "component:Hero")
	assert.Contains(t, msg, "route:/")
	assert.Contains(t, msg, "template panic")
}

func TestStoreErrorIsMatchesTypeAndCode(t *testing.T) {
	err := WrapAsset(fmt.Errorf("no such file"), ErrCodeAssetNotFound, "/images/a.webp", "Hero")
	wrapped := fmt.Errorf("loading: %w", err)

	assert.True(t, errors.Is(wrapped, &StoreError{Type: ErrorTypeAsset, Code: ErrCodeAssetNotFound}))
	assert.False(t, errors.Is(wrapped, &StoreError{Type: ErrorTypeAsset, Code: ErrCodeAssetDecode}))
	assert.True(t, IsAssetError(wrapped))
	assert.True(t, IsRecoverable(wrapped))
	assert.Equal(t, "/images/a.webp", err.Context["ref"])
}

func TestWrapPreservesInnerContext(t *testing.T) {
	inner := NewAssetError(ErrCodeAssetDecode, "bad header", nil).WithComponent("Collections")
	outer := WrapBuild(inner, ErrCodeRenderFailed, "page failed", "/")

	assert.Equal(t, "Collections", outer.Component)
	assert.Equal(t, "/", outer.Route)
	assert.True(t, IsBuildError(outer))
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "x", "y"))

	ioErr := WrapIO(fmt.Errorf("denied"), ErrCodeWriteFailed, "dist/index.html")
	assert.False(t, IsRecoverable(ioErr))
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	one := fmt.Errorf("one")
	assert.Equal(t, one, Combine(nil, one))

	joined := Combine(one, fmt.Errorf("two"))
	require.Error(t, joined)
	assert.ErrorIs(t, joined, one)
	assert.Contains(t, joined.Error(), "two")
}

type recordingLogger struct {
	warns  []string
	errors []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestErrorHandlerLevels(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)
	ctx := context.Background()

	handler.Handle(ctx, nil)
	handler.Handle(ctx, NewAssetError(ErrCodeAssetTimeout, "slow", nil))
	handler.Handle(ctx, NewConfigError(ErrCodeInvalidConfig, "bad port"))
	handler.Handle(ctx, fmt.Errorf("plain"))

	assert.Len(t, logger.warns, 1)
	assert.Len(t, logger.errors, 2)
}
