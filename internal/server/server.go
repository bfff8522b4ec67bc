// Package server runs the development preview: it serves the generated
// site, rebuilds when public assets or the theme change and tells open tabs
// to reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/sparkle/internal/build"
	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/livereload"
	"github.com/conneroisu/sparkle/internal/logging"
	"github.com/conneroisu/sparkle/internal/page"
	"github.com/conneroisu/sparkle/internal/registry"
	"github.com/conneroisu/sparkle/internal/watcher"
)

// BuildFunc regenerates the whole site into the output directory. The
// returned site is used to refresh the component registry; result may be
// non-nil alongside an error when only some pages failed.
type BuildFunc func(ctx context.Context) (*page.Site, *build.Result, error)

// Options configures a PreviewServer.
type Options struct {
	Host           string
	Port           int
	OutputDir      string
	PublicDir      string
	ThemeFile      string
	AllowedOrigins []string
	Debounce       time.Duration
}

// Addr is host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// BuildStatus describes the most recent rebuild.
type BuildStatus struct {
	At       time.Time `json:"at"`
	Duration string    `json:"duration"`
	Pages    int       `json:"pages"`
	Forced   int       `json:"forced"`
	Errors   []string  `json:"errors,omitempty"`
	Changed  []string  `json:"changed,omitempty"`
	Routes   []string  `json:"routes,omitempty"`
}

// PreviewServer serves the output directory with live reload.
type PreviewServer struct {
	opts     Options
	build    BuildFunc
	hub      *livereload.Hub
	registry *registry.ComponentRegistry
	metrics  *build.BuildMetrics
	logger   logging.Logger

	buildMutex sync.Mutex // serializes rebuilds

	stateMutex sync.RWMutex
	status     BuildStatus
	collector  *serrors.ErrorCollector

	serverMutex  sync.Mutex
	httpServer   *http.Server
	shutdownOnce sync.Once
}

// New creates a server. metrics may be nil.
func New(opts Options, buildFn BuildFunc, metrics *build.BuildMetrics, logger logging.Logger) *PreviewServer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = watcher.DefaultDebounce
	}
	return &PreviewServer{
		opts:      opts,
		build:     buildFn,
		hub:       livereload.NewHub(logger, opts.AllowedOrigins...),
		registry:  registry.NewComponentRegistry(),
		metrics:   metrics,
		logger:    logger.WithComponent("server"),
		collector: serrors.NewErrorCollector(),
	}
}

// Registry exposes the leaf components seen by the latest build.
func (s *PreviewServer) Registry() *registry.ComponentRegistry { return s.registry }

// Status returns a copy of the latest build status.
func (s *PreviewServer) Status() BuildStatus {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.status
}

// Rebuild regenerates the site and notifies open tabs. changed lists the
// files that triggered it, if any.
func (s *PreviewServer) Rebuild(ctx context.Context, changed []string) error {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	start := time.Now()
	site, result, err := s.build(ctx)
	if site != nil {
		if n := s.registry.Sync(site); n > 0 {
			s.logger.Debug(ctx, "Registry updated", "events", n)
		}
	}

	status := BuildStatus{
		At:       start,
		Duration: time.Since(start).Round(time.Millisecond).String(),
		Changed:  changed,
		Routes:   s.affectedRoutes(changed),
	}
	collector := serrors.NewErrorCollector()
	if result != nil {
		if result.Manifest != nil {
			status.Pages = len(result.Manifest.Pages)
			for _, p := range result.Manifest.Pages {
				if p.Forced {
					status.Forced++
				}
			}
		}
		if result.Errors != nil {
			collector = result.Errors
		}
	}
	if err != nil && !collector.HasErrors() {
		collector.AddError(err)
	}
	for _, e := range collector.GetAllErrors() {
		status.Errors = append(status.Errors, e.Error())
	}

	s.stateMutex.Lock()
	s.status = status
	s.collector = collector
	s.stateMutex.Unlock()

	if err != nil {
		s.logger.Error(ctx, err, "Rebuild failed", "errors", len(status.Errors))
		s.hub.Error(strings.Join(status.Errors, "\n"))
		return err
	}

	route := ""
	if len(status.Routes) == 1 {
		route = status.Routes[0]
	}
	s.logger.Info(ctx, "Rebuilt", "pages", status.Pages, "forced", status.Forced, "duration", status.Duration)
	s.hub.Reload(route)
	return nil
}

// affectedRoutes maps changed public files to the routes that mount a leaf
// depending on them.
func (s *PreviewServer) affectedRoutes(changed []string) []string {
	if s.opts.PublicDir == "" {
		return nil
	}
	seen := make(map[string]bool)
	var routes []string
	for _, file := range changed {
		rel, err := filepath.Rel(s.opts.PublicDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		for _, route := range s.registry.RoutesUsing("/" + filepath.ToSlash(rel)) {
			if !seen[route] {
				seen[route] = true
				routes = append(routes, route)
			}
		}
	}
	return routes
}

func (s *PreviewServer) handleChanges(ctx context.Context, events []watcher.ChangeEvent) error {
	changed := make([]string, len(events))
	for i, e := range events {
		changed[i] = e.Path
		s.logger.Info(ctx, "File changed", "path", e.Path, "type", e.Type.String())
	}
	err := s.Rebuild(ctx, changed)
	if err != nil && serrors.IsBuildError(err) {
		// Page failures are already shown in the overlay.
		return nil
	}
	return err
}

func (s *PreviewServer) setupWatcher(ctx context.Context) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(s.opts.Debounce, s.logger)
	if err != nil {
		return nil, err
	}

	accept := []watcher.FileFilter{watcher.ExtFilter(".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".css", ".js")}
	if s.opts.PublicDir != "" {
		if err := fw.AddRecursive(s.opts.PublicDir); err != nil {
			s.logger.Warn(ctx, err, "Not watching public directory", "path", s.opts.PublicDir)
		}
	}
	if s.opts.ThemeFile != "" {
		// Editors replace files on save, so watch the directory.
		if err := fw.AddPath(filepath.Dir(s.opts.ThemeFile)); err != nil {
			s.logger.Warn(ctx, err, "Not watching theme file", "path", s.opts.ThemeFile)
		}
		accept = append(accept, watcher.PathFilter(s.opts.ThemeFile))
	}
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.AnyFilter(accept...))
	fw.AddHandler(s.handleChanges)
	fw.Start(ctx)
	return fw, nil
}

// Start builds once, then serves until ctx is cancelled or the listener
// fails. A failing initial build does not stop the server; its errors are
// shown in the browser.
func (s *PreviewServer) Start(ctx context.Context) error {
	if err := s.Rebuild(ctx, nil); err != nil {
		s.logger.Warn(ctx, err, "Initial build failed")
	}

	go s.hub.Run(ctx)

	fw, err := s.setupWatcher(ctx)
	if err != nil {
		return err
	}
	defer fw.Stop()

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Preview server listening", "url", "http://"+s.opts.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the HTTP server. It is safe to call more than once.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.serverMutex.Lock()
		srv := s.httpServer
		s.serverMutex.Unlock()
		if srv != nil {
			err = srv.Shutdown(ctx)
		}
	})
	return err
}
