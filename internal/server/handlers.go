package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/conneroisu/sparkle/internal/build"
	"github.com/conneroisu/sparkle/internal/livereload"
)

const notFoundPage = `<!DOCTYPE html><html lang="en"><head><title>Not found</title></head>` +
	`<body><h1>404</h1><p>No page has been generated at this path yet.</p></body></html>`

// Handler returns the preview routes.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(livereload.Path, s.hub)
	mux.HandleFunc("/_sparkle/health", s.handleHealth)
	mux.HandleFunc("/_sparkle/status", s.handleStatus)
	mux.HandleFunc("/_sparkle/components", s.handleComponents)
	mux.HandleFunc("/", s.handleStatic)
	return s.logRequests(mux)
}

func (s *PreviewServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != livereload.Path {
			s.logger.Debug(r.Context(), "Request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
		}
	})
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": s.hub.Count(),
	})
}

func (s *PreviewServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Build   BuildStatus            `json:"build"`
		Metrics *build.MetricsSnapshot `json:"metrics,omitempty"`
	}{Build: s.Status()}
	if s.metrics != nil {
		snap := s.metrics.Snapshot()
		body.Metrics = &snap
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *PreviewServer) handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.GetAll())
}

// handleStatic serves the output directory. HTML responses get the reload
// script and, after a failed build, the error overlay.
func (s *PreviewServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	file := filepath.Join(s.opts.OutputDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if (err == nil && info.IsDir()) || (err != nil && path.Ext(clean) == "") {
		file = filepath.Join(file, "index.html")
	}

	if !strings.HasSuffix(file, ".html") {
		if _, err := os.Stat(file); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, file)
		return
	}

	status := http.StatusOK
	doc, err := os.ReadFile(file)
	if err != nil {
		status = http.StatusNotFound
		doc = []byte(notFoundPage)
	}

	s.stateMutex.RLock()
	overlay := s.collector.ErrorOverlay()
	s.stateMutex.RUnlock()
	if overlay != "" {
		doc = livereload.InsertBeforeBody(doc, overlay)
	}
	doc = livereload.Inject(doc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodGet {
		_, _ = w.Write(doc)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
