// Package build renders every storefront page to static HTML once its load
// gate opens, and writes the sitemap, robots.txt and build manifest.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/conneroisu/sparkle/internal/asset"
	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/logging"
	"github.com/conneroisu/sparkle/internal/page"
)

// ManifestFile is the build manifest written at the output root.
const ManifestFile = "build-manifest.json"

// StaticSiteGenerator renders a site to a directory.
type StaticSiteGenerator struct {
	site      *page.Site
	loader    asset.Loader
	logger    logging.Logger
	outputDir string
	publicDir string
	css       string
	hashes    *HashProvider
	metrics   *BuildMetrics
}

// StaticGenerationOptions configures one Generate run.
type StaticGenerationOptions struct {
	BaseURL         string        `json:"base_url,omitempty"`
	GenerateSitemap bool          `json:"generate_sitemap"`
	GenerateRobots  bool          `json:"generate_robots"`
	MinifyHTML      bool          `json:"minify_html"`
	CopyPublic      bool          `json:"copy_public"`
	GateTimeout     time.Duration `json:"gate_timeout"`
	Concurrency     int           `json:"concurrency"`
	Version         string        `json:"version,omitempty"`
	BuildTime       time.Time     `json:"build_time"`
}

// StaticPage describes one generated page.
type StaticPage struct {
	Route        string    `json:"route"`
	Path         string    `json:"path"`
	Title        string    `json:"title"`
	Size         int64     `json:"size"`
	Hash         string    `json:"hash"`
	GeneratedAt  time.Time `json:"generated_at"`
	Forced       bool      `json:"forced"`
	Leaves       []string  `json:"leaves"`
	Missing      []string  `json:"missing,omitempty"`
	FailedAssets []string  `json:"failed_assets,omitempty"`
}

// Manifest is the content of build-manifest.json.
type Manifest struct {
	Version   string            `json:"version,omitempty"`
	BuildTime time.Time         `json:"build_time"`
	Pages     []StaticPage      `json:"pages"`
	Assets    map[string]string `json:"assets,omitempty"`
	Errors    []string          `json:"errors,omitempty"`
}

// Result is what Generate produced.
type Result struct {
	Files    []string
	Manifest *Manifest
	Errors   *serrors.ErrorCollector
}

// GeneratorOption configures a StaticSiteGenerator.
type GeneratorOption func(*StaticSiteGenerator)

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) GeneratorOption {
	return func(s *StaticSiteGenerator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPublicDir sets the directory copied into the output when
// CopyPublic is on.
func WithPublicDir(dir string) GeneratorOption {
	return func(s *StaticSiteGenerator) { s.publicDir = dir }
}

// WithCSS sets the stylesheet inlined into every page.
func WithCSS(css string) GeneratorOption {
	return func(s *StaticSiteGenerator) { s.css = css }
}

// WithMetrics records every Generate run in m.
func WithMetrics(m *BuildMetrics) GeneratorOption {
	return func(s *StaticSiteGenerator) { s.metrics = m }
}

// NewStaticSiteGenerator creates a generator for site writing to outputDir.
func NewStaticSiteGenerator(site *page.Site, loader asset.Loader, outputDir string, opts ...GeneratorOption) *StaticSiteGenerator {
	s := &StaticSiteGenerator{
		site:      site,
		loader:    loader,
		logger:    logging.NewNop(),
		outputDir: outputDir,
		hashes:    NewHashProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("build")
	return s
}

// Generate renders every page concurrently. A page that fails is recorded
// in the result's ErrorCollector and the others still build; the returned
// error is non-nil only when the output directory cannot be prepared or at
// least one page failed.
func (s *StaticSiteGenerator) Generate(ctx context.Context, options StaticGenerationOptions) (*Result, error) {
	start := time.Now()
	result, err := s.generate(ctx, options)
	if s.metrics != nil {
		s.metrics.RecordBuild(result, time.Since(start), err)
	}
	return result, err
}

func (s *StaticSiteGenerator) generate(ctx context.Context, options StaticGenerationOptions) (*Result, error) {
	op := logging.StartOperation(s.logger, "generate")

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeWriteFailed, s.outputDir)
	}
	if options.BuildTime.IsZero() {
		options.BuildTime = time.Now().UTC()
	}

	result := &Result{
		Manifest: &Manifest{Version: options.Version, BuildTime: options.BuildTime},
		Errors:   serrors.NewErrorCollector(),
	}

	pages := s.site.Pages()
	built := make([]*StaticPage, len(pages))

	p := pool.New().WithMaxGoroutines(max(options.Concurrency, 1))
	for i, pg := range pages {
		p.Go(func() {
			sp, err := s.generatePage(ctx, pg, options)
			if err != nil {
				s.logger.Error(ctx, err, "Page failed", "route", pg.Route)
				result.Errors.Add(serrors.PageError{
					Route:    pg.Route,
					Message:  err.Error(),
					Severity: serrors.ErrorSeverityError,
				})
				return
			}
			built[i] = sp
		})
	}
	p.Wait()

	for _, sp := range built {
		if sp == nil {
			continue
		}
		result.Manifest.Pages = append(result.Manifest.Pages, *sp)
		result.Files = append(result.Files, sp.Path)
	}

	if options.CopyPublic && s.publicDir != "" {
		assets, files, err := s.copyPublic(ctx)
		if err != nil {
			result.Errors.AddError(err)
		}
		result.Manifest.Assets = assets
		result.Files = append(result.Files, files...)
	}

	if options.GenerateSitemap {
		file, err := s.generateSitemap(result.Manifest.Pages, options)
		if err != nil {
			result.Errors.AddError(err)
		} else {
			result.Files = append(result.Files, file)
		}
	}

	if options.GenerateRobots {
		file, err := s.generateRobotsTxt(options)
		if err != nil {
			result.Errors.AddError(err)
		} else {
			result.Files = append(result.Files, file)
		}
	}

	for _, err := range result.Errors.GetAllErrors() {
		result.Manifest.Errors = append(result.Manifest.Errors, err.Error())
	}
	file, err := s.writeManifest(result.Manifest)
	if err != nil {
		result.Errors.AddError(err)
	} else {
		result.Files = append(result.Files, file)
	}

	if result.Errors.HasErrors() {
		errs := result.Errors.GetAllErrors()
		op.EndWithError(ctx, errs[0])
		return result, serrors.NewBuildError(serrors.ErrCodeRenderFailed,
			fmt.Sprintf("%d build error(s)", len(errs)), serrors.Combine(errs...))
	}

	op.End(ctx, "pages", len(result.Manifest.Pages), "files", len(result.Files))
	return result, nil
}

// generatePage mounts pg, waits for its gate, renders and writes it.
func (s *StaticSiteGenerator) generatePage(ctx context.Context, pg *page.Page, options StaticGenerationOptions) (*StaticPage, error) {
	sess := page.NewSession(pg, s.loader,
		page.WithGateTimeout(options.GateTimeout),
		page.WithSessionLogger(s.logger))
	defer sess.Unmount()

	sess.Mount(ctx)
	if err := sess.Wait(ctx); err != nil {
		return nil, serrors.WrapBuild(err, serrors.ErrCodeGateInterrupted, "load gate did not open", pg.Route)
	}

	var buf bytes.Buffer
	if err := sess.Render(ctx, &buf, s.css); err != nil {
		return nil, serrors.WrapBuild(err, serrors.ErrCodeRenderFailed, "render failed", pg.Route)
	}

	html := buf.Bytes()
	if options.MinifyHTML {
		html = []byte(minifyHTML(string(html)))
	}

	out := filepath.Join(s.outputDir, pagePath(pg.Route))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeWriteFailed, filepath.Dir(out)).WithRoute(pg.Route)
	}
	if err := os.WriteFile(out, html, 0o644); err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeWriteFailed, out).WithRoute(pg.Route)
	}

	snap := sess.Snapshot()
	var failed []string
	for _, r := range sess.Results() {
		if !r.OK() {
			failed = append(failed, string(r.Ref))
		}
	}
	sort.Strings(failed)

	if snap.Forced {
		s.logger.Warn(ctx, nil, "Page built after gate timeout", "route", pg.Route, "missing", snap.Missing)
	}

	return &StaticPage{
		Route:        pg.Route,
		Path:         out,
		Title:        pg.Title,
		Size:         int64(len(html)),
		Hash:         s.hashes.HashBytes(html),
		GeneratedAt:  time.Now().UTC(),
		Forced:       snap.Forced,
		Leaves:       pg.LeafIDs(),
		Missing:      snap.Missing,
		FailedAssets: failed,
	}, nil
}

// copyPublic mirrors the public directory into the output and hashes each
// copied file.
func (s *StaticSiteGenerator) copyPublic(ctx context.Context) (map[string]string, []string, error) {
	assets := make(map[string]string)
	var files []string

	if _, err := os.Stat(s.publicDir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn(ctx, nil, "Public directory missing, nothing copied", "dir", s.publicDir)
		return assets, nil, nil
	}

	err := filepath.WalkDir(s.publicDir, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.publicDir, src)
		if err != nil {
			return err
		}
		dst := filepath.Join(s.outputDir, rel)
		if err := copyFile(src, dst); err != nil {
			return serrors.WrapIO(err, serrors.ErrCodeWriteFailed, dst)
		}
		hash, err := s.hashes.HashFile(dst)
		if err != nil {
			return serrors.WrapIO(err, serrors.ErrCodeWriteFailed, dst)
		}
		assets["/"+filepath.ToSlash(rel)] = hash
		files = append(files, dst)
		return nil
	})
	return assets, files, err
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// generateSitemap writes sitemap.xml listing every built page.
func (s *StaticSiteGenerator) generateSitemap(pages []StaticPage, options StaticGenerationOptions) (string, error) {
	sitemapPath := filepath.Join(s.outputDir, "sitemap.xml")
	base := strings.TrimSuffix(baseURL(options), "/")

	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		priority := 0.8
		if p.Route == "/" {
			priority = 1.0
		}
		loc := base + p.Route
		if p.Route != "/" {
			loc += "/"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        loc,
			LastMod:    options.BuildTime.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   priority,
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", serrors.NewBuildError(serrors.ErrCodeRenderFailed, "failed to encode sitemap", err)
	}
	data = append([]byte(xml.Header), append(data, '\n')...)
	if err := os.WriteFile(sitemapPath, data, 0o644); err != nil {
		return "", serrors.WrapIO(err, serrors.ErrCodeWriteFailed, sitemapPath)
	}
	return sitemapPath, nil
}

// generateRobotsTxt writes robots.txt, pointing at the sitemap when one is
// generated.
func (s *StaticSiteGenerator) generateRobotsTxt(options StaticGenerationOptions) (string, error) {
	robotsPath := filepath.Join(s.outputDir, "robots.txt")

	content := "User-agent: *\nAllow: /\n"
	if options.GenerateSitemap {
		content += fmt.Sprintf("Sitemap: %s/sitemap.xml\n", strings.TrimSuffix(baseURL(options), "/"))
	}

	if err := os.WriteFile(robotsPath, []byte(content), 0o644); err != nil {
		return "", serrors.WrapIO(err, serrors.ErrCodeWriteFailed, robotsPath)
	}
	return robotsPath, nil
}

func (s *StaticSiteGenerator) writeManifest(m *Manifest) (string, error) {
	manifestPath := filepath.Join(s.outputDir, ManifestFile)
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].Route < m.Pages[j].Route })

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", serrors.NewBuildError(serrors.ErrCodeRenderFailed, "failed to encode manifest", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return "", serrors.WrapIO(err, serrors.ErrCodeWriteFailed, manifestPath)
	}
	return manifestPath, nil
}

// ReadManifest loads a manifest written by Generate.
func ReadManifest(outputDir string) (*Manifest, error) {
	p := filepath.Join(outputDir, ManifestFile)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, serrors.WrapIO(err, serrors.ErrCodeAssetNotFound, p)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, serrors.NewBuildError(serrors.ErrCodeInvalidConfig, "invalid build manifest", err)
	}
	return &m, nil
}

// pagePath maps a route to its index.html relative path.
func pagePath(route string) string {
	clean := strings.Trim(path.Clean("/"+route), "/")
	if clean == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(clean), "index.html")
}

func baseURL(options StaticGenerationOptions) string {
	if options.BaseURL == "" {
		return "http://localhost:8080"
	}
	return options.BaseURL
}

// minifyHTML trims each line and drops blank ones. Inline script and style
// bodies survive because only leading and trailing whitespace is removed.
func minifyHTML(html string) string {
	lines := strings.Split(html, "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		b.WriteString(trimmed)
		b.WriteString("\n")
	}
	return b.String()
}
