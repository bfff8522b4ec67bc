package audit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/page"
)

const cleanPage = `<!DOCTYPE html><html lang="en"><head><title>Shop</title></head><body>
<nav aria-label="Main navigation"><a href="/">Home</a></nav>
<h1>Our Products</h1>
<label for="q">Search</label><input id="q" type="search">
<img src="/a.jpg" alt="Ring">
<button type="button" aria-label="Close"></button>
<nav aria-label="Pagination"><a href="/shop" aria-current="page">1</a><a href="/shop/page/2">2</a></nav>
</body></html>`

func rules(r *Report) []string {
	ids := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		ids = append(ids, v.Rule)
	}
	return ids
}

func TestAuditCleanPage(t *testing.T) {
	report, err := Audit(strings.NewReader(cleanPage), "/shop")
	require.NoError(t, err)
	assert.True(t, report.Passed(), "%v", report.Violations)
	assert.Equal(t, "/shop", report.Route)
}

func TestAuditViolations(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		rule    string
		element string
	}{
		{"missing alt", `alt="Ring"`, ``, "image-alt", "img"},
		{"unnamed button", `aria-label="Close"`, `class="x"`, "button-name", "button.x"},
		{"no h1", `<h1>Our Products</h1>`, ``, "page-has-heading-one", "document"},
		{"two h1", `<h1>Our Products</h1>`, `<h1>A</h1><h1>B</h1>`, "page-has-heading-one", "h1"},
		{"unlabelled nav", `<nav aria-label="Main navigation">`, `<nav>`, "landmark-nav-label", "nav"},
		{"no current page", ` aria-current="page"`, ``, "pagination-current", `nav[aria-label="Pagination"]`},
		{"no lang", ` lang="en"`, ``, "html-has-lang", "html"},
		{"empty title", `<title>Shop</title>`, `<title> </title>`, "document-title", "document"},
		{"unlabelled input", `<label for="q">Search</label>`, ``, "label", "input#q"},
		{"duplicate id", `<img src`, `<span id="q"></span><img src`, "duplicate-id", "span#q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(cleanPage, tt.from, tt.to, 1)
			require.NotEqual(t, cleanPage, doc)

			report, err := Audit(strings.NewReader(doc), "/")
			require.NoError(t, err)
			require.Equal(t, []string{tt.rule}, rules(report))
			assert.Equal(t, tt.element, report.Violations[0].Element)
			assert.NotEmpty(t, report.Violations[0].HelpURL)
		})
	}
}

func TestReportCount(t *testing.T) {
	r := &Report{Violations: []Violation{{Impact: ImpactCritical}, {Impact: ImpactModerate}, {Impact: ImpactCritical}}}
	assert.Equal(t, 2, r.Count(ImpactCritical))
	assert.Equal(t, 0, r.Count(ImpactSerious))
	assert.False(t, r.Passed())
}

func TestRouteFor(t *testing.T) {
	dir := filepath.Join("out", "dist")
	assert.Equal(t, "/", routeFor(dir, filepath.Join(dir, "index.html")))
	assert.Equal(t, "/shop/page/2", routeFor(dir, filepath.Join(dir, "shop", "page", "2", "index.html")))
}

// Every page the site generates must pass once its assets settle.
func TestRenderedSitePasses(t *testing.T) {
	loader := asset.LoaderFunc(func(_ context.Context, ref asset.Ref) asset.Result {
		return asset.Result{Ref: ref, Width: 10, Height: 10}
	})
	site := page.NewSite("SilverHub", catalog.Default())
	dir := t.TempDir()

	for _, p := range site.Pages() {
		s := page.NewSession(p, loader)
		s.Mount(context.Background())
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		require.NoError(t, s.Wait(ctx))
		cancel()

		var b strings.Builder
		require.NoError(t, s.Render(context.Background(), &b, ""))
		s.Unmount()

		out := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(p.Route, "/")), "index.html")
		require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))
		require.NoError(t, os.WriteFile(out, []byte(b.String()), 0o644))
	}

	reports, err := AuditDir(context.Background(), dir, 2, nil)
	require.NoError(t, err)
	require.Len(t, reports, len(site.Pages()))
	assert.Equal(t, "/", reports[0].Route)
	for _, r := range reports {
		assert.True(t, r.Passed(), "%s: %+v", r.Route, r.Violations)
	}
}

func TestAuditDirCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(cleanPage), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AuditDir(ctx, dir, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
