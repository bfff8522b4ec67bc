package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/catalog"
	serrors "github.com/conneroisu/sparkle/internal/errors"
	"github.com/conneroisu/sparkle/internal/page"
)

func stubLoader() asset.Loader {
	return asset.LoaderFunc(func(_ context.Context, ref asset.Ref) asset.Result {
		return asset.Result{Ref: ref}
	})
}

func testOptions() StaticGenerationOptions {
	return StaticGenerationOptions{
		BaseURL:         "https://silverhub.example",
		GenerateSitemap: true,
		GenerateRobots:  true,
		GateTimeout:     2 * time.Second,
		Concurrency:     2,
		Version:         "test",
		BuildTime:       time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	site := page.NewSite("", catalog.Default())
	gen := NewStaticSiteGenerator(site, stubLoader(), out, WithCSS("body{}"))

	result, err := gen.Generate(context.Background(), testOptions())
	require.NoError(t, err)
	assert.False(t, result.Errors.HasErrors())

	for _, rel := range []string{
		"index.html",
		"shop/index.html",
		"shop/page/2/index.html",
		"shop/page/3/index.html",
		"sitemap.xml",
		"robots.txt",
		ManifestFile,
	} {
		assert.FileExists(t, filepath.Join(out, rel))
	}

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), "<style>body{}</style>")
	assert.NotContains(t, string(home), `id="sparkle-loading"`)

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://silverhub.example/shop/page/2/</loc>")
	assert.Contains(t, string(sitemap), "<lastmod>2026-01-02</lastmod>")

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://silverhub.example/sitemap.xml")

	m, err := ReadManifest(out)
	require.NoError(t, err)
	require.Len(t, m.Pages, 4)
	assert.Equal(t, "/", m.Pages[0].Route)
	assert.Equal(t, "test", m.Version)
	for _, p := range m.Pages {
		assert.Len(t, p.Hash, 64)
		assert.False(t, p.Forced)
		assert.Positive(t, p.Size)
		assert.Empty(t, p.FailedAssets)
	}
	assert.Contains(t, m.Pages[0].Leaves, "Hero")
}

func TestGenerateKeepsGoingWhenAPageFails(t *testing.T) {
	out := t.TempDir()
	// A file where the shop directory should be breaks every shop page.
	require.NoError(t, os.WriteFile(filepath.Join(out, "shop"), []byte("x"), 0o644))

	gen := NewStaticSiteGenerator(page.NewSite("", catalog.Default()), stubLoader(), out)
	result, err := gen.Generate(context.Background(), testOptions())
	require.Error(t, err)
	assert.True(t, serrors.IsBuildError(err))

	require.NotNil(t, result)
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.Len(t, result.Errors.GetErrorsByRoute("/shop"), 1)
	assert.Len(t, result.Manifest.Pages, 1)
	assert.NotEmpty(t, result.Manifest.Errors)
}

func TestGenerateRecordsFailedAssets(t *testing.T) {
	out := t.TempDir()
	loader := asset.LoaderFunc(func(_ context.Context, ref asset.Ref) asset.Result {
		if ref.IsRemote() {
			return asset.Result{Ref: ref, Err: os.ErrNotExist}
		}
		return asset.Result{Ref: ref}
	})

	gen := NewStaticSiteGenerator(page.NewSite("", catalog.Default()), loader, out)
	result, err := gen.Generate(context.Background(), StaticGenerationOptions{GateTimeout: 2 * time.Second})
	require.NoError(t, err)

	for _, p := range result.Manifest.Pages {
		if p.Route == "/" {
			assert.Empty(t, p.FailedAssets)
			continue
		}
		assert.NotEmpty(t, p.FailedAssets, p.Route)
	}
}

func TestGenerateCopiesPublic(t *testing.T) {
	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "images", "a.webp"), []byte("webp"), 0o644))

	out := t.TempDir()
	gen := NewStaticSiteGenerator(page.NewSite("", catalog.Default()), stubLoader(), out, WithPublicDir(public))
	opts := testOptions()
	opts.CopyPublic = true

	result, err := gen.Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "images", "a.webp"))
	assert.Len(t, result.Manifest.Assets["/images/a.webp"], 64)
}

func TestGenerateMinify(t *testing.T) {
	out := t.TempDir()
	gen := NewStaticSiteGenerator(page.NewSite("", catalog.Default()), stubLoader(), out)
	opts := testOptions()
	opts.MinifyHTML = true

	_, err := gen.Generate(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n\n")
	assert.NotContains(t, string(data), "\n  ")
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "index.html", pagePath("/"))
	assert.Equal(t, filepath.Join("shop", "index.html"), pagePath("/shop"))
	assert.Equal(t, filepath.Join("shop", "page", "2", "index.html"), pagePath("/shop/page/2/"))
	assert.Equal(t, filepath.Join("etc", "index.html"), pagePath("/../etc"))
}

func TestGenerateMissingPublicDir(t *testing.T) {
	out := t.TempDir()
	gen := NewStaticSiteGenerator(page.NewSite("", catalog.Default()), stubLoader(), out,
		WithPublicDir(filepath.Join(t.TempDir(), "absent")))
	opts := testOptions()
	opts.CopyPublic = true

	result, err := gen.Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.Manifest.Assets)
}
