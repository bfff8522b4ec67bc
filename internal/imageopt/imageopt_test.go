package imageopt

import (
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Variants
	}{
		{
			name: "jpg with leading slash",
			in:   "/images/modal/myimg52.jpg",
			want: Variants{
				Src:         "/images/modal/myimg52.jpg",
				WebP:        "/images/modal/myimg52.webp",
				Placeholder: "/images/modal/myimg52-placeholder.jpg",
				Thumbnail:   "/images/modal/myimg52-thumb.jpg",
			},
		},
		{
			name: "webp without leading slash",
			in:   "images/products/rings/img2.webp",
			want: Variants{
				Src:         "/images/products/rings/img2.webp",
				WebP:        "/images/products/rings/img2.webp",
				Placeholder: "/images/products/rings/img2-placeholder.webp",
				Thumbnail:   "/images/products/rings/img2-thumb.webp",
			},
		},
		{
			name: "uppercase webp keeps path",
			in:   "/a/B.WEBP",
			want: Variants{Src: "/a/B.WEBP", WebP: "/a/B.WEBP", Placeholder: "/a/B.WEBP", Thumbnail: "/a/B.WEBP"},
		},
		{
			name: "unknown extension untouched",
			in:   "/a/logo.svg",
			want: Variants{Src: "/a/logo.svg", WebP: "/a/logo.svg", Placeholder: "/a/logo.svg", Thumbnail: "/a/logo.svg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Optimize(tt.in))
		})
	}
}

func TestDataPointsEverythingAtOriginal(t *testing.T) {
	d := Data("/images/collections/img32.webp")
	assert.Equal(t, d.Original, d.WebP)
	assert.Equal(t, d.Original, d.Optimized)
	assert.Equal(t, d.Original, d.Placeholder)
	require.Len(t, d.Responsive, 4)
	for _, size := range OrderedSizes {
		assert.Equal(t, d.Original, d.Responsive[size])
	}
	assert.Empty(t, d.SrcSet())
}

func TestSrcSetWithDistinctVariants(t *testing.T) {
	d := Data("/a.jpg")
	d.Responsive[SizeSM] = "/a-sm.jpg"
	d.Responsive[SizeXL] = "/a-xl.jpg"
	assert.Equal(t, "/a-sm.jpg 320w, /a.jpg 768w, /a.jpg 1024w, /a-xl.jpg 1920w", d.SrcSet())
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("myimg1.webp"))
	assert.True(t, IsSource("photo.JPEG"))
	assert.False(t, IsSource("photo-placeholder.jpg"))
	assert.False(t, IsSource("photo-lg.png"))
	assert.False(t, IsSource("notes.txt"))
}

func TestBuildManifest(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "modal")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	f, err := os.Create(filepath.Join(sub, "myimg52.jpg"))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 64, 48)), nil))
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(filepath.Join(sub, "myimg52-sm.jpg"), []byte("variant"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "broken.png"), []byte("garbage"), 0o644))

	m, err := BuildManifest(context.Background(), dir, nil)
	require.NoError(t, err)

	require.Len(t, m.Images, 1)
	entry := m.Images[0]
	assert.Equal(t, 64, entry.Width)
	assert.Equal(t, 48, entry.Height)
	assert.Equal(t, "myimg52.webp", entry.Variants.WebP)
	assert.Equal(t, "myimg52-optimized.jpg", entry.Variants.Optimized)
	assert.Equal(t, "myimg52-placeholder.jpg", entry.Variants.Placeholder)
	assert.Equal(t, "myimg52-xl.jpg", entry.Variants.Responsive[SizeXL])
	assert.Equal(t, Quality, m.Quality)

	require.Len(t, m.Skipped, 1)
	assert.Contains(t, m.Skipped[0].Path, "broken.png")
}

func TestBuildManifestCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildManifest(ctx, dir, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
