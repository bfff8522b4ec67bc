//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"image"
	"image/jpeg"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/build"
	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/page"
	"github.com/conneroisu/sparkle/internal/server"
)

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// waitForServer polls addr until it accepts connections.
func waitForServer(t *testing.T, addr string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s not ready after %s", addr, timeout)
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, w, h)), nil))
}

// newProject lays out a public dir holding every catalog image and returns
// it with an output dir.
func newProject(t *testing.T) (public, out string) {
	t.Helper()
	root := t.TempDir()
	public = filepath.Join(root, "public")
	out = filepath.Join(root, "dist")
	for _, p := range catalog.Default().AllImagePaths() {
		// Content sniffing ignores the extension, so JPEG data serves for
		// every catalog image.
		writeJPEG(t, filepath.Join(public, filepath.FromSlash(p)), 8, 8)
	}
	return public, out
}

func buildFunc(public, out string, metrics *build.BuildMetrics) server.BuildFunc {
	return func(ctx context.Context) (*page.Site, *build.Result, error) {
		site := page.NewSite("", catalog.Default())
		loader := asset.NewFileLoader(public, asset.WithTimeout(2*time.Second))
		gen := build.NewStaticSiteGenerator(site, loader, out,
			build.WithPublicDir(public), build.WithMetrics(metrics))
		res, err := gen.Generate(ctx, build.StaticGenerationOptions{
			GateTimeout: 5 * time.Second,
			Concurrency: 2,
			CopyPublic:  true,
		})
		return site, res, err
	}
}

func hostPort(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}
