package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/sparkle/internal/audit"
)

// execute runs the root command with args from a clean working directory
// and fresh global state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	cfgFile = ""
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

func TestInvalidFormatRejected(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestListCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "Hero")
	assert.Contains(t, out, "ProductGrid")
	assert.Contains(t, out, "Total: 6 sections")

	out, err = execute(t, "list", "--format", "yaml")
	require.NoError(t, err)
	var components []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &components))
	assert.Len(t, components, 6)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created .sparkle.yml")
	assert.FileExists(t, filepath.Join(dir, ".sparkle.yml"))
	assert.FileExists(t, filepath.Join(dir, "theme.toml"))
	assert.DirExists(t, filepath.Join(dir, "public", "images"))

	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept existing .sparkle.yml")

	// The written config is picked up by default and points at the theme.
	out, err = execute(t, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "rose-gold")
}

func TestThemeCSS(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "theme", "--css")
	require.NoError(t, err)
	assert.Contains(t, out, "--color-rose-gold:#D4A5A5;")
}

func TestThemeMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "theme", "--theme", "absent.toml")
	assert.Error(t, err)
}

func TestBuildAndAuditCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	out := filepath.Join(dir, "site")

	stdout, err := execute(t, "build", "--out", out, "--gate-timeout", "2s", "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Built 4 pages")

	for _, rel := range []string{"index.html", "shop/index.html", "shop/page/3/index.html", "sitemap.xml", "build-manifest.json"} {
		assert.FileExists(t, filepath.Join(out, rel))
	}

	stdout, err = execute(t, "audit", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 pages audited, 0 violations")
}

func TestAuditFailOn(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte(`<!DOCTYPE html><html lang="en"><head><title>x</title></head><body><h1>x</h1><img src="a.png"></body></html>`), 0o644))

	_, err := execute(t, "audit", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical")

	stdout, err := execute(t, "audit", dir, "--fail-on", "none", "--format", "json")
	require.NoError(t, err)
	var reports []*audit.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "image-alt", reports[0].Violations[0].Rule)
}

func TestOptimizeCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(public, 0o755))

	f, err := os.Create(filepath.Join(public, "ring.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, f.Close())

	stdout, err := execute(t, "optimize", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "webp: ring.webp")
	assert.Contains(t, stdout, "width: 40")

	target := filepath.Join(dir, "images.json")
	stdout, err = execute(t, "optimize", "--write", target)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Planned 1 images (0 skipped)")
	assert.FileExists(t, target)
}

func TestFailing(t *testing.T) {
	reports := []*audit.Report{
		{Route: "/", Violations: []audit.Violation{{Impact: audit.ImpactModerate}, {Impact: audit.ImpactCritical}}},
		{Route: "/shop", Violations: []audit.Violation{{Impact: audit.ImpactSerious}}},
	}

	assert.Equal(t, 1, failing(reports, "critical"))
	assert.Equal(t, 2, failing(reports, "serious"))
	assert.Equal(t, 3, failing(reports, "moderate"))
	assert.Equal(t, 0, failing(reports, "none"))
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat("json", outputFormats))
	assert.Error(t, ValidateFormat("xml", outputFormats))
}
