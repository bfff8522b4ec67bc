package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/conneroisu/sparkle/internal/errors"
)

func TestDefaultPalette(t *testing.T) {
	th := Default()
	require.NoError(t, th.Validate())
	assert.Equal(t, "#D4A5A5", th.Colors["rose-gold"])
	assert.Equal(t, []string{"charcoal", "emerald", "ivory", "rose-gold", "taupe"}, th.ColorNames())
	assert.Equal(t, "Playfair Display", th.Fonts.Display[0])
}

func TestParseOverrides(t *testing.T) {
	th, err := Parse([]byte(`
name = "evening"

[colors]
ivory = "#101010"
gold = "#C9A227"

[fonts]
sans = ["Helvetica Neue", "Arial"]
`))
	require.NoError(t, err)

	assert.Equal(t, "evening", th.Name)
	assert.Equal(t, "#101010", th.Colors["ivory"])
	assert.Equal(t, "#C9A227", th.Colors["gold"])
	assert.Equal(t, "#333333", th.Colors["charcoal"])
	assert.Equal(t, []string{"Playfair Display", "serif"}, th.Fonts.Display)
	assert.Equal(t, []string{"Helvetica Neue", "Arial"}, th.Fonts.Sans)
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse([]byte("[colors]\ntaupe = \"tan\"\n"))
	require.Error(t, err)

	var se *serrors.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, serrors.ErrCodeInvalidColor, se.Code)
	assert.Equal(t, "taupe", se.Context["color"])
}

func TestParseRejectsUnsafeFontNames(t *testing.T) {
	tests := []struct {
		name  string
		toml  string
		stack string
	}{
		{"closes style element", "[fonts]\nsans = [\"Inter</style><script>alert(1)</script>\"]\n", "sans"},
		{"ends declaration", "[fonts]\ndisplay = [\"Serif;}body{display:none\"]\n", "display"},
		{"breaks quoting", "[fonts]\ndisplay = [\"Playfair' Display\"]\n", "display"},
		{"blank", "[fonts]\nsans = [\"  \"]\n", "sans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)

			var se *serrors.StoreError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, serrors.ErrCodeInvalidConfig, se.Code)
			assert.Equal(t, tt.stack, se.Context["font"])
		})
	}
}

func TestParseRejectsMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("[colors\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse theme TOML")
}

func TestLoadFile(t *testing.T) {
	th, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), th)

	path := filepath.Join(t.TempDir(), "theme.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colors]\nemerald = \"#00FF00\"\n"), 0o644))
	th, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", th.Colors["emerald"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Default().Encode()
	require.NoError(t, err)

	th, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), th)
}

func TestCSS(t *testing.T) {
	css := Default().CSS()
	assert.Contains(t, css, "--color-rose-gold:#D4A5A5;")
	assert.Contains(t, css, ".bg-emerald{background-color:var(--color-emerald)}")
	assert.Contains(t, css, "--font-display:'Playfair Display',serif;")
	assert.Contains(t, css, ".font-sans{font-family:var(--font-sans)}")
}
