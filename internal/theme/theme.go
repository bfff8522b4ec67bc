// Package theme holds the storefront palette and fonts and renders them as
// CSS. A TOML file can override any subset of the built-in values.
package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	serrors "github.com/conneroisu/sparkle/internal/errors"
)

// Theme is the resolved palette.
type Theme struct {
	Name   string
	Colors map[string]string
	Fonts  Fonts
}

// Fonts are the two font stacks used by the pages.
type Fonts struct {
	Display []string
	Sans    []string
}

type tomlTheme struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
	Fonts  tomlFonts         `toml:"fonts"`
}

type tomlFonts struct {
	Display []string `toml:"display"`
	Sans    []string `toml:"sans"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Characters that would end the quoted font name, the declaration or the
// surrounding style element.
const fontForbidden = "<>{};'\"\\\n\r"

// Default is the built-in palette.
func Default() Theme {
	return Theme{
		Name: "sparkle",
		Colors: map[string]string{
			"ivory":     "#F8F1E9",
			"charcoal":  "#333333",
			"rose-gold": "#D4A5A5",
			"emerald":   "#2E5A50",
			"taupe":     "#B9A394",
		},
		Fonts: Fonts{
			Display: []string{"Playfair Display", "serif"},
			Sans:    []string{"Inter", "sans-serif"},
		},
	}
}

// LoadFile applies the overrides in the TOML file at path to Default. An
// empty path returns Default unchanged.
func LoadFile(path string) (Theme, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, serrors.WrapIO(err, serrors.ErrCodeInvalidConfig, path)
	}
	return Parse(data)
}

// Parse applies TOML overrides to Default. Unknown color names are added,
// which lets a theme introduce extra tokens.
func Parse(data []byte) (Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, serrors.NewConfigError(serrors.ErrCodeInvalidConfig, "parse theme TOML").
			WithContext("cause", err.Error())
	}

	t := Default()
	if tt.Name != "" {
		t.Name = tt.Name
	}
	for name, value := range tt.Colors {
		t.Colors[name] = value
	}
	if len(tt.Fonts.Display) > 0 {
		t.Fonts.Display = tt.Fonts.Display
	}
	if len(tt.Fonts.Sans) > 0 {
		t.Fonts.Sans = tt.Fonts.Sans
	}

	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Validate checks every color is #RRGGBB and both font stacks are set.
func (t Theme) Validate() error {
	for _, name := range t.ColorNames() {
		if value := t.Colors[name]; !hexColor.MatchString(value) {
			return serrors.NewValidationError(serrors.ErrCodeInvalidColor,
				fmt.Sprintf("invalid hex color %q for %q (expected #RRGGBB)", value, name)).
				WithContext("color", name)
		}
	}
	if len(t.Fonts.Display) == 0 || len(t.Fonts.Sans) == 0 {
		return serrors.NewValidationError(serrors.ErrCodeInvalidConfig, "theme fonts must not be empty")
	}
	for stack, fonts := range map[string][]string{"display": t.Fonts.Display, "sans": t.Fonts.Sans} {
		for _, font := range fonts {
			if strings.TrimSpace(font) == "" || strings.ContainsAny(font, fontForbidden) {
				return serrors.NewValidationError(serrors.ErrCodeInvalidConfig,
					fmt.Sprintf("invalid font name %q in %s stack", font, stack)).
					WithContext("font", stack)
			}
		}
	}
	return nil
}

// ColorNames returns the palette keys, sorted.
func (t Theme) ColorNames() []string {
	names := make([]string, 0, len(t.Colors))
	for name := range t.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode serializes the theme to TOML.
func (t Theme) Encode() ([]byte, error) {
	tt := tomlTheme{
		Name:   t.Name,
		Colors: t.Colors,
		Fonts:  tomlFonts{Display: t.Fonts.Display, Sans: t.Fonts.Sans},
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// CSS renders custom properties plus the small set of utility classes the
// components use (bg-*, text-*, border-*, font-display, font-sans).
func (t Theme) CSS() string {
	var b strings.Builder
	names := t.ColorNames()

	b.WriteString(":root{")
	for _, name := range names {
		fmt.Fprintf(&b, "--color-%s:%s;", name, t.Colors[name])
	}
	fmt.Fprintf(&b, "--font-display:%s;--font-sans:%s;}\n", fontStack(t.Fonts.Display), fontStack(t.Fonts.Sans))

	for _, name := range names {
		fmt.Fprintf(&b, ".bg-%[1]s{background-color:var(--color-%[1]s)}", name)
		fmt.Fprintf(&b, ".text-%[1]s{color:var(--color-%[1]s)}", name)
		fmt.Fprintf(&b, ".border-%[1]s{border-color:var(--color-%[1]s)}\n", name)
	}
	b.WriteString(".font-display{font-family:var(--font-display)}.font-sans{font-family:var(--font-sans)}\n")
	b.WriteString("body{margin:0;background-color:var(--color-ivory);color:var(--color-charcoal);font-family:var(--font-sans)}\n")
	return b.String()
}

func fontStack(fonts []string) string {
	quoted := make([]string, len(fonts))
	for i, f := range fonts {
		if strings.Contains(f, " ") {
			quoted[i] = "'" + f + "'"
			continue
		}
		quoted[i] = f
	}
	return strings.Join(quoted, ",")
}
