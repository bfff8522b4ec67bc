package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Print the resolved theme",
	Long: `Print the palette after applying the theme file over the built-in
defaults, either as the CSS injected into every page or as TOML suitable
for a new theme file.

Examples:
  sparkle theme
  sparkle theme --css
  sparkle theme --theme brand.toml > resolved.toml`,
	RunE: runTheme,
}

var themeCSS bool

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.Flags().String("theme", "", "theme override file (TOML)")
	themeCmd.Flags().BoolVar(&themeCSS, "css", false, "print the generated CSS instead of TOML")
	bindFlag(themeCmd, "theme.file", "theme")
}

func runTheme(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	th, err := theme.LoadFile(cfg.Theme.File)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if themeCSS {
		fmt.Fprintln(w, strings.TrimSpace(th.CSS()))
		return nil
	}
	data, err := th.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
