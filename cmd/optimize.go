package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/imageopt"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Plan the image variants for the public directory",
	Long: `Walk the public directory and print the variant plan for every source
image: WebP copy, optimized copy, blurred placeholder and the four
responsive widths. Images whose header cannot be read are listed as
skipped.

Examples:
  sparkle optimize
  sparkle optimize --format yaml --write images.yml`,
	RunE: runOptimize,
}

var (
	optimizeFormat string
	optimizeWrite  string
)

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().String("public", "public", "public asset directory")
	optimizeCmd.Flags().StringVarP(&optimizeFormat, "format", "f", "json", "output format (json|yaml)")
	optimizeCmd.Flags().StringVarP(&optimizeWrite, "write", "w", "", "write the manifest to this file instead of stdout")
	bindFlag(optimizeCmd, "assets.public_dir", "public")
	AddFlagValidation(optimizeCmd, "format", func(v string) error {
		return ValidateFormat(v, []string{"json", "yaml"})
	})
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := imageopt.BuildManifest(cmd.Context(), cfg.Assets.PublicDir, logger)
	if err != nil {
		return err
	}

	if optimizeWrite == "" {
		return writeStructured(cmd.OutOrStdout(), optimizeFormat, m)
	}

	var buf bytes.Buffer
	if err := writeStructured(&buf, optimizeFormat, m); err != nil {
		return err
	}
	if err := os.WriteFile(optimizeWrite, buf.Bytes(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Planned %d images (%d skipped) -> %s\n", len(m.Images), len(m.Skipped), optimizeWrite)
	return nil
}
