package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/build"
	"github.com/conneroisu/sparkle/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long: `Render every storefront page to the output directory.

Each page is written once every image its sections depend on has loaded or
failed. Pages still waiting when the gate timeout passes are written anyway
and reported as forced.

Examples:
  sparkle build
  sparkle build --out public_html --gate-timeout 2s
  SPARKLE_BUILD_MINIFY=true sparkle build`,
	RunE: runBuild,
}

var buildStrict bool

func init() {
	rootCmd.AddCommand(buildCmd)
	AddStandardFlags(buildCmd, "build")
	buildCmd.Flags().Bool("minify", false, "strip whitespace between tags")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "exit non-zero when any page was forced open")
	bindFlag(buildCmd, "build.minify", "minify")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	op := logging.StartOperation(logger, "build")
	start := time.Now()

	_, result, err := newApp(cfg, logger).generate(ctx)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}
	op.End(ctx, "pages", len(result.Manifest.Pages))

	printBuildSummary(cmd.OutOrStdout(), result, time.Since(start))

	if buildStrict {
		if forced := forcedRoutes(result); len(forced) > 0 {
			return fmt.Errorf("%d page(s) forced open by the gate timeout: %v", len(forced), forced)
		}
	}
	return nil
}

func forcedRoutes(result *build.Result) []string {
	var routes []string
	for _, p := range result.Manifest.Pages {
		if p.Forced {
			routes = append(routes, p.Route)
		}
	}
	return routes
}

func printBuildSummary(w io.Writer, result *build.Result, elapsed time.Duration) {
	fmt.Fprintf(w, "Built %d pages in %s\n", len(result.Manifest.Pages), elapsed.Round(time.Millisecond))
	for _, p := range result.Manifest.Pages {
		status := "ready"
		if p.Forced {
			status = "forced"
		}
		fmt.Fprintf(w, "  %-16s %-7s %6d bytes  %s\n", p.Route, status, p.Size, p.Path)
		for _, ref := range p.FailedAssets {
			fmt.Fprintf(w, "    failed asset: %s\n", ref)
		}
	}
	if result.Errors != nil && result.Errors.HasErrors() {
		fmt.Fprintln(w, "Errors:")
		for _, err := range result.Errors.GetAllErrors() {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
}
