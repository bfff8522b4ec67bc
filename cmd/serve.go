package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"preview"},
	Short:   "Build and preview the site with live reload",
	Long: `Build the site, serve the output directory and rebuild whenever a file in
the public directory or the theme file changes. Connected browsers reload
the pages that use the changed asset; a failed build shows an error overlay
instead.

Examples:
  sparkle serve
  sparkle serve --port 3000 --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	AddStandardFlags(serveCmd, "server", "build")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, logger)
	opts := server.Options{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		OutputDir:      cfg.Build.OutputDir,
		PublicDir:      cfg.Assets.PublicDir,
		ThemeFile:      cfg.Theme.File,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	srv := server.New(opts, a.generate, a.metrics, logger)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s\n", cfg.Site.Title, opts.Addr())
	return srv.Start(ctx)
}
