package cmd

import (
	"context"
	"time"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/build"
	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/config"
	"github.com/conneroisu/sparkle/internal/logging"
	"github.com/conneroisu/sparkle/internal/page"
	"github.com/conneroisu/sparkle/internal/theme"
	"github.com/conneroisu/sparkle/internal/version"
)

// app bundles what every site-producing command needs.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *build.BuildMetrics
}

func newApp(cfg *config.Config, logger logging.Logger) *app {
	return &app{cfg: cfg, logger: logger, metrics: build.NewBuildMetrics()}
}

// generate renders the whole site once. The theme file and public directory
// are read fresh on every call so a preview rebuild sees edits.
func (a *app) generate(ctx context.Context) (*page.Site, *build.Result, error) {
	th, err := theme.LoadFile(a.cfg.Theme.File)
	if err != nil {
		return nil, nil, err
	}

	site := page.NewSite(a.cfg.Site.Title, catalog.Default())
	loader := asset.NewCachedLoader(asset.NewFileLoader(
		a.cfg.Assets.PublicDir,
		asset.WithTimeout(a.cfg.Assets.LoadTimeout),
		asset.WithLogger(a.logger),
	))

	gen := build.NewStaticSiteGenerator(site, loader, a.cfg.Build.OutputDir,
		build.WithLogger(a.logger),
		build.WithPublicDir(a.cfg.Assets.PublicDir),
		build.WithCSS(th.CSS()),
		build.WithMetrics(a.metrics),
	)

	info := version.Get()
	result, err := gen.Generate(ctx, build.StaticGenerationOptions{
		BaseURL:         a.cfg.Site.BaseURL,
		GenerateSitemap: a.cfg.Build.Sitemap,
		GenerateRobots:  a.cfg.Build.Robots,
		MinifyHTML:      a.cfg.Build.Minify,
		CopyPublic:      true,
		GateTimeout:     a.cfg.Assets.GateTimeout,
		Concurrency:     a.cfg.Build.Concurrency,
		Version:         info.Short(),
		BuildTime:       time.Now(),
	})
	return site, result, err
}
