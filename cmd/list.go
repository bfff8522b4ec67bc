package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/catalog"
	"github.com/conneroisu/sparkle/internal/page"
	"github.com/conneroisu/sparkle/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the sections each page waits on",
	Long: `List every gated section, the routes it appears on and the images it
depends on. A page is written only once all of its sections report loaded.

Examples:
  sparkle list
  sparkle list --format json
  sparkle list --assets`,
	RunE: runList,
}

var (
	listFlags      *StandardFlags
	listWithAssets bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listFlags = AddStandardFlags(listCmd, "output")
	listCmd.Flags().BoolVarP(&listWithAssets, "assets", "a", false, "show the images of each section")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reg := registry.NewComponentRegistry()
	reg.Sync(page.NewSite(cfg.Site.Title, catalog.Default()))
	components := reg.GetAll()

	w := cmd.OutOrStdout()
	if listFlags.Format != "table" {
		return writeStructured(w, listFlags.Format, components)
	}
	return writeComponentTable(w, components, listWithAssets)
}

func writeComponentTable(w io.Writer, components []*registry.ComponentInfo, withAssets bool) error {
	if len(components) == 0 {
		fmt.Fprintln(w, "No sections found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tROUTES\tIMAGES")
	for _, c := range components {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, strings.Join(c.Routes, ", "), len(c.Assets))
		if withAssets {
			for _, a := range c.Assets {
				fmt.Fprintf(tw, "\t\t%s\n", a)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %d sections\n", len(components))
	return nil
}
