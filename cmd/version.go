package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE:  runVersion,
}

var (
	versionFormat   string
	versionShort    bool
	versionDetailed bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "output format (text|json|yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "print every build field")
	AddFlagValidation(versionCmd, "format", func(v string) error {
		return ValidateFormat(v, []string{"text", "json", "yaml"})
	})
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	w := cmd.OutOrStdout()

	switch {
	case versionFormat != "text":
		return writeStructured(w, versionFormat, info)
	case versionShort:
		fmt.Fprintln(w, info.Short())
	case versionDetailed:
		fmt.Fprintln(w, info.Detailed())
	default:
		fmt.Fprintf(w, "sparkle %s\n", info.Short())
	}
	return nil
}
