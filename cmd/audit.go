package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/sparkle/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit [dir]",
	Short: "Check generated pages for accessibility problems",
	Long: `Parse every HTML file under the output directory (or dir) and report
missing alt text, unnamed buttons, unlabeled navigation, duplicate ids and
similar problems.

Examples:
  sparkle audit
  sparkle audit dist --fail-on serious
  sparkle audit --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

var (
	auditFlags  *StandardFlags
	auditFailOn string
)

var impactRank = map[audit.Impact]int{
	audit.ImpactModerate: 1,
	audit.ImpactSerious:  2,
	audit.ImpactCritical: 3,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditFlags = AddStandardFlags(auditCmd, "output")
	auditCmd.Flags().StringVar(&auditFailOn, "fail-on", "critical", "lowest impact that fails the audit (critical|serious|moderate|none)")
	AddFlagValidation(auditCmd, "fail-on", func(v string) error {
		return ValidateFormat(v, []string{"critical", "serious", "moderate", "none"})
	})
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dir := cfg.Build.OutputDir
	if len(args) == 1 {
		dir = args[0]
	}

	reports, err := audit.AuditDir(cmd.Context(), dir, cfg.Build.Concurrency, logger)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if auditFlags.Format != "table" {
		if err := writeStructured(w, auditFlags.Format, reports); err != nil {
			return err
		}
	} else if err := writeAuditTable(w, reports); err != nil {
		return err
	}

	if n := failing(reports, auditFailOn); n > 0 {
		return fmt.Errorf("%d violation(s) at or above %s impact", n, auditFailOn)
	}
	return nil
}

// failing counts violations at or above threshold.
func failing(reports []*audit.Report, threshold string) int {
	floor, ok := impactRank[audit.Impact(threshold)]
	if !ok {
		return 0
	}
	n := 0
	for _, r := range reports {
		for _, v := range r.Violations {
			if impactRank[v.Impact] >= floor {
				n++
			}
		}
	}
	return n
}

func writeAuditTable(w io.Writer, reports []*audit.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tRULE\tIMPACT\tELEMENT")
	total := 0
	for _, r := range reports {
		for _, v := range r.Violations {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Route, v.Rule, v.Impact, v.Element)
			total++
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d pages audited, %d violations\n", len(reports), total)
	return nil
}
