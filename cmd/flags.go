package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output formats accepted by --format.
var outputFormats = []string{"table", "json", "yaml"}

// StandardFlags are the flag groups shared between commands.
type StandardFlags struct {
	Format string
}

// AddStandardFlags registers the named groups on cmd. Groups backed by a
// config key are bound to Viper so the flag overrides file and env values.
func AddStandardFlags(cmd *cobra.Command, groups ...string) *StandardFlags {
	flags := &StandardFlags{}
	for _, group := range groups {
		switch group {
		case "server":
			cmd.Flags().IntP("port", "p", 8080, "port to serve on")
			cmd.Flags().String("host", "localhost", "host to bind to")
			bindFlag(cmd, "server.port", "port")
			bindFlag(cmd, "server.host", "host")
		case "build":
			cmd.Flags().StringP("out", "o", "dist", "output directory")
			cmd.Flags().String("public", "public", "public asset directory")
			cmd.Flags().Duration("gate-timeout", 0, "force pages open after this long (default from config)")
			cmd.Flags().Int("concurrency", 4, "pages generated in parallel")
			cmd.Flags().String("theme", "", "theme override file (TOML)")
			bindFlag(cmd, "build.output_dir", "out")
			bindFlag(cmd, "assets.public_dir", "public")
			bindFlag(cmd, "assets.gate_timeout", "gate-timeout")
			bindFlag(cmd, "build.concurrency", "concurrency")
			bindFlag(cmd, "theme.file", "theme")
		case "output":
			cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "output format (table|json|yaml)")
			AddFlagValidation(cmd, "format", func(v string) error {
				return ValidateFormat(v, outputFormats)
			})
		}
	}
	return flags
}

// flagBindings maps a command to its config key to flag name pairs. Keys
// are bound only for the command that runs, since several commands share
// the same keys.
var flagBindings = map[*cobra.Command]map[string]string{}

func bindFlag(cmd *cobra.Command, key, name string) {
	if flagBindings[cmd] == nil {
		flagBindings[cmd] = map[string]string{}
	}
	flagBindings[cmd][key] = name
}

// bindFlags hands the running command's flags to Viper. An unchanged flag
// never shadows a value from the config file or environment.
func bindFlags(cmd *cobra.Command) error {
	for _, c := range []*cobra.Command{rootCmd, cmd} {
		for key, name := range flagBindings[c] {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}
	return nil
}

// ValidateFormat rejects values outside allowed.
func ValidateFormat(value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (valid: %s)", value, strings.Join(allowed, ", "))
}

// AddFlagValidation wraps a flag so invalid values fail at parse time.
func AddFlagValidation(cmd *cobra.Command, name string, validator func(string) error) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	flag.Value = &validatingValue{Value: flag.Value, validator: validator}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if err := v.validator(val); err != nil {
		return err
	}
	return v.Value.Set(val)
}
