package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/sparkle/internal/config"
	"github.com/conneroisu/sparkle/internal/theme"
)

const themeFileName = "theme.toml"

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config and theme file",
	Long: `Write .sparkle.yml with every setting at its default, theme.toml with the
built-in palette, and create the public directory. Existing files are kept
unless --force is given.

Examples:
  sparkle init
  sparkle init shop --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	v := viper.New()
	config.SetDefaults(v)
	v.Set("theme.file", themeFileName)
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	cfgData, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	themeData, err := theme.Default().Encode()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, f := range []struct {
		name string
		data []byte
	}{
		{config.DefaultFile, cfgData},
		{themeFileName, themeData},
	} {
		path := filepath.Join(dir, f.name)
		written, err := writeIfAbsent(path, f.data, initForce)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(w, "Created %s\n", path)
		} else {
			fmt.Fprintf(w, "Kept existing %s\n", path)
		}
	}

	return os.MkdirAll(filepath.Join(dir, cfg.Assets.PublicDir, "images"), 0o755)
}

func writeIfAbsent(path string, data []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
	}
	return true, os.WriteFile(path, data, 0o644)
}
