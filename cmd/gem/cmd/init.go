package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/errors"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gem configuration",
	Long: `Initialize gem in your config directory.

This creates:
  - config.yaml   (database path, default language and methods, lexicons)
  - ciphers/      (custom cipher JSON files)
  - gematria.db   (saved calculations and tags)`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Conflictf("config file already exists: %s", path),
			"use --force to overwrite",
		)
	}

	if err := config.EnsureDir(configDir); err != nil {
		return err
	}

	w := stdout(cmd)
	fmt.Fprintf(w, "Initializing gem in %s\n\n", configDir)

	// Paths in the file stay relative to the config directory.
	if err := config.Save(path, config.Default("")); err != nil {
		return err
	}
	fmt.Fprintf(w, "  Created %s\n", config.FileName)

	cfg := config.Default(configDir)
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return errors.Wrap(err, "closing database")
	}
	fmt.Fprintf(w, "  Created %s\n", filepath.Base(cfg.Database))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration initialized!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintln(w, "  1. Run 'gem calc <word>' to calculate a value")
	fmt.Fprintln(w, "  2. Run 'gem methods' to see every method")
	fmt.Fprintln(w, "  3. Run 'gem' to open the interactive UI")
	return nil
}
