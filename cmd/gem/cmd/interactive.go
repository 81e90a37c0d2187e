package cmd

import (
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

Features:
  - Live values for every method of the detected language
  - Block-art rendering of the current letter
  - Save results to history, mark favorites, delete
  - Custom ciphers reload as their files change

Press ? inside the UI for key bindings.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
