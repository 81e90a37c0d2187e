package cmd

import (
	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/kamea"
)

var kameaCmd = &cobra.Command{
	Use:   "kamea <value>...",
	Short: "Show ditrune, conrune, reversal and differential",
	Long: `Show the six-digit ternary form of a value (0-728) with its conrune (digits
1 and 2 swapped), reversal and differential.

Values are decimal, or ternary with a "t" prefix.

Examples:
  gem kamea 5
  gem kamea t000012 364`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKamea,
}

func init() {
	rootCmd.AddCommand(kameaCmd)
}

func runKamea(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}
	for _, arg := range args {
		d, err := kamea.Parse(arg)
		if err != nil {
			return err
		}
		if err := r.Ditrune(stdout(cmd), kamea.Summarize(d)); err != nil {
			return err
		}
	}
	return nil
}
