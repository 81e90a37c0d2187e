package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/gematria"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List calculation methods",
	Long: `List the built-in calculation methods, grouped by language.

Examples:
  gem methods
  gem methods --lang greek`,
	Args: cobra.NoArgs,
	RunE: runMethods,
}

var (
	methodsLang    string
	methodsVerbose bool
)

func init() {
	rootCmd.AddCommand(methodsCmd)
	methodsCmd.Flags().StringVarP(&methodsLang, "lang", "l", "", "only list methods of this language")
	methodsCmd.Flags().BoolVarP(&methodsVerbose, "describe", "d", false, "show method descriptions")
}

func runMethods(cmd *cobra.Command, args []string) error {
	langs := gematria.Languages
	if methodsLang != "" {
		lang, err := gematria.ParseLanguage(methodsLang)
		if err != nil {
			return err
		}
		langs = []gematria.Language{lang}
	}

	w := stdout(cmd)
	for i, lang := range langs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", lang.Title())
		for _, m := range gematria.MethodsFor(lang) {
			fmt.Fprintf(w, "  %-26s %s\n", m.ID, m.Name)
			if methodsVerbose {
				fmt.Fprintf(w, "  %-26s %s\n", "", m.Description)
			}
		}
	}
	return nil
}
