package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
)

var cipherCmd = &cobra.Command{
	Use:   "cipher",
	Short: "Manage custom ciphers",
	Long: `Custom ciphers are JSON files in the ciphers directory (see 'gem init').
Each maps single letters to values and picks an aggregation such as sum,
squared or building. Files edited by hand are picked up by the TUI while it
is running.`,
}

var cipherListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List custom ciphers",
	Args:    cobra.NoArgs,
	RunE:    runCipherList,
}

var cipherShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a cipher's letter values",
	Args:  cobra.ExactArgs(1),
	RunE:  runCipherShow,
}

var cipherCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a custom cipher",
	Long: `Create a custom cipher, either copied from a built-in method or from
explicit letter values.

Examples:
  gem cipher create "My Hebrew" --from hebrew-standard
  gem cipher create abc --lang english --values a=1,b=2,c=3 --aggregation squared`,
	Args: cobra.ExactArgs(1),
	RunE: runCipherCreate,
}

var cipherDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom cipher",
	Args:    cobra.ExactArgs(1),
	RunE:    runCipherDelete,
}

var cipherImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a cipher file under a new ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runCipherImport,
}

var cipherExportCmd = &cobra.Command{
	Use:   "export <id|name> [file.json]",
	Short: "Export a cipher as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCipherExport,
}

var (
	cipherFrom          string
	cipherLang          string
	cipherValues        []string
	cipherAggregation   string
	cipherDescription   string
	cipherCaseSensitive bool
	cipherFinals        bool
)

func init() {
	rootCmd.AddCommand(cipherCmd)
	cipherCmd.AddCommand(cipherListCmd, cipherShowCmd, cipherCreateCmd, cipherDeleteCmd,
		cipherImportCmd, cipherExportCmd)

	f := cipherCreateCmd.Flags()
	f.StringVar(&cipherFrom, "from", "", "copy letter values from a built-in method")
	f.StringVarP(&cipherLang, "lang", "l", "", "language of the cipher")
	f.StringSliceVar(&cipherValues, "values", nil, "letter values as letter=value pairs")
	f.StringVar(&cipherAggregation, "aggregation", "", "sum, squared, cubed, building, triangular, positional, additive, name")
	f.StringVarP(&cipherDescription, "description", "d", "", "description")
	f.BoolVar(&cipherCaseSensitive, "case-sensitive", false, "treat upper and lower case letters as different")
	f.BoolVar(&cipherFinals, "final-forms", false, "give Hebrew final forms their own values")
}

func runCipherList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ciphers, err := cipherRepo(cfg).List()
	if err != nil {
		return err
	}
	w := stdout(cmd)
	if len(ciphers) == 0 {
		fmt.Fprintf(w, "No custom ciphers in %s\n", cfg.CiphersDir)
		return nil
	}
	for _, c := range ciphers {
		fmt.Fprintf(w, "%s  %-24s %-8s %d letters\n", shortID(c.ID), c.Name, c.Language.Title(), len(c.Values))
	}
	return nil
}

func runCipherShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := cipherRepo(cfg).Get(args[0])
	if err != nil {
		return err
	}

	w := stdout(cmd)
	agg := c.Aggregation
	if agg == "" {
		agg = gematria.AggSum
	}
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Language:    %s\n", c.Language.Title())
	fmt.Fprintf(w, "Aggregation: %s\n", agg)
	if c.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", c.Description)
	}
	fmt.Fprintln(w)
	for _, l := range c.Letters() {
		fmt.Fprintf(w, "  %s  %d\n", l, c.Values[l])
	}
	return nil
}

// parseValues reads letter=value pairs.
func parseValues(pairs []string) (map[string]int, error) {
	values := make(map[string]int, len(pairs))
	for _, p := range pairs {
		letter, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.InvalidArgumentf("value %q is not letter=value", p)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.InvalidArgumentf("value %q: %v", p, err)
		}
		values[strings.TrimSpace(letter)] = v
	}
	return values, nil
}

func runCipherCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var c *gematria.CustomCipher
	switch {
	case cipherFrom != "":
		c, err = gematria.NewCustomFromMethod(args[0], gematria.Method(cipherFrom))
		if err != nil {
			return err
		}
	case cipherLang != "" && len(cipherValues) > 0:
		lang, err := gematria.ParseLanguage(cipherLang)
		if err != nil {
			return err
		}
		c = &gematria.CustomCipher{Name: args[0], Language: lang}
	default:
		return errors.WithHint(
			errors.InvalidArgumentf("either --from or --lang with --values is required"),
			"run 'gem methods' to list methods to copy from",
		)
	}

	if len(cipherValues) > 0 {
		values, err := parseValues(cipherValues)
		if err != nil {
			return err
		}
		if c.Values == nil {
			c.Values = values
		} else {
			for k, v := range values {
				c.Values[k] = v
			}
		}
	}
	if cipherAggregation != "" {
		c.Aggregation = gematria.Aggregation(cipherAggregation)
	}
	if cipherDescription != "" {
		c.Description = cipherDescription
	}
	if cmd.Flags().Changed("case-sensitive") {
		c.CaseSensitive = cipherCaseSensitive
	}
	if cmd.Flags().Changed("final-forms") {
		c.UseFinalForms = cipherFinals
	}

	if err := cipherRepo(cfg).Save(c); err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "Created cipher %s (%s)\n", c.Name, c.ID)
	return nil
}

func runCipherDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cipherRepo(cfg).Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "Deleted cipher %s\n", args[0])
	return nil
}

func runCipherImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "opening cipher file")
	}
	defer f.Close()

	c, err := cipherRepo(cfg).Import(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "Imported cipher %s (%s)\n", c.Name, c.ID)
	return nil
}

func runCipherExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo := cipherRepo(cfg)
	if len(args) == 1 {
		return repo.Export(args[0], stdout(cmd))
	}

	f, err := os.Create(args[1])
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err := repo.Export(args[0], f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing export file")
}
