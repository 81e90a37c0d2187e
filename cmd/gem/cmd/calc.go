package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/report"
	"github.com/f3rmion/gematria/internal/store"
)

var calcCmd = &cobra.Command{
	Use:   "calc <text>",
	Short: "Calculate the value of a word or phrase",
	Long: `Calculate the gematria value of text.

The language is detected from the script unless --lang is given. Without
--method or --all the default methods from config.yaml are used.

Examples:
  gem calc שלום
  gem calc λόγος --all
  gem calc "In the beginning" -m english-ordinal -m english-reduced
  gem calc אמת --custom my-cipher --save --tag truth`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCalc,
}

var (
	calcMethods []string
	calcLang    string
	calcAll     bool
	calcCustom  []string
	calcSave    bool
	calcTags    []string
	calcNotes   string
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringSliceVarP(&calcMethods, "method", "m", nil, "calculation method (repeatable)")
	calcCmd.Flags().StringVarP(&calcLang, "lang", "l", "", "language (auto-detect if not specified)")
	calcCmd.Flags().BoolVarP(&calcAll, "all", "a", false, "use every method of the language")
	calcCmd.Flags().StringSliceVar(&calcCustom, "custom", nil, "custom cipher ID or name (repeatable)")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "save the results to history")
	calcCmd.Flags().StringSliceVar(&calcTags, "tag", nil, "tag saved results (repeatable)")
	calcCmd.Flags().StringVar(&calcNotes, "note", "", "note for saved results")
}

// resolveLanguage returns the --lang value, the detected language or the default.
func resolveLanguage(flag, text string, cfg *config.Config) (gematria.Language, error) {
	if flag != "" {
		return gematria.ParseLanguage(flag)
	}
	if lang, ok := gematria.DetectLanguage(text); ok {
		return lang, nil
	}
	return cfg.DefaultLanguage, nil
}

// selectMethods picks the built-in methods a calculation uses.
func selectMethods(names []string, all bool, lang gematria.Language, cfg *config.Config) ([]*gematria.MethodInfo, error) {
	if all {
		return gematria.MethodsFor(lang), nil
	}
	var out []*gematria.MethodInfo
	for _, name := range names {
		m, err := gematria.LookupMethod(gematria.Method(name))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if len(out) > 0 {
		return out, nil
	}

	for _, id := range cfg.DefaultMethods {
		if m, err := gematria.LookupMethod(id); err == nil && m.Language == lang {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		if ms := gematria.MethodsFor(lang); len(ms) > 0 {
			out = ms[:1]
		}
	}
	return out, nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(calcLang, text, cfg)
	if err != nil {
		return err
	}
	methods, err := selectMethods(calcMethods, calcAll, lang, cfg)
	if err != nil {
		return err
	}

	calc := report.Calculation{Text: text, Language: lang}
	langs := make([]gematria.Language, 0, len(methods)+len(calcCustom))
	for _, m := range methods {
		calc.Results = append(calc.Results, report.Row{Method: string(m.ID), Name: m.Name, Value: m.Calculate(text)})
		langs = append(langs, m.Language)
	}

	if len(calcCustom) > 0 {
		repo := cipherRepo(cfg)
		for _, id := range calcCustom {
			c, err := repo.Get(id)
			if err != nil {
				return err
			}
			calc.Results = append(calc.Results, report.Row{Method: "custom:" + c.ID, Name: c.Name, Value: c.Calculate(text)})
			langs = append(langs, c.Language)
		}
	}

	if calcSave {
		if err := saveRows(cmd.Context(), cfg, text, calc.Results, langs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d result(s) to history\n", len(calc.Results))
	}

	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}
	return r.Calculation(stdout(cmd), calc)
}

func saveRows(ctx context.Context, cfg *config.Config, text string, rows []report.Row, langs []gematria.Language) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tagIDs, err := resolveTags(ctx, st, calcTags)
	if err != nil {
		return err
	}
	for i, row := range rows {
		c := &store.CalculationResult{
			Text:       text,
			Method:     row.Method,
			MethodName: row.Name,
			Language:   string(langs[i]),
			Result:     row.Value,
			Notes:      calcNotes,
			Tags:       tagIDs,
		}
		if err := st.Save(ctx, c); err != nil {
			return errors.Wrapf(err, "saving %s", row.Method)
		}
	}
	return nil
}

// resolveTags maps tag IDs or names to IDs, creating unknown names.
func resolveTags(ctx context.Context, st *store.Store, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		t, err := st.ResolveTag(ctx, name)
		if errors.IsNotFound(err) {
			t = &store.Tag{Name: name}
			err = st.CreateTag(ctx, t)
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}
