package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/anki"
	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/logger"
	"github.com/f3rmion/gematria/internal/report"
	"github.com/f3rmion/gematria/internal/store"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files and computing values for their fields.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its decks, note types and fields, and a
few sample notes.

Example:
  gem anki inspect hebrew.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiCalcCmd = &cobra.Command{
	Use:   "calc <file.apkg>",
	Short: "Calculate the value of a field for every note",
	Long: `Read a field from every note of an Anki deck and calculate its value.

The results can be saved to history, and written back into a copy of the
deck as a new field.

Examples:
  gem anki calc hebrew.apkg --field Hebrew
  gem anki calc greek.apkg --field Greek -m greek-standard --save --tag nt
  gem anki calc hebrew.apkg --field Hebrew --write out.apkg --into Gematria`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiCalc,
}

var (
	ankiInspectLimit int
	ankiField        string
	ankiDeck         string
	ankiMethod       string
	ankiSave         bool
	ankiTags         []string
	ankiWrite        string
	ankiInto         string
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd, ankiCalcCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "number of sample notes to show")

	f := ankiCalcCmd.Flags()
	f.StringVarP(&ankiField, "field", "f", "", "field holding the words")
	f.StringVarP(&ankiDeck, "deck", "d", "", "only notes in this deck (and its subdecks)")
	f.StringVarP(&ankiMethod, "method", "m", "", "method (default: detected per word)")
	f.BoolVar(&ankiSave, "save", false, "save the results to history")
	f.StringSliceVar(&ankiTags, "tag", nil, "tag saved results (repeatable)")
	f.StringVarP(&ankiWrite, "write", "o", "", "write a copy of the deck with the values added")
	f.StringVar(&ankiInto, "into", "Gematria", "field that receives the values with --write")
	ankiCalcCmd.MarkFlagRequired("field")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	pkg, err := anki.OpenPackage(args[0])
	if err != nil {
		return err
	}
	defer pkg.Close()

	w := stdout(cmd)
	fmt.Fprint(w, pkg.Summary())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Field Details:")
	for _, model := range pkg.Models {
		fmt.Fprintf(w, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Fprintf(w, "    [%d] %s\n", field.Ord, field.Name)
		}
	}

	fmt.Fprintf(w, "\nSample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}
		model := pkg.GetModel(note)
		if model == nil {
			continue
		}
		fmt.Fprintf(w, "\n  Note %d (%s):\n", note.ID, model.Name)
		for _, field := range model.Fields {
			if field.Ord < len(note.Fields) {
				fmt.Fprintf(w, "    %s: %s\n", field.Name, anki.StripHTML(note.Fields[field.Ord]))
			}
		}
	}
	return nil
}

type ankiRow struct {
	noteID int64
	result *store.CalculationResult
}

func runAnkiCalc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Named("anki")

	pkg, err := anki.OpenPackage(args[0])
	if err != nil {
		return err
	}
	defer pkg.Close()

	values, err := pkg.FieldValues(ankiField, ankiDeck)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.NotFoundf("no notes with a non-empty %q field", ankiField)
	}

	var fixed *gematria.MethodInfo
	if ankiMethod != "" {
		if fixed, err = gematria.LookupMethod(gematria.Method(ankiMethod)); err != nil {
			return err
		}
	}

	rows := make([]ankiRow, 0, len(values))
	calc := report.Calculation{}
	for _, v := range values {
		m := fixed
		if m == nil {
			lang, err := resolveLanguage("", v.Text, cfg)
			if err != nil {
				return err
			}
			methods, err := selectMethods(nil, false, lang, cfg)
			if err != nil {
				return err
			}
			m = methods[0]
		}
		value := m.Calculate(v.Text)
		rows = append(rows, ankiRow{noteID: v.NoteID, result: &store.CalculationResult{
			Text:       v.Text,
			Method:     string(m.ID),
			MethodName: m.Name,
			Language:   string(m.Language),
			Result:     value,
		}})
		calc.Results = append(calc.Results, report.Row{Method: string(m.ID), Name: v.Text, Value: value})
	}
	log.Debugw("Calculated deck field", logger.FieldFile, args[0], logger.FieldCount, len(rows))

	if ankiSave {
		if err := saveAnkiRows(cmd.Context(), cfg, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d result(s) to history\n", len(rows))
	}

	if ankiWrite != "" {
		pkg.AddField(ankiField, ankiInto)
		for _, r := range rows {
			note := pkg.NoteByID(r.noteID)
			if note == nil {
				continue
			}
			if err := pkg.SetField(note, ankiInto, strconv.Itoa(r.result.Result)); err != nil {
				return err
			}
		}
		if err := pkg.SaveAs(ankiWrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", ankiWrite)
	}

	calc.Text = args[0]
	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}
	return r.Calculation(stdout(cmd), calc)
}

func saveAnkiRows(ctx context.Context, cfg *config.Config, rows []ankiRow) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tagIDs, err := resolveTags(ctx, st, ankiTags)
	if err != nil {
		return err
	}
	for _, r := range rows {
		r.result.Tags = tagIDs
		if err := st.Save(ctx, r.result); err != nil {
			return err
		}
	}
	return nil
}
