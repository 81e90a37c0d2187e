package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/report"
	"github.com/f3rmion/gematria/internal/store"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Work with saved calculations",
	Long:    `Commands for listing, annotating, exporting and importing saved calculations.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations",
	Long: `List saved calculations, newest first.

Examples:
  gem history list
  gem history list --favorites --tag psalms
  gem history list --value 376`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete saved calculations",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runHistoryDelete,
}

var historyFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark a calculation as favorite (--off to unmark)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryFavorite,
}

var historyNoteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Set the notes of a calculation",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryNote,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [file.json]",
	Short: "Export history and tags as JSON",
	Long: `Export every saved calculation and tag as one JSON document, to a file or
stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistoryExport,
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a JSON history export",
	Long: `Import a document written by 'gem history export'. Tags are merged by ID or
name; calculations that already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryImport,
}

var (
	historyFavorites bool
	historyMethod    string
	historyLang      string
	historyTag       string
	historySearch    string
	historyValue     int
	historyLimit     int
	historyOff       bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyFavoriteCmd,
		historyNoteCmd, historyExportCmd, historyImportCmd)

	f := historyListCmd.Flags()
	f.BoolVarP(&historyFavorites, "favorites", "f", false, "only favorites")
	f.StringVarP(&historyMethod, "method", "m", "", "only this method")
	f.StringVarP(&historyLang, "lang", "l", "", "only this language")
	f.StringVarP(&historyTag, "tag", "t", "", "only calculations with this tag")
	f.StringVarP(&historySearch, "search", "s", "", "text or notes containing this")
	f.IntVar(&historyValue, "value", 0, "only this value")
	f.IntVarP(&historyLimit, "limit", "n", 50, "maximum number of results (0 for all)")

	historyFavoriteCmd.Flags().BoolVar(&historyOff, "off", false, "remove the favorite mark")
}

// tagNames maps tag IDs to names for rendering.
func tagNames(ctx context.Context, st *store.Store) (map[string]string, error) {
	tags, err := st.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}
	return names, nil
}

func renderHistory(ctx context.Context, cmd *cobra.Command, cfg *config.Config, st *store.Store, items []*store.CalculationResult) error {
	names, err := tagNames(ctx, st)
	if err != nil {
		return err
	}
	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}
	return r.History(stdout(cmd), report.History{Items: items, TagNames: names})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		f := store.Filter{
			Method:        historyMethod,
			FavoritesOnly: historyFavorites,
			Search:        historySearch,
			Limit:         historyLimit,
		}
		if historyLang != "" {
			lang, err := gematria.ParseLanguage(historyLang)
			if err != nil {
				return err
			}
			f.Language = string(lang)
		}
		if historyTag != "" {
			t, err := st.ResolveTag(ctx, historyTag)
			if err != nil {
				return err
			}
			f.TagID = t.ID
		}
		if cmd.Flags().Changed("value") {
			f.Value = &historyValue
		}

		items, err := st.List(ctx, f)
		if err != nil {
			return err
		}
		return renderHistory(ctx, cmd, cfg, st, items)
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		c, err := st.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return renderHistory(ctx, cmd, cfg, st, []*store.CalculationResult{c})
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		for _, id := range args {
			if err := st.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout(cmd), "Deleted %s\n", id)
		}
		return nil
	})
}

func runHistoryFavorite(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		return st.SetFavorite(ctx, args[0], !historyOff)
	})
}

func runHistoryNote(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		return st.UpdateNotes(ctx, args[0], args[1])
	})
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		if len(args) == 0 {
			return st.Export(ctx, stdout(cmd))
		}
		f, err := os.Create(args[0])
		if err != nil {
			return errors.Wrap(err, "creating export file")
		}
		if err := st.Export(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "closing export file")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", args[0])
		return nil
	})
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening import file")
		}
		defer f.Close()

		stats, err := st.Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Tags: %d created, %d merged\n", stats.TagsCreated, stats.TagsMerged)
		fmt.Fprintf(stdout(cmd), "Calculations: %d imported, %d skipped\n", stats.CalculationsImported, stats.CalculationsSkipped)
		return nil
	})
}
