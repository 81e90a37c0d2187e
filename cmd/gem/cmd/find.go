package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/lexicon"
	"github.com/f3rmion/gematria/internal/logger"
	"github.com/f3rmion/gematria/internal/report"
	"github.com/f3rmion/gematria/internal/store"
)

var findCmd = &cobra.Command{
	Use:   "find <value|text>",
	Short: "Find words with the same value",
	Long: `Find words sharing a value under one method. The argument is either a number
or a word whose value is computed first.

Words come from JSONL lexicons ({"word","language","meaning"} per line) given
with --lexicon or listed in config.yaml, and from saved history.

Examples:
  gem find 376 -m hebrew-standard --lexicon hebrew.jsonl
  gem find שלום -m hebrew-ordinal
  gem find 888 --custom my-greek`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

var (
	findMethod    string
	findCustom    string
	findLexicons  []string
	findNoHistory bool
)

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringVarP(&findMethod, "method", "m", "", "method (default: first default method of the language)")
	findCmd.Flags().StringVar(&findCustom, "custom", "", "custom cipher ID or name instead of a built-in method")
	findCmd.Flags().StringSliceVar(&findLexicons, "lexicon", nil, "JSONL word list (repeatable)")
	findCmd.Flags().BoolVar(&findNoHistory, "no-history", false, "do not search saved history")
}

// loadLexicons reads every path, logging and skipping unreadable files.
func loadLexicons(paths []string) *lexicon.Lexicon {
	log := logger.Named("lexicon")
	lex := lexicon.New()
	for _, p := range paths {
		n, err := lex.LoadFile(p)
		if err != nil {
			log.Warnw("Skipping lexicon", logger.FieldPath, p, logger.FieldError, err)
			continue
		}
		log.Debugw("Loaded lexicon", logger.FieldPath, p, logger.FieldCount, n)
	}
	return lex
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	arg := strings.Join(args, " ")
	lex := loadLexicons(append(append([]string(nil), cfg.Lexicons...), findLexicons...))

	var (
		key   string
		calc  func(string) int
		words func(int) []*lexicon.Entry
	)
	if findCustom != "" {
		c, err := cipherRepo(cfg).Get(findCustom)
		if err != nil {
			return err
		}
		key, calc = "custom:"+c.ID, c.Calculate
		words = func(v int) []*lexicon.Entry { return lex.MatchesCustom(c, v) }
	} else {
		m, err := findMethodFor(arg, cfg)
		if err != nil {
			return err
		}
		key, calc = string(m.ID), m.Calculate
		words = func(v int) []*lexicon.Entry { return lex.Matches(m, v) }
	}

	value, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		value = calc(arg)
	}

	matches := report.Matches{Method: key, Value: value, Words: words(value)}
	if !findNoHistory {
		matches.History, err = historyMatches(cfg, key, value)
		if err != nil {
			logger.Logger.Warnw("History search failed", logger.FieldError, err)
		}
	}

	r, err := newRenderer(cmd, cfg)
	if err != nil {
		return err
	}
	return r.Matches(stdout(cmd), matches)
}

// findMethodFor resolves --method, falling back to the default method of the
// argument's language.
func findMethodFor(arg string, cfg *config.Config) (*gematria.MethodInfo, error) {
	if findMethod != "" {
		return gematria.LookupMethod(gematria.Method(findMethod))
	}
	lang, err := resolveLanguage("", arg, cfg)
	if err != nil {
		return nil, err
	}
	methods, err := selectMethods(nil, false, lang, cfg)
	if err != nil {
		return nil, err
	}
	return methods[0], nil
}

func historyMatches(cfg *config.Config, method string, value int) ([]*store.CalculationResult, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.List(context.Background(), store.Filter{Method: method, Value: &value})
}
