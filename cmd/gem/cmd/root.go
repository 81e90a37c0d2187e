// Package cmd contains all CLI commands for gem.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/gematria/internal/cipher"
	"github.com/f3rmion/gematria/internal/config"
	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
	"github.com/f3rmion/gematria/internal/logger"
	"github.com/f3rmion/gematria/internal/report"
	"github.com/f3rmion/gematria/internal/store"
	"github.com/f3rmion/gematria/internal/tui"
	"github.com/f3rmion/gematria/internal/tui/bigchar"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gem",
	Short: "Gematria calculator for Hebrew, Greek, English, Coptic and Arabic",
	Long: `gem computes the numerical value of words under the classical gematria,
isopsephy and English cipher methods, keeps a history of saved calculations,
and searches word lists for values that match.

Custom ciphers are JSON files in the config directory and are picked up
automatically while the TUI is running.

Running 'gem' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/gematria)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")
	rootCmd.PersistentFlags().Bool("json-log", false, "log as JSON to stderr")
	rootCmd.PersistentFlags().String("format", "", "output format: plain, markdown, json")
	rootCmd.PersistentFlags().String("template", "", "render output with a Go text/template file")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("json_log", rootCmd.PersistentFlags().Lookup("json-log"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
}

// initConfig reads in the .env file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			dir = ".gematria"
		}
		viper.Set("config_dir", dir)
	}

	// Variables already set in the environment win over the file.
	envErr = nil
	if err := godotenv.Load(filepath.Join(getConfigDir(), ".env")); err != nil && !os.IsNotExist(err) {
		envErr = err
	}

	viper.SetEnvPrefix("GEM")
	viper.AutomaticEnv()
}

// envErr holds a .env read failure from initConfig, which runs before the
// logger exists.
var envErr error

func setupLogging(cmd *cobra.Command, args []string) error {
	if err := logger.Initialize(viper.GetBool("json_log"), viper.GetBool("verbose")); err != nil {
		return err
	}
	if envErr != nil {
		logger.Logger.Warnw("Could not read .env", logger.FieldError, envErr)
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read %s: %v\n",
			filepath.Join(getConfigDir(), ".env"), envErr)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml and applies GEM_* overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(getConfigDir())
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("database"); v != "" {
		cfg.Database = v
	}
	if v := viper.GetString("ciphers_dir"); v != "" {
		cfg.CiphersDir = v
	}
	if v := viper.GetString("default_language"); v != "" {
		lang, err := gematria.ParseLanguage(v)
		if err != nil {
			return nil, errors.Wrap(err, "GEM_DEFAULT_LANGUAGE")
		}
		cfg.DefaultLanguage = lang
	}
	if v := viper.GetString("format"); v != "" {
		cfg.Display.Format = v
	}
	return cfg, nil
}

// openStore opens the history database, creating its directory if needed.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}
	return store.Open(cfg.Database, logger.Named("store"))
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(fn func(ctx context.Context, cfg *config.Config, st *store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), cfg, st)
}

func cipherRepo(cfg *config.Config) *cipher.Repository {
	return cipher.NewRepository(cfg.CiphersDir, logger.Named("cipher"))
}

// newRenderer builds a renderer from --format, --template and the config.
func newRenderer(cmd *cobra.Command, cfg *config.Config) (*report.Renderer, error) {
	format, err := report.ParseFormat(cfg.Display.Format)
	if err != nil {
		return nil, err
	}
	r := report.New(format)

	path, _ := cmd.Flags().GetString("template")
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}
	if err := r.SetTemplate(string(data)); err != nil {
		return nil, err
	}
	return r, nil
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Named("tui")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps := tui.Deps{Config: cfg, Log: log}

	if st, err := openStore(cfg); err != nil {
		log.Warnw("History unavailable", logger.FieldError, err)
	} else {
		defer st.Close()
		deps.Store = st
	}

	deps.Ciphers = cipherRepo(cfg)
	if err := os.MkdirAll(cfg.CiphersDir, 0755); err == nil {
		events, err := cipher.Watch(ctx, cfg.CiphersDir)
		if err != nil {
			log.Warnw("Cipher hot reload disabled", logger.FieldError, err)
		} else {
			deps.Events = events
		}
	}

	if cfg.Display.FontPath != "" {
		if err := bigchar.LoadFont(cfg.Display.FontPath); err != nil {
			log.Warnw("Could not load font", logger.FieldPath, cfg.Display.FontPath, logger.FieldError, err)
		}
	}

	return tui.Run(ctx, deps)
}
