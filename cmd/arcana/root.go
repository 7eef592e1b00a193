package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/arcana/pkg/arcana"
	"github.com/cognicore/arcana/pkg/arcana/config"
	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/store"
	"github.com/cognicore/arcana/pkg/arcana/store/memstore"
	"github.com/cognicore/arcana/pkg/arcana/store/sqlite"
)

var (
	configFile string
	rulesPath  string
	dbPath     string
	locale     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "arcana",
	Short: "arcana - production-rule reasoner for card spreads",
	Long: `arcana derives readings from cards laid out over the Past, Present and
Future slots, using a hand-authored rule base of if/then productions.

Forward chaining saturates a spread and selects the advice it leads to.
Backward chaining checks whether a hypothesis follows from a set of cards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(".", configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("rules") {
			cfg.RulesPath = rulesPath
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("locale") {
			cfg.Locale = locale
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arcana %s\ncommit: %s\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./arcana.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Rule file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite rule base (takes precedence over --rules)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Time keywords and messages: en or ru")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show search steps and debug logs")
	rootCmd.AddCommand(versionCmd)
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// openStore picks the SQLite rule base when configured, the rule file
// otherwise.
func openStore(ctx context.Context, c config.Config) (store.RuleStore, error) {
	if c.DBPath != "" {
		return sqlite.OpenSQLite(ctx, c.DBPath)
	}
	return memstore.FromFile(c.RulesPath)
}

// buildApp wires an Arcana instance from the configuration.
func buildApp(ctx context.Context, c config.Config, log *zap.Logger) (*arcana.Arcana, error) {
	vocab, err := c.Vocabulary()
	if err != nil {
		return nil, err
	}
	msgs, err := inference.MessagesFor(c.Locale)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open rule base: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("rule base opened", zap.String("rules", c.RulesPath), zap.String("db", c.DBPath))

	return arcana.New(arcana.Options{
		Store:           st,
		Vocabulary:      vocab,
		Messages:        msgs,
		AdviceThreshold: c.AdviceThreshold,
		Logger:          log,
	}), nil
}

var levelStyles = map[inference.Level]lipgloss.Style{
	inference.Info:    lipgloss.NewStyle(),
	inference.Step:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	inference.Derived: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	inference.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	inference.Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	inference.Debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

// traceSink prints trace lines as they are produced. Debug lines are shown
// only in verbose mode.
func traceSink(w io.Writer, showDebug bool) inference.Sink {
	return inference.SinkFunc(func(e inference.Entry) {
		if e.Level == inference.Debug && !showDebug {
			return
		}
		fmt.Fprintln(w, levelStyles[e.Level].Render(e.Text))
	})
}
