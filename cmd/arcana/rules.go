package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/maintenance"
	"github.com/cognicore/arcana/pkg/arcana/store/sqlite"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "List the cards the rule base knows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		deck, err := app.Deck(ctx, cfg.CardRulePrefix())
		if err != nil {
			return err
		}
		for _, card := range deck {
			fmt.Fprintln(cmd.OutOrStdout(), card)
		}
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report rules that can never fire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		issues, err := app.Lint(ctx, cfg.CardRulePrefix())
		if err != nil {
			return err
		}
		for _, issue := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), issue)
		}
		if len(issues) > 0 {
			return fmt.Errorf("%d issue(s) found", len(issues))
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Move rule bases between files and SQLite",
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <rule-file>",
	Short: "Replace the SQLite rule base with the rules of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DBPath == "" {
			return fmt.Errorf("--db required")
		}
		rules, err := kb.LoadFile(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := sqlite.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ReplaceRules(ctx, rules); err != nil {
			return fmt.Errorf("import rules: %w", err)
		}
		logger.Info("rules imported", zap.String("file", args[0]), zap.Int("count", len(rules)))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d rules\n", len(rules))
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <rule-file>",
	Short: "Write the configured rule base to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		rules, err := app.Rules(ctx)
		if err != nil {
			return err
		}
		exporter := maintenance.RuleExporter{
			Writer: maintenance.FileWriter{Path: args[0]},
			Header: "exported by arcana " + version,
		}
		if err := exporter.Export(ctx, rules); err != nil {
			return fmt.Errorf("export rules: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d rules\n", len(rules))
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesImportCmd, rulesExportCmd)
	rootCmd.AddCommand(deckCmd, lintCmd, rulesCmd)
}
