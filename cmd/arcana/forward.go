package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/arcana/pkg/arcana"
	"github.com/cognicore/arcana/pkg/arcana/cards"
	"github.com/cognicore/arcana/pkg/arcana/config"
	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/report"
)

var (
	spreadPath  string
	pastCards   []string
	presentCard []string
	futureCards []string
	slotCards   []string
	modeFlag    string
	htmlPath    string
)

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Read a spread by forward chaining",
	Long: `Apply every rule to the cards on the table until nothing new follows,
then print the advice the derivation reached.

Cards come from a spread file and/or the slot flags:

  arcana forward --spread spread.yaml
  arcana forward --past "0 Шут" --present "I Маг" --future "III Императрица" --mode strict
  arcana forward --card "Прошлое:0 Шут" --card "future:III Императрица"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spread := &config.Spread{}
		if spreadPath != "" {
			loaded, err := config.LoadSpread(spreadPath)
			if err != nil {
				return fmt.Errorf("load spread: %w", err)
			}
			spread = loaded
		}
		spread.Past = append(spread.Past, pastCards...)
		spread.Present = append(spread.Present, presentCard...)
		spread.Future = append(spread.Future, futureCards...)

		vocab, err := cfg.Vocabulary()
		if err != nil {
			return err
		}
		for _, entry := range slotCards {
			if err := spread.PlaceSlotted(entry, vocab); err != nil {
				return err
			}
		}
		if spread.Len() == 0 {
			return fmt.Errorf("choose at least one card: %w", internalerr.ErrInvalidInput)
		}

		initial, err := spread.Facts()
		if err != nil {
			return err
		}

		run := cfg
		if cmd.Flags().Changed("mode") {
			run.Mode = strings.ToLower(modeFlag)
			if err := run.Validate(); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		app, err := buildApp(ctx, run, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		reading, err := app.Forward(ctx, arcana.ForwardRequest{
			Spread:     initial,
			AllowMixed: run.AllowMixed(),
			Sink:       traceSink(out, verbose),
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		if reading.NoAdvice {
			fmt.Fprintln(out, reading.Summary)
		}
		for _, advice := range reading.Advice {
			fmt.Fprintf(out, "★ %s\n", advice)
		}

		return writeHTML(reading)
	},
}

func writeHTML(reading cards.Reading) error {
	if htmlPath == "" {
		return nil
	}
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.HTML(f, reading); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	forwardCmd.Flags().StringVar(&spreadPath, "spread", "", "Spread file (YAML with past/present/future lists)")
	forwardCmd.Flags().StringArrayVar(&pastCards, "past", nil, "Card in the Past slot (repeatable)")
	forwardCmd.Flags().StringArrayVar(&presentCard, "present", nil, "Card in the Present slot (repeatable)")
	forwardCmd.Flags().StringArrayVar(&futureCards, "future", nil, "Card in the Future slot (repeatable)")
	forwardCmd.Flags().StringArrayVar(&slotCards, "card", nil, "Card as slot:name, slot in any locale (repeatable)")
	forwardCmd.Flags().StringVar(&modeFlag, "mode", "", "Time matching: strict or mixed (default from config)")
	forwardCmd.Flags().StringVar(&htmlPath, "html", "", "Also write the reading as an HTML report")
	rootCmd.AddCommand(forwardCmd)
}
