package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/arcana/pkg/arcana"
)

var knownFacts []string

var backwardCmd = &cobra.Command{
	Use:   "backward <goal>",
	Short: "Check a hypothesis by backward chaining",
	Long: `Search for a chain of rules that derives the goal from the known cards.
Time slots are ignored: the known cards are plain truths.

Examples:
  arcana backward "Insight" --known CardX --known CardY`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		reading, err := app.Backward(ctx, arcana.BackwardRequest{
			Goal:  strings.Join(args, " "),
			Known: knownFacts,
			Sink:  traceSink(out, verbose),
		})
		if err != nil {
			return err
		}

		// The failure notice already closes the trace.
		if reading.Proven {
			fmt.Fprintln(out)
			fmt.Fprintln(out, reading.Summary)
		}
		return writeHTML(reading)
	},
}

func init() {
	backwardCmd.Flags().StringArrayVar(&knownFacts, "known", nil, "Known fact (repeatable)")
	backwardCmd.Flags().StringVar(&htmlPath, "html", "", "Also write the reading as an HTML report")
	rootCmd.AddCommand(backwardCmd)
}
