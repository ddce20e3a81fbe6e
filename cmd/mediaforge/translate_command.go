package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/translate"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var (
		targetLang string
		sourceLang string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate text through the provider fallback chain",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := ctx.translateChain()
			if err != nil {
				return err
			}
			record, err := chain.Translate(cmd.Context(), translate.Request{
				Text:           strings.Join(args, " "),
				SourceLanguage: sourceLang,
				TargetLanguage: targetLang,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), record.Text)
			if verbose {
				rows := make([][]string, 0, len(record.Attempts))
				for _, attempt := range record.Attempts {
					outcome := "ok"
					if attempt.Err != nil {
						outcome = attempt.Err.Error()
					}
					rows = append(rows, []string{attempt.Provider, attempt.Elapsed.String(), outcome})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Provider", "Elapsed", "Outcome"}, rows, nil))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetLang, "to", "", "Target language code (required)")
	cmd.Flags().StringVar(&sourceLang, "from", "", "Source language code (default: provider auto-detect)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-provider attempts")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newProvidersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show translation providers in fallback order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chain, err := ctx.translateChain()
			if err != nil {
				return err
			}
			statuses := chain.Providers()
			rows := make([][]string, 0, len(statuses))
			for i, status := range statuses {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1), status.Name, yesNo(status.Available),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Order", "Provider", "Available"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
}
