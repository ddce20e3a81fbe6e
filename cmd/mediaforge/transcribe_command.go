package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaforge/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		language string
		model    string
		segments bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio>",
		Short: "Transcribe speech audio to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			service, err := ctx.transcribeService()
			if err != nil {
				return err
			}
			result, err := service.Transcribe(cmd.Context(), args[0], transcribe.Options{
				Language:  language,
				Model:     model,
				OutputDir: cfg.Paths.WorkDir,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "language: %s\n", result.Language)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			if segments {
				rows := make([][]string, 0, len(result.Segments))
				for _, seg := range result.Segments {
					rows = append(rows, []string{
						fmt.Sprintf("%.2f", seg.Start),
						fmt.Sprintf("%.2f", seg.End),
						seg.Text,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Start", "End", "Text"}, rows,
					[]columnAlignment{alignRight, alignRight, alignLeft}))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Source language code (default: auto-detect)")
	cmd.Flags().StringVar(&model, "model", "", "Model size (tiny, base, small, medium, large)")
	cmd.Flags().BoolVar(&segments, "segments", false, "Show timestamped segments")

	return cmd
}
