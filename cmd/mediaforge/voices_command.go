package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List voices for a synthesis engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.ttsManager()
			if err != nil {
				return err
			}
			if engine == "" {
				engine = cfg.TTS.DefaultEngine
			}
			voices, err := manager.ListVoices(cmd.Context(), engine)
			if err != nil {
				return err
			}
			for _, voice := range voices {
				fmt.Fprintln(cmd.OutOrStdout(), voice)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "", "Engine name (default: configured engine)")

	return cmd
}
