package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaforge/internal/media/video"
)

func newMergeVideoCommand(ctx *commandContext) *cobra.Command {
	var (
		output   string
		reencode bool
	)

	cmd := &cobra.Command{
		Use:   "merge-video <input> <input> [input...]",
		Short: "Concatenate video files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			service, err := ctx.videoService()
			if err != nil {
				return err
			}
			result, err := service.Merge(cmd.Context(), args, video.MergeOptions{
				Output:   output,
				Reencode: reencode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged into %s\n", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: merged_<stem>.<ext>)")
	cmd.Flags().BoolVar(&reencode, "reencode", false, "Re-encode through a concat filter (handles mismatched codecs)")

	return cmd
}

func newAddAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		output      string
		mixOriginal bool
	)

	cmd := &cobra.Command{
		Use:   "add-audio <video> <audio>",
		Short: "Replace or mix a video's audio track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			service, err := ctx.videoService()
			if err != nil {
				return err
			}
			result, err := service.AddAudio(cmd.Context(), args[0], args[1], video.AddAudioOptions{
				Output:      output,
				MixOriginal: mixOriginal,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: dubbed_<stem>.<ext>)")
	cmd.Flags().BoolVar(&mixOriginal, "mix", false, "Mix with the original audio instead of replacing it")

	return cmd
}
