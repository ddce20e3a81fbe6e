package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/media/audio"
)

func newMergeAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		output     string
		bitrate    string
		streamCopy bool
	)

	cmd := &cobra.Command{
		Use:   "merge-audio <input> <input> [input...]",
		Short: "Concatenate audio files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			service, err := ctx.audioService()
			if err != nil {
				return err
			}
			result, err := service.Merge(cmd.Context(), args, audio.MergeOptions{
				Output:     output,
				Bitrate:    bitrate,
				StreamCopy: streamCopy,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d files into %s (%d bytes)\n",
				result.Inputs, result.Output, result.SizeBytes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: merged_<stem>.<ext>)")
	cmd.Flags().StringVar(&bitrate, "bitrate", "", "Audio bitrate for re-encoding (e.g. 192k)")
	cmd.Flags().BoolVar(&streamCopy, "copy", false, "Concatenate without re-encoding")

	return cmd
}

func newMixAudioCommand(ctx *commandContext) *cobra.Command {
	var (
		output  string
		volumes string
	)

	cmd := &cobra.Command{
		Use:   "mix-audio <input> <input> [input...]",
		Short: "Mix audio files into one track",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			service, err := ctx.audioService()
			if err != nil {
				return err
			}
			parsed, err := parseVolumes(volumes)
			if err != nil {
				return err
			}
			result, err := service.Mix(cmd.Context(), args, audio.MixOptions{
				Output:  output,
				Volumes: parsed,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mixed into %s\n", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: mixed_<stem>.<ext>)")
	cmd.Flags().StringVar(&volumes, "volumes", "", "Comma-separated per-input weights, e.g. 1.0,0.3 (default: equal)")

	return cmd
}

func newSpeedCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "speed <input> <factor>",
		Short: "Change audio playback speed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			factor, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid speed factor %q", args[1])
			}
			service, err := ctx.audioService()
			if err != nil {
				return err
			}
			result, err := service.AdjustSpeed(cmd.Context(), args[0], factor, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: speed_<stem>.<ext>)")

	return cmd
}

func parseVolumes(spec string) ([]float64, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	volumes := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid volume %q", part)
		}
		volumes = append(volumes, v)
	}
	return volumes, nil
}
