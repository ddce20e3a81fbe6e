package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show container and stream metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := ctx.inspector()
			if err != nil {
				return err
			}
			result, err := inspector.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Container", result.Format.FormatName},
					{"Duration", fmt.Sprintf("%.2fs", result.DurationSeconds())},
					{"Size", fmt.Sprintf("%d bytes", result.SizeBytes())},
					{"Bitrate", fmt.Sprintf("%d b/s", result.BitRate())},
					{"Video streams", fmt.Sprintf("%d", result.VideoStreamCount())},
					{"Audio streams", fmt.Sprintf("%d", result.AudioStreamCount())},
				},
				nil,
			))

			rows := make([][]string, 0, len(result.Streams))
			for _, stream := range result.Streams {
				shape := ""
				if stream.CodecType == "video" {
					shape = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
				} else if stream.CodecType == "audio" {
					shape = fmt.Sprintf("%s Hz x%d", stream.SampleRate, stream.Channels)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", stream.Index),
					stream.CodecType,
					stream.CodecName,
					shape,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Type", "Codec", "Shape"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}
