package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mediaforge/internal/batch"
	"mediaforge/internal/download"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var (
		resolution   string
		includeAudio bool
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "download <url> [url...]",
		Short: "Download media, optionally with a lossless audio side-car",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			manager, err := ctx.downloadManager()
			if err != nil {
				return err
			}
			res, err := download.ParseResolution(resolution)
			if err != nil {
				return err
			}

			base := download.Request{
				Resolution:   res,
				IncludeAudio: includeAudio,
				OutputDir:    outputDir,
			}

			if len(args) == 1 {
				base.URL = args[0]
				base.OnProgress = progressPrinter(cmd)
				result, err := manager.Download(cmd.Context(), base)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nsaved %s\n", result.VideoPath)
				if result.AudioPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "audio %s\n", result.AudioPath)
				}
				return nil
			}

			results := manager.DownloadBatch(cmd.Context(), args, base)
			rows := make([][]string, 0, len(results))
			for i, item := range results {
				status := "ok"
				detail := item.Value.VideoPath
				if item.Err != nil {
					status = "failed"
					detail = item.Err.Error()
				}
				rows = append(rows, []string{args[i], status, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"URL", "Status", "Detail"}, rows, nil))
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d succeeded\n",
				batch.SuccessCount(results), len(results))
			if batch.SuccessCount(results) == 0 {
				return fmt.Errorf("all downloads failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "Target resolution (480p, 720p, 1080p, best)")
	cmd.Flags().BoolVar(&includeAudio, "audio", false, "Also extract a lossless WAV side-car")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Destination directory (default: configured download dir)")

	return cmd
}

// progressPrinter rewrites one terminal line per tick on a TTY and stays
// silent otherwise.
func progressPrinter(cmd *cobra.Command) func(download.Progress) {
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !isatty.IsTerminal(out.Fd()) {
		return nil
	}
	return func(p download.Progress) {
		if p.Total > 0 {
			fmt.Fprintf(out, "\r%6.1f%% (%d/%d bytes)", p.Percent, p.Downloaded, p.Total)
		} else {
			fmt.Fprintf(out, "\r%d bytes", p.Downloaded)
		}
	}
}
