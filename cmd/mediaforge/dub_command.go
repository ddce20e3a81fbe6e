package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mediaforge/internal/dubbing"
	"mediaforge/internal/tts"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var (
		targetLang string
		sourceLang string
		engine     string
		voice      string
		speed      float64
		pitch      float64
		volume     float64
	)

	cmd := &cobra.Command{
		Use:   "dub <input>",
		Short: "Dub a video into another language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			release, err := ctx.acquireWorkLock()
			if err != nil {
				return err
			}
			defer release()

			pipeline, err := ctx.pipeline()
			if err != nil {
				return err
			}

			if engine == "" {
				engine = cfg.TTS.DefaultEngine
			}

			events, unsubscribe := pipeline.Subscribe()
			defer unsubscribe()
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for ev := range events {
					fmt.Fprintf(cmd.OutOrStdout(), "[%3d%%] %s\n", ev.Percent, ev.Message)
				}
			}()

			result, runErr := pipeline.Run(cmd.Context(), dubbing.Request{
				Input:          args[0],
				TargetLanguage: targetLang,
				SourceLanguage: sourceLang,
				Engine:         engine,
				Voice:          voice,
				Params:         tts.Params{Speed: speed, Pitch: pitch, Volume: volume},
				OutputDir:      cfg.Paths.OutputDir,
			})
			unsubscribe()
			wg.Wait()
			if runErr != nil {
				return runErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Output", result.Output},
					{"Source audio", result.AudioPath},
					{"Detected language", result.Transcript.Language},
					{"Translation provider", result.Translation.Provider},
					{"Elapsed", result.Elapsed.Round(100 * time.Millisecond).String()},
				},
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetLang, "to", "", "Target language code (required)")
	cmd.Flags().StringVar(&sourceLang, "from", "", "Source language code (default: auto-detect)")
	cmd.Flags().StringVar(&engine, "engine", "", "Synthesis engine (default: configured engine)")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice identifier")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Speech speed (0.5-2.0)")
	cmd.Flags().Float64Var(&pitch, "pitch", 1.0, "Speech pitch (0.5-2.0)")
	cmd.Flags().Float64Var(&volume, "volume", 1.0, "Speech volume (0.0-1.0)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
