package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := strings.TrimSpace(path)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return err
				}
				target = expanded
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination path (default: the standard config location)")

	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"paths.output_dir", cfg.Paths.OutputDir},
				{"paths.work_dir", cfg.Paths.WorkDir},
				{"paths.download_dir", cfg.Paths.DownloadDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"translate.groq", credentialState(cfg.Translate.GroqAPIKey)},
				{"translate.gemini", credentialState(cfg.Translate.GeminiAPIKey)},
				{"translate.deepl", credentialState(cfg.Translate.DeepLAPIKey)},
				{"translate.openrouter", credentialState(cfg.Translate.OpenRouterAPIKey)},
				{"translate.openai", credentialState(cfg.Translate.OpenAIAPIKey)},
				{"translate.offline_binary", cfg.Translate.OfflineBinary},
				{"tts.default_engine", cfg.TTS.DefaultEngine},
				{"tts.voicevox_url", cfg.TTS.VoicevoxURL},
				{"tts.google", credentialState(cfg.TTS.GoogleAPIKey)},
				{"transcribe.binary", cfg.Transcribe.Binary},
				{"transcribe.model", cfg.Transcribe.Model},
				{"download.binary", cfg.Download.Binary},
				{"download.max_concurrent", fmt.Sprintf("%d", cfg.Download.MaxConcurrent)},
				{"download.resolution", cfg.Download.Resolution},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
}

// credentialState reports presence without echoing secrets.
func credentialState(key string) string {
	if strings.TrimSpace(key) == "" {
		return "unset (provider disabled)"
	}
	return "set"
}
