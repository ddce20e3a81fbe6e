package config

// Default returns the configuration used before any file or environment
// overrides apply.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:   "~/mediaforge/output",
			WorkDir:     "~/mediaforge/work",
			DownloadDir: "~/mediaforge/downloads",
			LogDir:      "~/mediaforge/logs",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Translate: Translate{
			OfflineBinary: "argos-translate",
		},
		TTS: TTS{
			DefaultEngine:   "edge",
			VoicevoxURL:     "http://localhost:50021",
			VoicevoxSpeaker: "1",
		},
		Transcribe: Transcribe{
			Binary: "whisper",
			Model:  "base",
		},
		Download: Download{
			Binary:        "yt-dlp",
			MaxConcurrent: 3,
			Resolution:    "best",
		},
	}
}
