package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.TTS.DefaultEngine != "edge" || cfg.Download.MaxConcurrent != 3 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("paths not expanded: %q", cfg.Paths.OutputDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
format = "JSON"
level = "Debug"

[tts]
default_engine = "voicevox"

[download]
max_concurrent = 5
resolution = "720p"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("file should exist")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.TTS.DefaultEngine != "voicevox" {
		t.Fatalf("unexpected engine %q", cfg.TTS.DefaultEngine)
	}
	if cfg.Download.MaxConcurrent != 5 || cfg.Download.Resolution != "720p" {
		t.Fatalf("download section not applied: %+v", cfg.Download)
	}
	// Unset sections keep their defaults.
	if cfg.Transcribe.Model != "base" {
		t.Fatalf("unexpected model %q", cfg.Transcribe.Model)
	}
}

func TestLoadResolvesCredentialsFromEnvironment(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gk-env")
	t.Setenv("DEEPL_API_KEY", "dk-env")
	t.Setenv("OPENAI_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[translate]
deepl_api_key = "dk-file"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Translate.GroqAPIKey != "gk-env" {
		t.Fatalf("env credential not resolved: %q", cfg.Translate.GroqAPIKey)
	}
	// The file wins over the environment.
	if cfg.Translate.DeepLAPIKey != "dk-file" {
		t.Fatalf("file credential overridden: %q", cfg.Translate.DeepLAPIKey)
	}
	// Absent everywhere stays empty, disabling the provider.
	if cfg.Translate.OpenAIAPIKey != "" {
		t.Fatalf("unexpected credential %q", cfg.Translate.OpenAIAPIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantIn  string
	}{
		{"format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"engine", "[tts]\ndefault_engine = \"festival\"\n", "tts.default_engine"},
		{"model", "[transcribe]\nmodel = \"huge\"\n", "transcribe.model"},
		{"concurrency", "[download]\nmax_concurrent = 0\n", "download.max_concurrent"},
		{"resolution", "[download]\nresolution = \"4k\"\n", "download.resolution"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantIn) {
				t.Fatalf("expected %s error, got %v", tc.wantIn, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("sample file should exist")
	}
	if cfg.TTS.VoicevoxURL != "http://localhost:50021" {
		t.Fatalf("unexpected voicevox url %q", cfg.TTS.VoicevoxURL)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.DownloadDir = ""
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sub := range []string{"out", "work", "logs"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("directory %s not created: %v", sub, err)
		}
	}
}
