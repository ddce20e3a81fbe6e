package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives final dubbing and merge artifacts.
	OutputDir string `toml:"output_dir"`
	// WorkDir holds intermediate files (extracted audio, transcripts).
	WorkDir string `toml:"work_dir"`
	// DownloadDir receives downloaded media.
	DownloadDir string `toml:"download_dir"`
	// LogDir receives log files when file logging is enabled.
	LogDir string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Translate contains translation provider credentials. An empty credential
// disables that provider rather than failing startup; each falls back to its
// conventional environment variable.
type Translate struct {
	GroqAPIKey       string `toml:"groq_api_key"`
	GeminiAPIKey     string `toml:"gemini_api_key"`
	DeepLAPIKey      string `toml:"deepl_api_key"`
	OpenRouterAPIKey string `toml:"openrouter_api_key"`
	OpenAIAPIKey     string `toml:"openai_api_key"`
	// OfflineBinary is the local translator CLI name.
	OfflineBinary string `toml:"offline_binary"`
}

// TTS contains speech-synthesis engine configuration.
type TTS struct {
	// DefaultEngine is used when a command does not name one.
	DefaultEngine string `toml:"default_engine"`
	// VoicevoxURL is the companion server base URL.
	VoicevoxURL     string `toml:"voicevox_url"`
	VoicevoxSpeaker string `toml:"voicevox_speaker"`
	EdgeVoice       string `toml:"edge_voice"`
	GoogleAPIKey    string `toml:"google_api_key"`
}

// Transcribe contains speech-recognition configuration.
type Transcribe struct {
	Binary string `toml:"binary"`
	Model  string `toml:"model"`
	Device string `toml:"device"`
}

// Download contains downloader configuration.
type Download struct {
	Binary        string `toml:"binary"`
	MaxConcurrent int    `toml:"max_concurrent"`
	Resolution    string `toml:"resolution"`
}

// Config encapsulates all configuration values. It is constructed once at
// process start and passed explicitly to the components that need it.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
	Translate  Translate  `toml:"translate"`
	TTS        TTS        `toml:"tts"`
	Transcribe Transcribe `toml:"transcribe"`
	Download   Download   `toml:"download"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediaforge/config.toml")
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error: defaults apply and the third return reports whether a file
// was read. Credentials left empty in the file are resolved from the
// environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediaforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the working directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.DownloadDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
