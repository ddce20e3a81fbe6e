package config

import (
	"fmt"
	"strings"
)

var (
	validFormats = map[string]struct{}{"console": {}, "json": {}}
	validLevels  = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}
	validEngines = map[string]struct{}{"edge": {}, "voicevox": {}, "googletts": {}, "system": {}}
	validModels  = map[string]struct{}{"tiny": {}, "base": {}, "small": {}, "medium": {}, "large": {}}
	validRes     = map[string]struct{}{"480p": {}, "720p": {}, "1080p": {}, "best": {}}
)

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if _, ok := validFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if _, ok := validLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if _, ok := validEngines[c.TTS.DefaultEngine]; !ok {
		return fmt.Errorf("tts.default_engine must be one of edge, voicevox, googletts, system, got %q", c.TTS.DefaultEngine)
	}
	if !strings.HasPrefix(c.TTS.VoicevoxURL, "http://") && !strings.HasPrefix(c.TTS.VoicevoxURL, "https://") {
		return fmt.Errorf("tts.voicevox_url must be an http(s) URL, got %q", c.TTS.VoicevoxURL)
	}
	if _, ok := validModels[c.Transcribe.Model]; !ok {
		return fmt.Errorf("transcribe.model must be tiny, base, small, medium or large, got %q", c.Transcribe.Model)
	}
	if c.Download.MaxConcurrent < 1 {
		return fmt.Errorf("download.max_concurrent must be at least 1, got %d", c.Download.MaxConcurrent)
	}
	if _, ok := validRes[c.Download.Resolution]; !ok {
		return fmt.Errorf("download.resolution must be 480p, 720p, 1080p or best, got %q", c.Download.Resolution)
	}
	return nil
}
