// Package deps checks the external tools the pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"mediaforge/internal/config"
)

// Requirement defines one external tool dependency.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional tools degrade a feature instead of blocking the pipeline.
	Optional bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default returns the tool set for the configured binaries.
func Default(cfg *config.Config) []Requirement {
	transcribeBinary := "whisper"
	downloadBinary := "yt-dlp"
	offlineBinary := "argos-translate"
	if cfg != nil {
		if cfg.Transcribe.Binary != "" {
			transcribeBinary = cfg.Transcribe.Binary
		}
		if cfg.Download.Binary != "" {
			downloadBinary = cfg.Download.Binary
		}
		if cfg.Translate.OfflineBinary != "" {
			offlineBinary = cfg.Translate.OfflineBinary
		}
	}
	return []Requirement{
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Audio/video transforms"},
		{Name: "FFprobe", Command: "ffprobe", Description: "Media metadata probing"},
		{Name: "Downloader", Command: downloadBinary, Description: "Media downloads"},
		{Name: "Whisper", Command: transcribeBinary, Description: "Speech transcription"},
		{Name: "Offline translator", Command: offlineBinary, Description: "Network-free translation fallback", Optional: true},
		{Name: "Edge TTS", Command: "edge-tts", Description: "Neural speech synthesis", Optional: true},
		{Name: "eSpeak", Command: "espeak", Description: "System speech synthesis", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional tools.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
