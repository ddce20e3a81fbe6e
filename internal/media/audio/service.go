package audio

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
)

// Default encoding parameters applied when callers leave options zero.
const (
	DefaultBitrate    = "192k"
	DefaultSampleRate = "44100"

	extractTimeout = 5 * time.Minute
	mergeTimeout   = 10 * time.Minute
	mixTimeout     = 10 * time.Minute
)

// codecForExtension maps an output container extension to the ffmpeg audio
// codec used when re-encoding.
var codecForExtension = map[string]string{
	".mp3": "libmp3lame",
	".wav": "pcm_s16le",
	".aac": "aac",
	".m4a": "aac",
	".ogg": "libvorbis",
}

// Service implements the audio transform operations on top of the shared
// subprocess runner.
type Service struct {
	runner *ffmpeg.Runner
	logger *slog.Logger
}

// NewService builds an audio Service. A nil runner gets the default ffmpeg
// runner; a nil logger is replaced with a no-op logger.
func NewService(runner *ffmpeg.Runner, logger *slog.Logger) *Service {
	if runner == nil {
		runner = ffmpeg.NewRunner("ffmpeg")
	}
	return &Service{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "audio"),
	}
}

// codecFor resolves the encoder for an output path, defaulting to MP3.
func codecFor(output string) string {
	ext := strings.ToLower(filepath.Ext(output))
	if codec, ok := codecForExtension[ext]; ok {
		return codec
	}
	return codecForExtension[".mp3"]
}
