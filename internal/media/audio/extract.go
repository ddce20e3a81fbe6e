package audio

import (
	"context"
	"strings"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// ExtractOptions tune audio extraction from a video container.
type ExtractOptions struct {
	// Output is the destination path. When empty the service derives
	// "extracted_<stem>.<ext>" next to the source.
	Output string
	// Bitrate applies to lossy outputs (e.g. "192k").
	Bitrate string
}

// ExtractMP3 pulls the audio track from video into an MP3 file and returns
// the output path.
func (s *Service) ExtractMP3(ctx context.Context, video string, opts ExtractOptions) (string, error) {
	output := opts.Output
	if output == "" {
		output = fileutil.DerivedName("", "extracted", video, ".mp3")
	}
	bitrate := opts.Bitrate
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	args := []string{
		"-i", video,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", bitrate,
		"-ar", DefaultSampleRate,
		"-y", output,
	}
	return s.extract(ctx, video, output, args)
}

// ExtractWAV pulls the audio track from video into an uncompressed stereo WAV
// file and returns the output path.
func (s *Service) ExtractWAV(ctx context.Context, video string, opts ExtractOptions) (string, error) {
	output := opts.Output
	if output == "" {
		output = fileutil.DerivedName("", "extracted", video, ".wav")
	}
	args := []string{
		"-i", video,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", DefaultSampleRate,
		"-ac", "2",
		"-y", output,
	}
	return s.extract(ctx, video, output, args)
}

func (s *Service) extract(ctx context.Context, video, output string, args []string) (string, error) {
	if strings.TrimSpace(video) == "" {
		return "", services.Wrap(services.ErrValidation, "audio", "extract", "empty source path", nil)
	}
	if !fileutil.Exists(video) {
		return "", services.Wrap(services.ErrNotFound, "audio", "extract", "source not found: "+video, nil)
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("extracting audio",
		logging.String(logging.FieldPath, video),
		logging.String("output", output))

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: output,
		Timeout:    extractTimeout,
		Operation:  "extract",
	}); err != nil {
		return "", err
	}
	return output, nil
}
