// Package video implements video-side transforms: sequential merging of
// clips and attaching a new audio track to an existing container.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

const mergeTimeout = 30 * time.Minute

// Service implements the video transform operations.
type Service struct {
	runner *ffmpeg.Runner
	logger *slog.Logger
}

// NewService builds a video Service around the shared subprocess runner.
func NewService(runner *ffmpeg.Runner, logger *slog.Logger) *Service {
	if runner == nil {
		runner = ffmpeg.NewRunner("ffmpeg")
	}
	return &Service{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "video"),
	}
}

// MergeOptions tune clip concatenation.
type MergeOptions struct {
	// Output is the destination path; required.
	Output string
	// Reencode forces the concat filter graph with a fresh encode. Use it
	// when clips differ in codec, resolution, or frame rate; stream copy
	// through the concat demuxer is the fast path otherwise.
	Reencode bool
}

// Merge concatenates two or more clips into one file.
func (s *Service) Merge(ctx context.Context, inputs []string, opts MergeOptions) (string, error) {
	if len(inputs) < 2 {
		return "", services.Wrap(services.ErrValidation, "video", "merge",
			fmt.Sprintf("need at least 2 inputs, got %d", len(inputs)), nil)
	}
	if strings.TrimSpace(opts.Output) == "" {
		return "", services.Wrap(services.ErrValidation, "video", "merge", "output path required", nil)
	}
	for _, input := range inputs {
		if !fileutil.Exists(input) {
			return "", services.Wrap(services.ErrNotFound, "video", "merge", "input not found: "+input, nil)
		}
	}

	var args []string
	if opts.Reencode {
		args = buildConcatFilterArgs(inputs, opts.Output)
	} else {
		listPath, err := writeConcatList(filepath.Dir(opts.Output), inputs)
		if err != nil {
			return "", services.Wrap(services.ErrExternalTool, "video", "merge", "write file list", err)
		}
		defer os.Remove(listPath)
		args = []string{
			"-f", "concat",
			"-safe", "0",
			"-i", listPath,
			"-c", "copy",
			"-y", opts.Output,
		}
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("merging video clips",
		logging.Int("inputs", len(inputs)),
		logging.Bool("reencode", opts.Reencode),
		logging.String("output", opts.Output))

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: opts.Output,
		Timeout:    mergeTimeout,
		Operation:  "merge",
	}); err != nil {
		return "", err
	}
	return opts.Output, nil
}

// AddAudioOptions tune audio track attachment.
type AddAudioOptions struct {
	// Output is the destination path. When empty the service derives
	// "dubbed_<stem>.<ext>" next to the video.
	Output string
	// MixOriginal blends the new track with the container's existing audio
	// instead of replacing it.
	MixOriginal bool
}

// AddAudio attaches audioPath to video. By default the new track replaces the
// original; with MixOriginal both are blended.
func (s *Service) AddAudio(ctx context.Context, video, audioPath string, opts AddAudioOptions) (string, error) {
	for _, input := range []string{video, audioPath} {
		if !fileutil.Exists(input) {
			return "", services.Wrap(services.ErrNotFound, "video", "add-audio", "input not found: "+input, nil)
		}
	}
	output := opts.Output
	if output == "" {
		ext := strings.ToLower(filepath.Ext(video))
		if ext == "" {
			ext = ".mp4"
		}
		output = fileutil.DerivedName("", "dubbed", video, ext)
	}

	var args []string
	if opts.MixOriginal {
		args = []string{
			"-i", video,
			"-i", audioPath,
			"-filter_complex", "[0:a][1:a]amerge=inputs=2[aout]",
			"-map", "0:v:0",
			"-map", "[aout]",
			"-c:v", "copy",
			"-c:a", "aac",
			"-shortest",
			"-y", output,
		}
	} else {
		args = []string{
			"-i", video,
			"-i", audioPath,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:v", "copy",
			"-c:a", "aac",
			"-shortest",
			"-y", output,
		}
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("attaching audio track",
		logging.String(logging.FieldPath, video),
		logging.Bool("mix_original", opts.MixOriginal),
		logging.String("output", output))

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: output,
		Timeout:    mergeTimeout,
		Operation:  "add-audio",
	}); err != nil {
		return "", err
	}
	return output, nil
}

// buildConcatFilterArgs assembles the concat filter graph invocation used
// when clips need a unifying re-encode.
func buildConcatFilterArgs(inputs []string, output string) []string {
	args := make([]string, 0, len(inputs)*2+12)
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter, "[%d:v][%d:a]", i, i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[outv][outa]", len(inputs))
	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[outv]",
		"-map", "[outa]",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "192k",
		"-y", output,
	)
	return args
}

func writeConcatList(dir string, inputs []string) (string, error) {
	var builder strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		fmt.Fprintf(&builder, "file '%s'\n", escaped)
	}
	listPath := filepath.Join(dir, fmt.Sprintf("concat_%s.txt", uuid.NewString()[:8]))
	if err := os.WriteFile(listPath, []byte(builder.String()), 0o644); err != nil {
		return "", err
	}
	return listPath, nil
}
