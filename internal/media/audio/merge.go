package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// MergeOptions tune sequential audio concatenation.
type MergeOptions struct {
	// Output is the destination path; required.
	Output string
	// Bitrate applies when re-encoding lossy output.
	Bitrate string
	// StreamCopy concatenates without re-encoding. Only safe when every
	// input shares codec and parameters.
	StreamCopy bool
}

// MergeResult summarizes a completed concatenation.
type MergeResult struct {
	Output    string
	Inputs    int
	SizeBytes int64
}

// Merge concatenates two or more audio files end to end using the ffmpeg
// concat demuxer.
func (s *Service) Merge(ctx context.Context, inputs []string, opts MergeOptions) (MergeResult, error) {
	if len(inputs) < 2 {
		return MergeResult{}, services.Wrap(services.ErrValidation, "audio", "merge",
			fmt.Sprintf("need at least 2 inputs, got %d", len(inputs)), nil)
	}
	if strings.TrimSpace(opts.Output) == "" {
		return MergeResult{}, services.Wrap(services.ErrValidation, "audio", "merge", "output path required", nil)
	}
	for _, input := range inputs {
		if !fileutil.Exists(input) {
			return MergeResult{}, services.Wrap(services.ErrNotFound, "audio", "merge",
				"input not found: "+input, nil)
		}
	}

	listPath, err := writeConcatList(filepath.Dir(opts.Output), inputs)
	if err != nil {
		return MergeResult{}, services.Wrap(services.ErrExternalTool, "audio", "merge", "write file list", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	if opts.StreamCopy {
		args = append(args, "-c", "copy")
	} else {
		bitrate := opts.Bitrate
		if bitrate == "" {
			bitrate = DefaultBitrate
		}
		args = append(args, "-c:a", codecFor(opts.Output), "-b:a", bitrate)
	}
	args = append(args, "-y", opts.Output)

	log := logging.WithContext(ctx, s.logger)
	log.Info("merging audio files",
		logging.Int("inputs", len(inputs)),
		logging.String("output", opts.Output))

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: opts.Output,
		Timeout:    mergeTimeout,
		Operation:  "merge",
	}); err != nil {
		return MergeResult{}, err
	}

	result := MergeResult{Output: opts.Output, Inputs: len(inputs)}
	if info, statErr := os.Stat(opts.Output); statErr == nil {
		result.SizeBytes = info.Size()
	}
	return result, nil
}

// writeConcatList materializes the concat demuxer file list. Paths are made
// absolute so the list location does not affect resolution, and single quotes
// are escaped per the demuxer's quoting rules.
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
