package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// MixOptions tune simultaneous audio overlay.
type MixOptions struct {
	// Output is the destination path; required.
	Output string
	// Volumes holds one multiplier per input. Empty means equal weighting
	// of 1/N; any other length mismatch is rejected.
	Volumes []float64
}

// Mix overlays two or more audio files into one track whose duration follows
// the longest input.
func (s *Service) Mix(ctx context.Context, inputs []string, opts MixOptions) (string, error) {
	if len(inputs) < 2 {
		return "", services.Wrap(services.ErrValidation, "audio", "mix",
			fmt.Sprintf("need at least 2 inputs, got %d", len(inputs)), nil)
	}
	if strings.TrimSpace(opts.Output) == "" {
		return "", services.Wrap(services.ErrValidation, "audio", "mix", "output path required", nil)
	}
	volumes := opts.Volumes
	if len(volumes) == 0 {
		equal := 1.0 / float64(len(inputs))
		volumes = make([]float64, len(inputs))
		for i := range volumes {
			volumes[i] = equal
		}
	}
	if len(volumes) != len(inputs) {
		return "", services.Wrap(services.ErrValidation, "audio", "mix",
			fmt.Sprintf("%d volumes for %d inputs", len(volumes), len(inputs)), nil)
	}
	for _, input := range inputs {
		if !fileutil.Exists(input) {
			return "", services.Wrap(services.ErrNotFound, "audio", "mix", "input not found: "+input, nil)
		}
	}

	args := make([]string, 0, len(inputs)*2+8)
	for _, input := range inputs {
		args = append(args, "-i", input)
	}

	var filter strings.Builder
	for i, volume := range volumes {
		fmt.Fprintf(&filter, "[%d:a]volume=%g[a%d];", i, volume, i)
	}
	for i := range inputs {
		fmt.Fprintf(&filter, "[a%d]", i)
	}
	fmt.Fprintf(&filter, "amix=inputs=%d:duration=longest[out]", len(inputs))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-y", opts.Output,
	)

	log := logging.WithContext(ctx, s.logger)
	log.Info("mixing audio files",
		logging.Int("inputs", len(inputs)),
		logging.String("output", opts.Output))

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: opts.Output,
		Timeout:    mixTimeout,
		Operation:  "mix",
	}); err != nil {
		return "", err
	}
	return opts.Output, nil
}

// AdjustSpeed changes playback speed without altering pitch via the atempo
// filter. Factor must be in (0, 2].
func (s *Service) AdjustSpeed(ctx context.Context, input string, factor float64, output string) (string, error) {
	if factor <= 0 || factor > 2.0 {
		return "", services.Wrap(services.ErrValidation, "audio", "speed",
			fmt.Sprintf("factor %g outside (0, 2]", factor), nil)
	}
	if !fileutil.Exists(input) {
		return "", services.Wrap(services.ErrNotFound, "audio", "speed", "input not found: "+input, nil)
	}
	if output == "" {
		ext := strings.ToLower(filepath.Ext(input))
		if ext == "" {
			ext = ".mp3"
		}
		output = fileutil.DerivedName("", "speed", input, ext)
	}

	args := []string{
		"-i", input,
		"-filter:a", fmt.Sprintf("atempo=%g", factor),
		"-y", output,
	}

	if _, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: output,
		Timeout:    mixTimeout,
		Operation:  "speed",
	}); err != nil {
		return "", err
	}
	return output, nil
}
