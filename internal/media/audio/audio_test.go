package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/media/audio"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// writingExecutor records args and creates the path following "-y" so output
// verification passes.
type writingExecutor struct {
	args [][]string
	err  error
}

func (w *writingExecutor) Run(_ context.Context, _ string, args []string) ([]byte, []byte, error) {
	w.args = append(w.args, args)
	if w.err != nil {
		return nil, nil, w.err
	}
	for i, arg := range args {
		if arg == "-y" && i+1 < len(args) {
			_ = os.WriteFile(args[i+1], []byte("audio"), 0o644)
		}
	}
	return nil, nil, nil
}

func newService(exec ffmpeg.Executor) *audio.Service {
	return audio.NewService(ffmpeg.NewRunner("ffmpeg", ffmpeg.WithExecutor(exec)), nil)
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractMP3BuildsExpectedArgs(t *testing.T) {
	dir := t.TempDir()
	video := writeInput(t, dir, "movie.mp4")
	exec := &writingExecutor{}

	output, err := newService(exec).ExtractMP3(context.Background(), video, audio.ExtractOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(output) != "extracted_movie.mp3" {
		t.Fatalf("unexpected output name %q", output)
	}
	joined := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-vn", "-acodec libmp3lame", "-ab 192k", "-ar 44100", "-y"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %q", fragment, joined)
		}
	}
}

func TestExtractWAVUsesPCM(t *testing.T) {
	dir := t.TempDir()
	video := writeInput(t, dir, "movie.mp4")
	exec := &writingExecutor{}

	output, err := newService(exec).ExtractWAV(context.Background(), video, audio.ExtractOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(output) != "extracted_movie.wav" {
		t.Fatalf("unexpected output name %q", output)
	}
	joined := strings.Join(exec.args[0], " ")
	if !strings.Contains(joined, "-acodec pcm_s16le") || !strings.Contains(joined, "-ac 2") {
		t.Fatalf("expected WAV args, got %q", joined)
	}
}

func TestExtractMissingSource(t *testing.T) {
	_, err := newService(&writingExecutor{}).ExtractMP3(context.Background(),
		filepath.Join(t.TempDir(), "absent.mp4"), audio.ExtractOptions{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMergeRequiresTwoInputs(t *testing.T) {
	dir := t.TempDir()
	one := writeInput(t, dir, "a.mp3")

	_, err := newService(&writingExecutor{}).Merge(context.Background(), []string{one},
		audio.MergeOptions{Output: filepath.Join(dir, "merged.mp3")})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMergeChecksInputsBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp3")
	exec := &writingExecutor{}

	_, err := newService(exec).Merge(context.Background(),
		[]string{a, filepath.Join(dir, "missing.mp3")},
		audio.MergeOptions{Output: filepath.Join(dir, "merged.mp3")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(exec.args) != 0 {
		t.Fatal("ffmpeg must not run when inputs are missing")
	}
}

func TestMergeUsesConcatDemuxer(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp3")
	b := writeInput(t, dir, "b.mp3")
	exec := &writingExecutor{}

	result, err := newService(exec).Merge(context.Background(), []string{a, b},
		audio.MergeOptions{Output: filepath.Join(dir, "merged.mp3")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inputs != 2 || result.SizeBytes == 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	joined := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-f concat", "-safe 0", "-c:a libmp3lame", "-b:a 192k"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args %q", fragment, joined)
		}
	}
}

func TestMergeStreamCopy(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp3")
	b := writeInput(t, dir, "b.mp3")
	exec := &writingExecutor{}

	_, err := newService(exec).Merge(context.Background(), []string{a, b},
		audio.MergeOptions{Output: filepath.Join(dir, "merged.mp3"), StreamCopy: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.Join(exec.args[0], " "), "-c copy") {
		t.Fatalf("expected stream copy args, got %v", exec.args[0])
	}
}

func TestMixDefaultsToEqualVolumes(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp3")
	b := writeInput(t, dir, "b.mp3")
	exec := &writingExecutor{}

	_, err := newService(exec).Mix(context.Background(), []string{a, b},
		audio.MixOptions{Output: filepath.Join(dir, "mixed.mp3")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(exec.args[0], " ")
	if !strings.Contains(joined, "volume=0.5") {
		t.Fatalf("expected equal volume filters in %q", joined)
	}
	if !strings.Contains(joined, "amix=inputs=2:duration=longest") {
		t.Fatalf("expected amix filter in %q", joined)
	}
}

func TestMixRejectsVolumeLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp3")
	b := writeInput(t, dir, "b.mp3")

	_, err := newService(&writingExecutor{}).Mix(context.Background(), []string{a, b},
		audio.MixOptions{Output: filepath.Join(dir, "mixed.mp3"), Volumes: []float64{1.0}})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustSpeedValidatesFactor(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "track.mp3")
	svc := newService(&writingExecutor{})

	for _, factor := range []float64{0, -1, 2.5} {
		if _, err := svc.AdjustSpeed(context.Background(), input, factor, ""); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("factor %g: expected validation error, got %v", factor, err)
		}
	}
}

func TestAdjustSpeedBuildsAtempoFilter(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "track.mp3")
	exec := &writingExecutor{}

	output, err := newService(exec).AdjustSpeed(context.Background(), input, 1.5, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(output) != "speed_track.mp3" {
		t.Fatalf("unexpected output %q", output)
	}
	if !strings.Contains(strings.Join(exec.args[0], " "), "atempo=1.5") {
		t.Fatalf("expected atempo filter, got %v", exec.args[0])
	}
}
