package video_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/media/video"
	"mediaforge/internal/services"
)

type writingExecutor struct {
	args [][]string
}

func (w *writingExecutor) Run(_ context.Context, _ string, args []string) ([]byte, []byte, error) {
	w.args = append(w.args, args)
	for i, arg := range args {
		if arg == "-y" && i+1 < len(args) {
			_ = os.WriteFile(args[i+1], []byte("video"), 0o644)
		}
	}
	return nil, nil, nil
}

func newService(exec ffmpeg.Executor) *video.Service {
	return video.NewService(ffmpeg.NewRunner("ffmpeg", ffmpeg.WithExecutor(exec)), nil)
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeStreamCopyUsesConcatDemuxer(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp4")
	b := writeInput(t, dir, "b.mp4")
	exec := &writingExecutor{}

	output, err := newService(exec).Merge(context.Background(), []string{a, b},
		video.MergeOptions{Output: filepath.Join(dir, "merged.mp4")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(output) != "merged.mp4" {
		t.Fatalf("unexpected output %q", output)
	}
	joined := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-f concat", "-safe 0", "-c copy"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
}

func TestMergeReencodeUsesConcatFilter(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp4")
	b := writeInput(t, dir, "b.mp4")
	c := writeInput(t, dir, "c.mp4")
	exec := &writingExecutor{}

	_, err := newService(exec).Merge(context.Background(), []string{a, b, c},
		video.MergeOptions{Output: filepath.Join(dir, "merged.mp4"), Reencode: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"concat=n=3:v=1:a=1", "-c:v libx264", "-crf 23", "-c:a aac"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
}

func TestMergeRequiresTwoInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.mp4")
	_, err := newService(&writingExecutor{}).Merge(context.Background(), []string{a},
		video.MergeOptions{Output: filepath.Join(dir, "merged.mp4")})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddAudioReplacesTrack(t *testing.T) {
	dir := t.TempDir()
	vid := writeInput(t, dir, "movie.mp4")
	aud := writeInput(t, dir, "dub.mp3")
	exec := &writingExecutor{}

	output, err := newService(exec).AddAudio(context.Background(), vid, aud, video.AddAudioOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(output) != "dubbed_movie.mp4" {
		t.Fatalf("unexpected output %q", output)
	}
	joined := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"-map 0:v:0", "-map 1:a:0", "-c:v copy", "-shortest"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
}

func TestAddAudioMixKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	vid := writeInput(t, dir, "movie.mp4")
	aud := writeInput(t, dir, "dub.mp3")
	exec := &writingExecutor{}

	_, err := newService(exec).AddAudio(context.Background(), vid, aud,
		video.AddAudioOptions{MixOriginal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.Join(exec.args[0], " "), "amerge=inputs=2") {
		t.Fatalf("expected amerge filter, got %v", exec.args[0])
	}
}

func TestAddAudioMissingInput(t *testing.T) {
	dir := t.TempDir()
	vid := writeInput(t, dir, "movie.mp4")
	_, err := newService(&writingExecutor{}).AddAudio(context.Background(), vid,
		filepath.Join(dir, "absent.mp3"), video.AddAudioOptions{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
