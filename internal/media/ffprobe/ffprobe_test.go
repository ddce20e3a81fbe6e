package ffprobe_test

import (
	"context"
	"errors"
	"testing"

	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/media/ffprobe"
	"mediaforge/internal/services"
)

type stubExecutor struct {
	stdout []byte
	err    error
	args   []string
}

func (s *stubExecutor) Run(_ context.Context, _ string, args []string) ([]byte, []byte, error) {
	s.args = args
	return s.stdout, nil, s.err
}

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2,
     "tags": {"language": "jpn"}},
    {"index": 2, "codec_name": "mp3", "codec_type": "audio", "channels": 2}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 3, "duration": "123.456", "size": "1048576", "bit_rate": "128000"}
}`

func newInspector(exec ffmpeg.Executor) *ffprobe.Inspector {
	return ffprobe.NewInspector(ffmpeg.NewRunner("ffprobe", ffmpeg.WithExecutor(exec)))
}

func TestInspectParsesStreams(t *testing.T) {
	exec := &stubExecutor{stdout: []byte(sampleJSON)}
	result, err := newInspector(exec).Inspect(context.Background(), "movie.mkv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AudioStreamCount() != 2 || result.VideoStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %d audio %d video",
			result.AudioStreamCount(), result.VideoStreamCount())
	}
	if result.DurationSeconds() != 123.456 {
		t.Fatalf("unexpected duration %f", result.DurationSeconds())
	}
	if result.SizeBytes() != 1048576 {
		t.Fatalf("unexpected size %d", result.SizeBytes())
	}
}

func TestFirstAudioStreamPicksLowestIndex(t *testing.T) {
	exec := &stubExecutor{stdout: []byte(sampleJSON)}
	result, err := newInspector(exec).Inspect(context.Background(), "movie.mkv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stream, ok := result.FirstAudioStream()
	if !ok {
		t.Fatal("expected an audio stream")
	}
	if stream.Index != 1 || stream.CodecName != "aac" {
		t.Fatalf("unexpected stream %+v", stream)
	}
	if stream.Tags["language"] != "jpn" {
		t.Fatalf("expected language tag, got %v", stream.Tags)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	_, err := newInspector(&stubExecutor{}).Inspect(context.Background(), "  ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInspectPropagatesToolFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	_, err := newInspector(exec).Inspect(context.Background(), "movie.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestInspectRejectsMalformedJSON(t *testing.T) {
	exec := &stubExecutor{stdout: []byte("{not json")}
	_, err := newInspector(exec).Inspect(context.Background(), "movie.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected parse failure, got %v", err)
	}
}
