package download_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mediaforge/internal/download"
	"mediaforge/internal/media/audio"
	"mediaforge/internal/services"
)

// fakeDownloader streams scripted stdout lines and creates the file named in
// any destination line so the manager's existence check passes.
type fakeDownloader struct {
	mu     sync.Mutex
	lines  []string
	stdout []byte
	err    error
	calls  [][]string

	delay    time.Duration
	inFlight int32
	maxSeen  int32
}

func (f *fakeDownloader) Run(_ context.Context, _ string, args []string, onLine func(string)) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()

	current := atomic.AddInt32(&f.inFlight, 1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	if f.err != nil {
		return nil, f.err
	}
	for _, line := range f.lines {
		if dest, ok := cutDestination(line); ok {
			_ = os.WriteFile(dest, []byte("video"), 0o644)
		}
		if onLine != nil {
			onLine(line)
		}
	}
	return f.stdout, nil
}

func cutDestination(line string) (string, bool) {
	const prefix = "[download] Destination: "
	if len(line) > len(prefix) && line[:len(prefix)] == prefix {
		return line[len(prefix):], true
	}
	return "", false
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) ExtractWAV(_ context.Context, video string, _ audio.ExtractOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(filepath.Dir(video), "extracted_clip.wav")
	_ = os.WriteFile(path, []byte("wav"), 0o644)
	return path, nil
}

func TestFetchMetadataParsesProbe(t *testing.T) {
	executor := &fakeDownloader{stdout: []byte(`{
		"id": "abc123", "title": "Sample", "uploader": "someone",
		"duration": 93.5, "webpage_url": "https://example.com/v/abc123",
		"ext": "mp4", "width": 1920, "height": 1080
	}`)}
	manager := download.NewManager(download.Settings{Executor: executor})

	info, err := manager.FetchMetadata(context.Background(), "https://example.com/v/abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "Sample" || info.Duration != 93.5 || info.Height != 1080 {
		t.Fatalf("unexpected info %+v", info)
	}
	args := executor.calls[0]
	if args[0] != "-J" {
		t.Fatalf("expected -J probe, got %v", args)
	}
}

func TestFetchMetadataValidatesURL(t *testing.T) {
	manager := download.NewManager(download.Settings{Executor: &fakeDownloader{}})
	if _, err := manager.FetchMetadata(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFetchMetadataMissingBinary(t *testing.T) {
	executor := &fakeDownloader{err: fmt.Errorf("start: %w", exec.ErrNotFound)}
	manager := download.NewManager(download.Settings{Executor: executor})
	if _, err := manager.FetchMetadata(context.Background(), "https://example.com/v"); !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestDownloadReportsProgressAndDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.mp4")
	executor := &fakeDownloader{lines: []string{
		"[download] Destination: " + dest,
		"dl:512:1024",
		"dl:1024:1024",
	}}
	manager := download.NewManager(download.Settings{Executor: executor, OutputDir: dir})

	var percents []float64
	result, err := manager.Download(context.Background(), download.Request{
		URL:        "https://example.com/v/abc",
		Resolution: download.Res720p,
		OnProgress: func(p download.Progress) { percents = append(percents, p.Percent) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.VideoPath != dest {
		t.Fatalf("unexpected path %q", result.VideoPath)
	}
	if len(percents) != 2 || percents[0] != 50 || percents[1] != 100 {
		t.Fatalf("unexpected progress %v", percents)
	}

	joined := ""
	for _, arg := range executor.calls[0] {
		joined += arg + " "
	}
	want := "bestvideo[height<=720]+bestaudio/best[height<=720]/best"
	found := false
	for _, arg := range executor.calls[0] {
		if arg == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("format selector missing from args: %s", joined)
	}
}

func TestDownloadFailsWithoutDestination(t *testing.T) {
	executor := &fakeDownloader{lines: []string{"dl:1:2"}}
	manager := download.NewManager(download.Settings{Executor: executor, OutputDir: t.TempDir()})

	_, err := manager.Download(context.Background(), download.Request{URL: "https://example.com/v"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDownloadSidecarIsBestEffort(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.mp4")
	executor := &fakeDownloader{lines: []string{"[download] Destination: " + dest}}
	extractor := &fakeExtractor{err: errors.New("no audio stream")}
	manager := download.NewManager(download.Settings{
		Executor:  executor,
		Extractor: extractor,
		OutputDir: dir,
	})

	result, err := manager.Download(context.Background(), download.Request{
		URL:          "https://example.com/v",
		IncludeAudio: true,
	})
	if err != nil {
		t.Fatalf("extraction failure must not fail the download: %v", err)
	}
	if result.AudioPath != "" {
		t.Fatalf("expected empty audio path, got %q", result.AudioPath)
	}

	extractor.err = nil
	result, err = manager.Download(context.Background(), download.Request{
		URL:          "https://example.com/v",
		IncludeAudio: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.AudioPath == "" {
		t.Fatal("expected side-car audio path")
	}
}

func TestDownloadBatchRespectsConcurrencyCap(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.mp4")
	executor := &fakeDownloader{
		lines: []string{"[download] Destination: " + dest},
		delay: 30 * time.Millisecond,
	}
	manager := download.NewManager(download.Settings{
		Executor:      executor,
		OutputDir:     dir,
		MaxConcurrent: 2,
	})

	urls := []string{
		"https://example.com/1", "https://example.com/2", "https://example.com/3",
		"https://example.com/4", "https://example.com/5",
	}
	results := manager.DownloadBatch(context.Background(), urls, download.Request{})
	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("slot %d failed: %v", i, res.Err)
		}
		if res.Value.URL != urls[i] {
			t.Fatalf("slot %d holds %q, want %q", i, res.Value.URL, urls[i])
		}
	}
	if max := atomic.LoadInt32(&executor.maxSeen); max > 2 {
		t.Fatalf("concurrency cap exceeded: %d", max)
	}
}
