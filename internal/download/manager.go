package download

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mediaforge/internal/batch"
	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/audio"
	"mediaforge/internal/services"
)

const (
	// DefaultBinary is the downloader CLI.
	DefaultBinary = "yt-dlp"
	// DefaultMaxConcurrent caps simultaneous downloads.
	DefaultMaxConcurrent = 3

	metadataTimeout = 2 * time.Minute
	downloadTimeout = 60 * time.Minute
)

// AudioExtractor produces the optional lossless side-car audio file.
type AudioExtractor interface {
	ExtractWAV(ctx context.Context, video string, opts audio.ExtractOptions) (string, error)
}

// Settings configures the download Manager.
type Settings struct {
	// Binary overrides the downloader CLI name.
	Binary string
	// MaxConcurrent caps in-flight downloads; DefaultMaxConcurrent when <= 0.
	MaxConcurrent int
	// OutputDir receives downloaded files; current directory when empty.
	OutputDir string
	// Executor substitutes the subprocess runner (used by tests).
	Executor Executor
	// Extractor produces side-car audio; nil disables audio inclusion.
	Extractor AudioExtractor
	Logger    *slog.Logger
}

// Manager orchestrates metadata probes and capped concurrent downloads.
type Manager struct {
	binary    string
	outputDir string
	executor  Executor
	extractor AudioExtractor
	permits   chan struct{}
	logger    *slog.Logger
}

// NewManager builds a Manager from settings.
func NewManager(s Settings) *Manager {
	if s.Binary == "" {
		s.Binary = DefaultBinary
	}
	if s.MaxConcurrent <= 0 {
		s.MaxConcurrent = DefaultMaxConcurrent
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.Executor == nil {
		s.Executor = commandExecutor{}
	}
	return &Manager{
		binary:    s.Binary,
		outputDir: s.OutputDir,
		executor:  s.Executor,
		extractor: s.Extractor,
		permits:   make(chan struct{}, s.MaxConcurrent),
		logger:    logging.NewComponentLogger(s.Logger, "download"),
	}
}

// VideoInfo is the metadata subset surfaced from a probe.
type VideoInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	WebpageURL string  `json:"webpage_url"`
	Extension  string  `json:"ext"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// FetchMetadata probes a URL without downloading. Probes are not gated by the
// download semaphore.
func (m *Manager) FetchMetadata(ctx context.Context, url string) (VideoInfo, error) {
	if strings.TrimSpace(url) == "" {
		return VideoInfo{}, services.Wrap(services.ErrValidation, "download", "metadata", "empty url", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	stdout, err := m.executor.Run(ctx, m.binary, []string{"-J", "--no-playlist", url}, nil)
	if err != nil {
		return VideoInfo{}, m.classify("metadata", url, err, ctx)
	}
	var info VideoInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, "download", "metadata",
			"malformed metadata for "+url, err)
	}
	return info, nil
}

// Request describes one download.
type Request struct {
	URL        string
	Resolution Resolution
	// IncludeAudio adds a best-effort lossless WAV side-car.
	IncludeAudio bool
	// OutputDir overrides the manager's directory.
	OutputDir string
	// OnProgress receives normalized progress ticks; may be nil.
	OnProgress func(Progress)
}

// Result is one completed download.
type Result struct {
	URL       string
	VideoPath string
	// AudioPath is empty unless side-car extraction was requested and
	// succeeded.
	AudioPath string
}

// Download fetches one URL. At most the configured number of downloads run at
// once; excess callers wait for a permit.
func (m *Manager) Download(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "download", "fetch", "empty url", nil)
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = ResBest
	}

	select {
	case m.permits <- struct{}{}:
		defer func() { <-m.permits }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = m.outputDir
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "download", "fetch", "ensure output dir", err)
	}

	log := logging.WithContext(ctx, m.logger)
	log.Info("download started",
		logging.String(logging.FieldURL, req.URL),
		logging.String("resolution", string(resolution)))

	runCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	args := []string{
		"-f", resolution.FormatSelector(),
		"--newline",
		"--no-playlist",
		"--progress-template", progressTemplate,
		"-o", filepath.Join(outputDir, "%(title)s.%(ext)s"),
		req.URL,
	}

	var destination string
	_, err := m.executor.Run(runCtx, m.binary, args, func(line string) {
		if progress, ok := parseProgressLine(line); ok {
			if req.OnProgress != nil {
				req.OnProgress(progress)
			}
			return
		}
		if dest, ok := destinationFromLine(line); ok {
			destination = dest
		}
	})
	if err != nil {
		return Result{}, m.classify("fetch", req.URL, err, runCtx)
	}
	if destination == "" || !fileutil.Exists(destination) {
		return Result{}, services.Wrap(services.ErrExternalTool, "download", "fetch",
			"downloader reported no output for "+req.URL, nil)
	}

	result := Result{URL: req.URL, VideoPath: destination}
	if req.IncludeAudio {
		result.AudioPath = m.extractSidecar(ctx, destination)
	}
	log.Info("download complete",
		logging.String(logging.FieldURL, req.URL),
		logging.String(logging.FieldPath, destination))
	return result, nil
}

// extractSidecar pulls a WAV copy of the downloaded audio. Failure only logs;
// the download itself already succeeded.
func (m *Manager) extractSidecar(ctx context.Context, videoPath string) string {
	if m.extractor == nil {
		return ""
	}
	audioPath, err := m.extractor.ExtractWAV(ctx, videoPath, audio.ExtractOptions{})
	if err != nil {
		logging.WithContext(ctx, m.logger).Warn("side-car audio extraction failed",
			logging.String(logging.FieldPath, videoPath),
			logging.Error(err))
		return ""
	}
	return audioPath
}

// DownloadBatch fetches every URL, submitting all at once. The permit
// semaphore keeps concurrent downloads at the configured cap; slot i of the
// result always corresponds to urls[i].
func (m *Manager) DownloadBatch(ctx context.Context, urls []string, base Request) []batch.Result[Result] {
	return batch.Run(ctx, len(urls), len(urls), func(ctx context.Context, i int) (Result, error) {
		req := base
		req.URL = urls[i]
		return m.Download(ctx, req)
	})
}

func (m *Manager) classify(operation, url string, err error, ctx context.Context) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, "download", operation, url, err)
	case errors.Is(err, exec.ErrNotFound):
		return services.Wrap(services.ErrProviderUnavailable, "download", operation,
			m.binary+" not installed", err)
	default:
		return services.Wrap(services.ErrExternalTool, "download", operation, url, err)
	}
}
