package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mediaforge/internal/batch"
	"mediaforge/internal/fileutil"
	langpkg "mediaforge/internal/language"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// DefaultModel balances accuracy and speed for CPU-only hosts.
const DefaultModel = "base"

// transcribeTimeout bounds one whisper invocation. Large models on long
// inputs are slow, so this is generous.
const transcribeTimeout = 30 * time.Minute

// modelSizes enumerates the accepted whisper model names.
var modelSizes = map[string]struct{}{
	"tiny": {}, "base": {}, "small": {}, "medium": {}, "large": {},
}

// Config holds construction-time transcription settings.
type Config struct {
	// Binary is the whisper CLI name; "whisper" when empty.
	Binary string
	// Model is the default model size.
	Model string
	// Device selects compute placement ("cpu", "cuda"); tool default when empty.
	Device string
}

// Options tune a single transcription.
type Options struct {
	// Language skips auto-detection when set.
	Language string
	// Model overrides the configured model size.
	Model string
	// OutputDir is where whisper writes its JSON; audio's directory when empty.
	OutputDir string
}

// Word is a single recognized word with timing.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one timestamped span of recognized speech.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Result is a completed transcription.
type Result struct {
	Text     string
	Language string
	Segments []Segment
	// Duration is the end timestamp of the final segment, in seconds.
	Duration float64
}

// Service wraps the whisper CLI.
type Service struct {
	cfg    Config
	runner *ffmpeg.Runner
	logger *slog.Logger
}

// NewService builds a transcription Service. A nil runner gets a default
// runner for the configured binary.
func NewService(cfg Config, runner *ffmpeg.Runner, logger *slog.Logger) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "whisper"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if runner == nil {
		runner = ffmpeg.NewRunner(cfg.Binary, ffmpeg.WithTimeout(transcribeTimeout))
	}
	return &Service{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Model returns the effective model for the given options.
func (s *Service) Model(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return s.cfg.Model
}

// Transcribe runs speech recognition over one audio file.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "transcribe", "run", "empty audio path", nil)
	}
	if !fileutil.Exists(audioPath) {
		return Result{}, services.Wrap(services.ErrNotFound, "transcribe", "run",
			"audio not found: "+audioPath, nil)
	}
	model := s.Model(opts)
	if _, ok := modelSizes[model]; !ok {
		return Result{}, services.Wrap(services.ErrValidation, "transcribe", "run",
			"unknown model size "+model, nil)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "run", "ensure output dir", err)
	}
	jsonPath := filepath.Join(outputDir, fileutil.Stem(audioPath)+".json")

	log := logging.WithContext(ctx, s.logger)
	log.Info("transcribing audio",
		logging.String(logging.FieldPath, audioPath),
		logging.String("model", model))

	_, err := s.runner.Run(ctx, ffmpeg.Invocation{
		Args:       s.buildArgs(audioPath, outputDir, model, opts.Language),
		OutputPath: jsonPath,
		Timeout:    transcribeTimeout,
		Operation:  "transcribe",
	})
	if err != nil {
		// A missing whisper binary means the capability is absent, not the input.
		if errors.Is(err, services.ErrNotFound) {
			return Result{}, services.Wrap(services.ErrProviderUnavailable, "transcribe", "run",
				s.cfg.Binary+" not installed", err)
		}
		return Result{}, err
	}

	result, err := loadResult(jsonPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "parse", jsonPath, err)
	}
	log.Info("transcription complete",
		logging.String(logging.FieldLanguage, result.Language),
		logging.Int("segments", len(result.Segments)),
		logging.Float64("duration_seconds", result.Duration))
	return result, nil
}

// TranscribeBatch transcribes several files with at most limit running at
// once. Slot i of the result always corresponds to audioPaths[i].
func (s *Service) TranscribeBatch(ctx context.Context, audioPaths []string, limit int, opts Options) []batch.Result[Result] {
	return batch.Run(ctx, len(audioPaths), limit, func(ctx context.Context, i int) (Result, error) {
		return s.Transcribe(ctx, audioPaths[i], opts)
	})
}

func (s *Service) buildArgs(audioPath, outputDir, model, language string) []string {
	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.Device != "" {
		args = append(args, "--device", s.cfg.Device)
	}
	return args
}

// whisperPayload is the JSON structure whisper writes.
type whisperPayload struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

func loadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, err
	}
	result := Result{
		Text:     strings.TrimSpace(payload.Text),
		Language: langpkg.ToISO2(payload.Language),
		Segments: payload.Segments,
	}
	if result.Text == "" {
		var parts []string
		for _, seg := range payload.Segments {
			if text := strings.TrimSpace(seg.Text); text != "" {
				parts = append(parts, text)
			}
		}
		result.Text = strings.Join(parts, " ")
	}
	if n := len(payload.Segments); n > 0 {
		result.Duration = payload.Segments[n-1].End
	}
	return result, nil
}
