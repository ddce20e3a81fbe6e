package dubbing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/media/audio"
	"mediaforge/internal/services"
	"mediaforge/internal/transcribe"
	"mediaforge/internal/translate"
	"mediaforge/internal/tts"
)

// AudioExtractor pulls the audio track out of a video container.
type AudioExtractor interface {
	ExtractWAV(ctx context.Context, video string, opts audio.ExtractOptions) (string, error)
}

// Transcriber converts speech audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (transcribe.Result, error)
}

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) (translate.Record, error)
}

// Synthesizer renders text to an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, req tts.SynthesizeRequest) (string, error)
	FileExtension(engineName string) (string, error)
}

// StageError tags a pipeline failure with the stage that produced it. The
// underlying error is surfaced verbatim through Unwrap.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Services collects the collaborators the pipeline drives.
type Services struct {
	Extractor   AudioExtractor
	Transcriber Transcriber
	Translator  Translator
	Synthesizer Synthesizer
}

// Request describes one dubbing run.
type Request struct {
	// Input is the source media path.
	Input string
	// TargetLanguage is the language to dub into.
	TargetLanguage string
	// SourceLanguage overrides the transcription-detected source when set.
	SourceLanguage string
	// Engine names the synthesis engine.
	Engine string
	// Voice selects a specific voice; engine default when empty.
	Voice string
	// Params carries speed/pitch/volume adjustments.
	Params tts.Params
	// OutputDir receives intermediate and final artifacts; the input's
	// directory when empty.
	OutputDir string
	// TranscribeOptions tune the recognition stage.
	TranscribeOptions transcribe.Options
}

// Result is a completed dubbing run.
type Result struct {
	JobID string
	// Output is the final synthesized audio path.
	Output string
	// AudioPath is the extracted source audio, left on disk.
	AudioPath string
	// Transcript is the recognized source text.
	Transcript transcribe.Result
	// Translation records the text and the provider that produced it.
	Translation translate.Record
	Elapsed     time.Duration
}

// Pipeline runs media through extract, transcribe, translate and synthesize
// in strict sequence. Any stage error aborts the run; earlier stages' outputs
// stay on disk for diagnosis.
type Pipeline struct {
	services    Services
	broadcaster *Broadcaster
	logger      *slog.Logger
}

// NewPipeline builds a Pipeline. A nil broadcaster gets a default one.
func NewPipeline(svcs Services, broadcaster *Broadcaster, logger *slog.Logger) *Pipeline {
	if broadcaster == nil {
		broadcaster = NewBroadcaster(0)
	}
	return &Pipeline{
		services:    svcs,
		broadcaster: broadcaster,
		logger:      logging.NewComponentLogger(logger, "dubbing"),
	}
}

// Subscribe registers a progress consumer. The returned function removes the
// subscription and closes the channel.
func (p *Pipeline) Subscribe() (<-chan ProgressEvent, func()) {
	return p.broadcaster.Subscribe()
}

// Run executes the full pipeline for one input. The final output is named
// dubbed_<stem>.<ext> in the output directory.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Input) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "dubbing", "run", "empty input path", nil)
	}
	if !fileutil.Exists(req.Input) {
		return Result{}, services.Wrap(services.ErrNotFound, "dubbing", "run",
			"input not found: "+req.Input, nil)
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "dubbing", "run", "target language required", nil)
	}
	if strings.TrimSpace(req.Engine) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "dubbing", "run", "engine required", nil)
	}

	started := time.Now()
	jobID := uuid.NewString()
	ctx = services.WithJobID(ctx, jobID)
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(req.Input)
	}
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "dubbing", "run", "ensure output dir", err)
	}

	log := logging.WithContext(ctx, p.logger)
	log.Info("dubbing started",
		logging.String(logging.FieldPath, req.Input),
		logging.String(logging.FieldLanguage, req.TargetLanguage),
		logging.String(logging.FieldEngine, req.Engine))

	result := Result{JobID: jobID}

	// Stage 1: extract the audio track.
	stageCtx := p.enterStage(ctx, jobID, StageExtractAudio)
	audioPath, err := p.services.Extractor.ExtractWAV(stageCtx, req.Input, audio.ExtractOptions{
		Output: fileutil.DerivedName(outputDir, "extracted", req.Input, ".wav"),
	})
	if err != nil {
		return Result{}, p.fail(ctx, StageExtractAudio, err)
	}
	result.AudioPath = audioPath

	// Stage 2: transcribe the speech.
	stageCtx = p.enterStage(ctx, jobID, StageTranscribe)
	transcribeOpts := req.TranscribeOptions
	if transcribeOpts.OutputDir == "" {
		transcribeOpts.OutputDir = outputDir
	}
	transcript, err := p.services.Transcriber.Transcribe(stageCtx, audioPath, transcribeOpts)
	if err != nil {
		return Result{}, p.fail(ctx, StageTranscribe, err)
	}
	result.Transcript = transcript

	// Stage 3: translate, preferring the detected source language.
	stageCtx = p.enterStage(ctx, jobID, StageTranslate)
	sourceLang := req.SourceLanguage
	if sourceLang == "" {
		sourceLang = transcript.Language
	}
	record, err := p.services.Translator.Translate(stageCtx, translate.Request{
		Text:           transcript.Text,
		SourceLanguage: sourceLang,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return Result{}, p.fail(ctx, StageTranslate, err)
	}
	result.Translation = record

	// Stage 4: synthesize the translated speech.
	stageCtx = p.enterStage(ctx, jobID, StageSynthesize)
	ext, err := p.services.Synthesizer.FileExtension(req.Engine)
	if err != nil {
		return Result{}, p.fail(ctx, StageSynthesize, err)
	}
	params := req.Params
	if req.Voice != "" {
		params.Voice = req.Voice
	}
	output, err := p.services.Synthesizer.Synthesize(stageCtx, tts.SynthesizeRequest{
		Text:   record.Text,
		Engine: req.Engine,
		Params: params,
		Output: fileutil.DerivedName(outputDir, "dubbed", req.Input, "."+ext),
	})
	if err != nil {
		return Result{}, p.fail(ctx, StageSynthesize, err)
	}
	result.Output = output
	result.Elapsed = time.Since(started)

	p.emit(jobID, StageDone)
	log.Info("dubbing complete",
		logging.String(logging.FieldPath, output),
		logging.String(logging.FieldProvider, record.Provider),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (p *Pipeline) enterStage(ctx context.Context, jobID string, stage Stage) context.Context {
	p.emit(jobID, stage)
	ctx = services.WithStage(ctx, string(stage))
	logging.WithContext(ctx, p.logger).Info("stage started",
		logging.String(logging.FieldStage, string(stage)))
	return ctx
}

func (p *Pipeline) emit(jobID string, stage Stage) {
	p.broadcaster.Publish(ProgressEvent{
		JobID:   jobID,
		Stage:   stage,
		Percent: stage.Checkpoint(),
		Message: stage.Label(),
	})
}

func (p *Pipeline) fail(ctx context.Context, stage Stage, err error) error {
	logging.WithContext(ctx, p.logger).Error("stage failed",
		logging.String(logging.FieldStage, string(stage)),
		logging.Error(err))
	return &StageError{Stage: stage, Err: err}
}
