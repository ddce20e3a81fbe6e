package tts

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"mediaforge/internal/batch"
	"mediaforge/internal/fileutil"
	"mediaforge/internal/logging"
	"mediaforge/internal/services"
)

// Settings aggregates per-engine configuration for the default registry.
type Settings struct {
	Edge     EdgeSettings
	Voicevox VoicevoxSettings
	Google   GoogleSettings
	System   SystemSettings
}

// NewDefaultRegistry registers the standard engine set. Engines are not
// constructed here; the registry builds each on first use.
func NewDefaultRegistry(s Settings) *Registry {
	registry := NewRegistry()
	registry.Register(EdgeName, func() (Engine, error) { return NewEdge(s.Edge) })
	registry.Register(VoicevoxName, func() (Engine, error) { return NewVoicevox(s.Voicevox) })
	registry.Register(GoogleName, func() (Engine, error) { return NewGoogle(s.Google) })
	registry.Register(SystemName, func() (Engine, error) { return NewSystem(s.System) })
	return registry
}

// Manager turns engine output into files on disk and runs batch synthesis.
type Manager struct {
	registry  *Registry
	outputDir string
	logger    *slog.Logger
}

// NewManager builds a Manager writing into outputDir (current directory when
// empty).
func NewManager(registry *Registry, outputDir string, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewDefaultRegistry(Settings{})
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Manager{
		registry:  registry,
		outputDir: outputDir,
		logger:    logging.NewComponentLogger(logger, "tts"),
	}
}

// Registry exposes the underlying engine registry.
func (m *Manager) Registry() *Registry { return m.registry }

// SynthesizeRequest names one synthesis unit.
type SynthesizeRequest struct {
	Text   string
	Engine string
	Params Params
	// Output overrides the content-hash derived path.
	Output string
}

// Synthesize renders text with the named engine and writes the audio file,
// returning its path. The default name is a content hash of the text, so
// identical inputs land on the same file.
func (m *Manager) Synthesize(ctx context.Context, req SynthesizeRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", services.Wrap(services.ErrValidation, "tts", "synthesize", "empty text", nil)
	}
	engine, err := m.registry.Get(req.Engine)
	if err != nil {
		return "", err
	}

	ctx = services.WithEngine(ctx, engine.Name())
	log := logging.WithContext(ctx, m.logger)
	log.Info("synthesizing speech",
		logging.Int("text_length", len(req.Text)),
		logging.String("voice", req.Params.Voice))

	audio, err := engine.Synthesize(ctx, req.Text, req.Params)
	if err != nil {
		return "", err
	}

	output := req.Output
	if output == "" {
		if err := fileutil.EnsureDir(m.outputDir); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "tts", "synthesize", "ensure output dir", err)
		}
		output = fileutil.HashName(m.outputDir, req.Text, engine.FileExtension())
	}
	if err := os.WriteFile(output, audio, 0o644); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "tts", "synthesize", "write "+output, err)
	}

	log.Info("synthesis complete",
		logging.String(logging.FieldPath, output),
		logging.Int("bytes", len(audio)))
	return output, nil
}

// SynthesizeBatch renders several texts with at most limit in flight. Slot i
// of the result always corresponds to reqs[i]; one failed item never aborts
// the rest.
func (m *Manager) SynthesizeBatch(ctx context.Context, reqs []SynthesizeRequest, limit int) []batch.Result[string] {
	return batch.Run(ctx, len(reqs), limit, func(ctx context.Context, i int) (string, error) {
		return m.Synthesize(ctx, reqs[i])
	})
}

// FileExtension reports the audio container extension the named engine
// produces, without leading dot.
func (m *Manager) FileExtension(engineName string) (string, error) {
	engine, err := m.registry.Get(engineName)
	if err != nil {
		return "", err
	}
	return engine.FileExtension(), nil
}

// ListVoices enumerates voices for the named engine.
func (m *Manager) ListVoices(ctx context.Context, engineName string) ([]string, error) {
	engine, err := m.registry.Get(engineName)
	if err != nil {
		return nil, err
	}
	return engine.ListVoices(ctx)
}
