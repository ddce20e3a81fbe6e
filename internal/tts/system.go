package tts

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// System engine defaults. The engine drives the host's espeak-compatible
// synthesizer: lowest fidelity, fully offline, no credential.
const (
	SystemName         = "system"
	SystemBinary       = "espeak"
	SystemDefaultVoice = "en"

	// systemBaseWPM is espeak's default speaking rate in words per minute.
	systemBaseWPM = 175
)

// SystemSettings configures the system-voice engine.
type SystemSettings struct {
	Binary       string
	DefaultVoice string
	WorkDir      string
	Runner       *ffmpeg.Runner
	LookPath     func(string) (string, error)
}

type systemEngine struct {
	binary       string
	defaultVoice string
	workDir      string
	runner       *ffmpeg.Runner
}

// NewSystem constructs the system engine, failing when no synthesizer binary
// is installed.
func NewSystem(s SystemSettings) (Engine, error) {
	binary := s.Binary
	if binary == "" {
		binary = SystemBinary
	}
	voice := s.DefaultVoice
	if voice == "" {
		voice = SystemDefaultVoice
	}
	workDir := s.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(binary); err != nil {
		return nil, services.Wrap(services.ErrProviderUnavailable, SystemName, "init",
			binary+" not installed", err)
	}
	runner := s.Runner
	if runner == nil {
		runner = ffmpeg.NewRunner(binary)
	}
	return &systemEngine{
		binary:       binary,
		defaultVoice: voice,
		workDir:      workDir,
		runner:       runner,
	}, nil
}

func (e *systemEngine) Name() string { return SystemName }

func (e *systemEngine) DefaultVoice() string { return e.defaultVoice }

func (e *systemEngine) FileExtension() string { return "wav" }

func (e *systemEngine) Synthesize(ctx context.Context, text string, params Params) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, SystemName, "synthesize", "empty text", nil)
	}
	params = params.Normalized()
	voice := params.Voice
	if voice == "" {
		voice = e.defaultVoice
	}

	output := filepath.Join(e.workDir, fmt.Sprintf("system_%s.wav", uuid.NewString()[:8]))
	defer os.Remove(output)

	// Native conversions: rate in words per minute, pitch 0..99 around a
	// default of 50, amplitude 0..200 around a default of 100.
	wpm := int(math.Round(systemBaseWPM * params.Speed))
	pitch := clampInt(int(math.Round(50*params.Pitch)), 0, 99)
	amplitude := clampInt(int(math.Round(100*params.Volume)), 0, 200)

	args := []string{
		"-v", voice,
		"-s", fmt.Sprintf("%d", wpm),
		"-p", fmt.Sprintf("%d", pitch),
		"-a", fmt.Sprintf("%d", amplitude),
		"-w", output,
		text,
	}
	if _, err := e.runner.Run(ctx, ffmpeg.Invocation{
		Args:       args,
		OutputPath: output,
		Operation:  "synthesize",
	}); err != nil {
		return nil, err
	}
	return os.ReadFile(output)
}

// ListVoices parses `espeak --voices` output, returning the language column.
func (e *systemEngine) ListVoices(ctx context.Context) ([]string, error) {
	stdout, err := e.runner.Run(ctx, ffmpeg.Invocation{
		Args:      []string{"--voices"},
		Operation: "list-voices",
	})
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(stdout), "\n")
	var voices []string
	for i, line := range lines {
		fields := strings.Fields(line)
		// First line is the column header.
		if i == 0 || len(fields) < 2 {
			continue
		}
		voices = append(voices, fields[1])
	}
	return voices, nil
}
