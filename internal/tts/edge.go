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

// Edge defaults. The engine drives Microsoft's neural voices through the
// edge-tts CLI and needs no credential.
const (
	EdgeName         = "edge"
	EdgeBinary       = "edge-tts"
	EdgeDefaultVoice = "ja-JP-NanamiNeural"
)

// EdgeSettings configures the edge engine.
type EdgeSettings struct {
	Binary       string
	DefaultVoice string
	WorkDir      string
	// Runner substitutes the subprocess runner (used by tests).
	Runner *ffmpeg.Runner
	// LookPath substitutes binary resolution (used by tests).
	LookPath func(string) (string, error)
}

type edgeEngine struct {
	binary       string
	defaultVoice string
	workDir      string
	runner       *ffmpeg.Runner
}

// NewEdge constructs the edge engine, failing when the CLI is not installed.
func NewEdge(s EdgeSettings) (Engine, error) {
	binary := s.Binary
	if binary == "" {
		binary = EdgeBinary
	}
	voice := s.DefaultVoice
	if voice == "" {
		voice = EdgeDefaultVoice
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
		return nil, services.Wrap(services.ErrProviderUnavailable, EdgeName, "init",
			binary+" not installed", err)
	}
	runner := s.Runner
	if runner == nil {
		runner = ffmpeg.NewRunner(binary)
	}
	return &edgeEngine{
		binary:       binary,
		defaultVoice: voice,
		workDir:      workDir,
		runner:       runner,
	}, nil
}

func (e *edgeEngine) Name() string { return EdgeName }

func (e *edgeEngine) DefaultVoice() string { return e.defaultVoice }

func (e *edgeEngine) FileExtension() string { return "mp3" }

func (e *edgeEngine) Synthesize(ctx context.Context, text string, params Params) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, EdgeName, "synthesize", "empty text", nil)
	}
	params = params.Normalized()
	voice := params.Voice
	if voice == "" {
		voice = e.defaultVoice
	}

	output := filepath.Join(e.workDir, fmt.Sprintf("edge_%s.mp3", uuid.NewString()[:8]))
	defer os.Remove(output)

	args := []string{
		"--text", text,
		"--voice", voice,
		"--rate", edgeRate(params.Speed),
		"--pitch", edgePitch(params.Pitch),
		"--volume", edgeVolume(params.Volume),
		"--write-media", output,
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

// ListVoices parses the CLI's voice table, returning the voice short names.
func (e *edgeEngine) ListVoices(ctx context.Context) ([]string, error) {
	stdout, err := e.runner.Run(ctx, ffmpeg.Invocation{
		Args:      []string{"--list-voices"},
		Operation: "list-voices",
	})
	if err != nil {
		return nil, err
	}
	var voices []string
	for _, line := range strings.Split(string(stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		// Skip the header and its underline.
		if name == "Name" || strings.HasPrefix(name, "-") {
			continue
		}
		voices = append(voices, name)
	}
	return voices, nil
}

// Native unit conversions. The CLI takes signed percent offsets for rate and
// volume and a signed Hz offset for pitch.

func edgeRate(speed float64) string {
	pct := int(math.Round((speed - 1.0) * 100))
	pct = clampInt(pct, -50, 100)
	return fmt.Sprintf("%+d%%", pct)
}

func edgePitch(pitch float64) string {
	hz := int(math.Round((pitch - 1.0) * 50))
	hz = clampInt(hz, -50, 50)
	return fmt.Sprintf("%+dHz", hz)
}

func edgeVolume(volume float64) string {
	pct := int(math.Round((volume - 1.0) * 100))
	pct = clampInt(pct, -100, 0)
	return fmt.Sprintf("%+d%%", pct)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
