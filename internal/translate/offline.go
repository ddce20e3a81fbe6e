package translate

import (
	"context"
	"os/exec"
	"strings"

	langpkg "mediaforge/internal/language"
	"mediaforge/internal/media/ffmpeg"
	"mediaforge/internal/services"
)

// OfflineBinary is the default local translation CLI. It needs no network or
// credential, which makes it the terminal fallback of the chain.
const OfflineBinary = "argos-translate"

// ProviderOffline is the provider name used in logs and results.
const ProviderOffline = "offline"

// OfflineSettings configures the offline provider.
type OfflineSettings struct {
	// Binary overrides the CLI name.
	Binary string
	// Runner substitutes the subprocess runner (used by tests).
	Runner *ffmpeg.Runner
	// LookPath substitutes binary resolution (used by tests).
	LookPath func(string) (string, error)
}

type offlineProvider struct {
	binary   string
	runner   *ffmpeg.Runner
	lookPath func(string) (string, error)
}

// NewOffline builds the offline provider backed by a local translation CLI.
func NewOffline(s OfflineSettings) Provider {
	binary := s.Binary
	if binary == "" {
		binary = OfflineBinary
	}
	runner := s.Runner
	if runner == nil {
		runner = ffmpeg.NewRunner(binary)
	}
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &offlineProvider{binary: binary, runner: runner, lookPath: lookPath}
}

func (p *offlineProvider) Name() string { return ProviderOffline }

// Available reports whether the CLI is installed. Resolution runs per call so
// an install made after process start is picked up.
func (p *offlineProvider) Available() bool {
	_, err := p.lookPath(p.binary)
	return err == nil
}

func (p *offlineProvider) Translate(ctx context.Context, req Request) (string, error) {
	target := langpkg.ToISO2(req.TargetLanguage)
	if target == "" {
		return "", services.Wrap(services.ErrValidation, ProviderOffline, "translate",
			"unsupported target language "+req.TargetLanguage, nil)
	}
	args := []string{"--to-lang", target}
	if source := langpkg.ToISO2(req.SourceLanguage); source != "" {
		args = append(args, "--from-lang", source)
	}
	args = append(args, req.Text)

	stdout, err := p.runner.Run(ctx, ffmpeg.Invocation{
		Args:      args,
		Operation: "translate",
	})
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(string(stdout))
	if out == "" {
		return "", services.Wrap(services.ErrProviderError, ProviderOffline, "translate", "empty output", nil)
	}
	return out, nil
}
