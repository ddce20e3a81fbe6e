package translate

import (
	"context"
	"fmt"
	"strings"

	langpkg "mediaforge/internal/language"
)

// Request carries one translation unit through a provider.
type Request struct {
	// Text is the source text; must be non-blank.
	Text string
	// SourceLanguage is an optional ISO 639 hint. Providers that cannot use
	// it auto-detect.
	SourceLanguage string
	// TargetLanguage is the required ISO 639 target.
	TargetLanguage string
}

// Provider is a single translation backend.
type Provider interface {
	// Name identifies the provider in logs and results.
	Name() string
	// Available reports whether the provider can be attempted at all
	// (credential configured, companion binary installed). Unavailable
	// providers are skipped silently by the chain.
	Available() bool
	// Translate performs the translation or fails with a classified error.
	Translate(ctx context.Context, req Request) (string, error)
}

// prompt builds the instruction sent to LLM-backed providers. The model is
// told to emit only the translation so no post-parsing is needed.
func prompt(req Request) string {
	target := langpkg.DisplayName(req.TargetLanguage)
	return fmt.Sprintf("Translate the following text to %s. Only output the translation, nothing else:\n\n%s",
		target, req.Text)
}

// cleanOutput strips whitespace and stray wrapping quotes from model output.
func cleanOutput(text string) string {
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}
