package translate

import "log/slog"

// Settings aggregates per-provider configuration for the default chain.
type Settings struct {
	Groq       ChatSettings
	Gemini     GeminiSettings
	DeepL      DeepLSettings
	OpenRouter ChatSettings
	OpenAI     ChatSettings
	Offline    OfflineSettings
}

// NewDefaultChain wires the standard fallback order: fast hosted providers
// first, the credential-free offline CLI last.
func NewDefaultChain(s Settings, logger *slog.Logger) *Chain {
	return NewChain([]Provider{
		NewGroq(s.Groq),
		NewGemini(s.Gemini),
		NewDeepL(s.DeepL),
		NewOpenRouter(s.OpenRouter),
		NewOpenAI(s.OpenAI),
		NewOffline(s.Offline),
	}, logger)
}
