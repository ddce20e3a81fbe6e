package translate

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Default endpoints and models for the chat-completions providers.
const (
	GroqBaseURL  = "https://api.groq.com/openai/v1"
	GroqModel    = "llama-3.3-70b-versatile"
	ProviderGroq = "groq"

	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	OpenRouterModel    = "openai/gpt-oss-120b"
	ProviderOpenRouter = "openrouter"

	OpenAIBaseURL  = "https://api.openai.com/v1"
	OpenAIModel    = "gpt-3.5-turbo"
	ProviderOpenAI = "openai"
)

// ChatSettings configures one chat-completions provider. Zero fields fall
// back to the provider's defaults; BaseURL overrides exist for tests and
// self-hosted gateways.
type ChatSettings struct {
	APIKey     string
	BaseURL    string
	Model      string
	Referer    string
	Title      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// chatProvider adapts a chatClient to the Provider interface.
type chatProvider struct {
	name   string
	apiKey string
	client *chatClient
}

func newChatProvider(name, defaultBaseURL, defaultModel string, s ChatSettings) *chatProvider {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := s.Model
	if model == "" {
		model = defaultModel
	}
	return &chatProvider{
		name:   name,
		apiKey: strings.TrimSpace(s.APIKey),
		client: newChatClient(chatConfig{
			apiKey:  strings.TrimSpace(s.APIKey),
			baseURL: baseURL,
			model:   model,
			referer: s.Referer,
			title:   s.Title,
			timeout: s.Timeout,
		}, s.HTTPClient),
	}
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) Available() bool { return p.apiKey != "" }

func (p *chatProvider) Translate(ctx context.Context, req Request) (string, error) {
	out, err := p.client.complete(ctx, p.name, prompt(req))
	if err != nil {
		return "", err
	}
	return cleanOutput(out), nil
}

// NewGroq builds the Groq provider, the fastest hosted option and first in
// the default chain.
func NewGroq(s ChatSettings) Provider {
	return newChatProvider(ProviderGroq, GroqBaseURL, GroqModel, s)
}

// NewOpenRouter builds the OpenRouter provider. Referer and Title become the
// attribution headers OpenRouter asks clients to send.
func NewOpenRouter(s ChatSettings) Provider {
	return newChatProvider(ProviderOpenRouter, OpenRouterBaseURL, OpenRouterModel, s)
}

// NewOpenAI builds the OpenAI provider.
func NewOpenAI(s ChatSettings) Provider {
	return newChatProvider(ProviderOpenAI, OpenAIBaseURL, OpenAIModel, s)
}
