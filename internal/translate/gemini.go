package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediaforge/internal/services"
)

// GeminiBaseURL is the generative-language endpoint prefix; the model and
// API key are appended per request.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiModel is the default generation model.
const GeminiModel = "gemini-pro"

// ProviderGemini is the provider name used in logs and results.
const ProviderGemini = "gemini"

// GeminiSettings configures the Gemini provider.
type GeminiSettings struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type geminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGemini builds the Gemini provider. Unlike the chat-completions
// providers it uses Google's generateContent protocol with the key as a
// query parameter.
func NewGemini(s GeminiSettings) Provider {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	model := s.Model
	if model == "" {
		model = GeminiModel
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &geminiProvider{
		apiKey:     strings.TrimSpace(s.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) Available() bool { return p.apiKey != "" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *geminiProvider) Translate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt(req)}}}},
	})
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "encode", "marshal request", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimSuffix(p.baseURL, "/"), p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "request", p.baseURL, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "request", p.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "read", p.baseURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "request",
			fmt.Sprintf("status %d: %s", resp.StatusCode, bodySnippet(body)), nil)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "decode", bodySnippet(body), err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", services.Wrap(services.ErrProviderError, ProviderGemini, "response", "no candidates returned", nil)
	}
	return cleanOutput(decoded.Candidates[0].Content.Parts[0].Text), nil
}
