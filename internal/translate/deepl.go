package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	langpkg "mediaforge/internal/language"
	"mediaforge/internal/services"
)

// DeepLBaseURL is the free-tier endpoint; the paid tier uses api.deepl.com
// and can be set through DeepLSettings.BaseURL.
const DeepLBaseURL = "https://api-free.deepl.com/v2/translate"

// ProviderDeepL is the provider name used in logs and results.
const ProviderDeepL = "deepl"

// DeepLSettings configures the DeepL provider.
type DeepLSettings struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type deepLProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepL builds the DeepL provider, a purpose-built MT service rather than
// an LLM. It speaks form-encoded REST.
func NewDeepL(s DeepLSettings) Provider {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DeepLBaseURL
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &deepLProvider{
		apiKey:     strings.TrimSpace(s.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (p *deepLProvider) Name() string { return ProviderDeepL }

func (p *deepLProvider) Available() bool { return p.apiKey != "" }

type deepLResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (p *deepLProvider) Translate(ctx context.Context, req Request) (string, error) {
	form := url.Values{}
	form.Set("auth_key", p.apiKey)
	form.Set("text", req.Text)
	form.Set("target_lang", langpkg.DeepLCode(req.TargetLanguage))
	if req.SourceLanguage != "" {
		form.Set("source_lang", langpkg.DeepLCode(req.SourceLanguage))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "request", p.baseURL, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "request", p.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "read", p.baseURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "request",
			fmt.Sprintf("status %d: %s", resp.StatusCode, bodySnippet(body)), nil)
	}

	var decoded deepLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "decode", bodySnippet(body), err)
	}
	if len(decoded.Translations) == 0 {
		return "", services.Wrap(services.ErrProviderError, ProviderDeepL, "response", "empty translations", nil)
	}
	return strings.TrimSpace(decoded.Translations[0].Text), nil
}
