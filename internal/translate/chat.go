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

// Generation parameters shared by the LLM-backed providers. Translation wants
// low-temperature, deterministic output.
const (
	chatTemperature = 0.3
	chatMaxTokens   = 4096
)

// chatConfig holds settings for one OpenAI-compatible chat-completions
// endpoint.
type chatConfig struct {
	apiKey  string
	baseURL string
	model   string
	// referer and title are OpenRouter attribution headers; ignored by
	// other endpoints.
	referer string
	title   string
	timeout time.Duration
}

// chatClient speaks the chat-completions protocol shared by Groq, OpenRouter,
// and OpenAI.
type chatClient struct {
	cfg        chatConfig
	httpClient *http.Client
}

func newChatClient(cfg chatConfig, httpClient *http.Client) *chatClient {
	if cfg.timeout <= 0 {
		cfg.timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}
	return &chatClient{cfg: cfg, httpClient: httpClient}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one user prompt and returns the first choice's content.
func (c *chatClient) complete(ctx context.Context, component, userPrompt string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       c.cfg.model,
		Messages:    []chatMessage{{Role: "user", Content: userPrompt}},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, component, "encode", "marshal request", err)
	}

	url := strings.TrimSuffix(c.cfg.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, component, "request", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.apiKey)
	if c.cfg.referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.referer)
	}
	if c.cfg.title != "" {
		req.Header.Set("X-Title", c.cfg.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, component, "request", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrProviderError, component, "read", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrProviderError, component, "request",
			fmt.Sprintf("status %d: %s", resp.StatusCode, bodySnippet(body)), nil)
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrProviderError, component, "decode", bodySnippet(body), err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", services.Wrap(services.ErrProviderError, component, "response", decoded.Error.Message, nil)
	}
	if len(decoded.Choices) == 0 {
		return "", services.Wrap(services.ErrProviderError, component, "response", "no choices returned", nil)
	}
	return decoded.Choices[0].Message.Content, nil
}

// bodySnippet trims a response body for error messages.
func bodySnippet(body []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		text = text[:limit] + "..."
	}
	return text
}
