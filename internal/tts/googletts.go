package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	langpkg "mediaforge/internal/language"
	"mediaforge/internal/services"
)

// Google Cloud Text-to-Speech defaults.
const (
	GoogleName         = "googletts"
	GoogleBaseURL      = "https://texttospeech.googleapis.com/v1"
	GoogleDefaultVoice = "ja-JP-Standard-A"
)

// GoogleSettings configures the Google engine.
type GoogleSettings struct {
	APIKey       string
	BaseURL      string
	DefaultVoice string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

type googleEngine struct {
	apiKey       string
	baseURL      string
	defaultVoice string
	httpClient   *http.Client
}

// NewGoogle constructs the Google engine; it fails without an API key.
func NewGoogle(s GoogleSettings) (Engine, error) {
	apiKey := strings.TrimSpace(s.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrProviderUnavailable, GoogleName, "init",
			"api key not configured", nil)
	}
	baseURL := strings.TrimSuffix(s.BaseURL, "/")
	if baseURL == "" {
		baseURL = GoogleBaseURL
	}
	voice := s.DefaultVoice
	if voice == "" {
		voice = GoogleDefaultVoice
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &googleEngine{
		apiKey:       apiKey,
		baseURL:      baseURL,
		defaultVoice: voice,
		httpClient:   httpClient,
	}, nil
}

func (e *googleEngine) Name() string { return GoogleName }

func (e *googleEngine) DefaultVoice() string { return e.defaultVoice }

func (e *googleEngine) FileExtension() string { return "mp3" }

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
		VolumeGainDB  float64 `json:"volumeGainDb"`
	} `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (e *googleEngine) Synthesize(ctx context.Context, text string, params Params) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, GoogleName, "synthesize", "empty text", nil)
	}
	params = params.Normalized()
	voice := params.Voice
	if voice == "" {
		voice = e.defaultVoice
	}

	var reqBody googleSynthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.Name = voice
	reqBody.Voice.LanguageCode = voiceLanguageCode(voice)
	reqBody.AudioConfig.AudioEncoding = "MP3"
	// Native conversions: speakingRate is a multiplier, pitch is semitones
	// around zero, volume is a dB gain.
	reqBody.AudioConfig.SpeakingRate = params.Speed
	reqBody.AudioConfig.Pitch = clamp((params.Pitch-1.0)*10, -20, 20)
	reqBody.AudioConfig.VolumeGainDB = clamp((params.Volume-1.0)*16, -96, 0)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "synthesize", "marshal request", err)
	}

	endpoint := fmt.Sprintf("%s/text:synthesize?key=%s", e.baseURL, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "synthesize", e.baseURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "synthesize", e.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "read", e.baseURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "synthesize",
			fmt.Sprintf("status %d: %s", resp.StatusCode, snippet), nil)
	}

	var decoded googleSynthesizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "decode", "invalid response", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, GoogleName, "decode", "invalid audio content", err)
	}
	return audio, nil
}

// ListVoices returns a static set of common voice names. The full catalogue
// endpoint needs broader API scopes than synthesis, so it is not queried.
func (e *googleEngine) ListVoices(_ context.Context) ([]string, error) {
	return []string{
		"ja-JP-Standard-A", "ja-JP-Standard-B", "ja-JP-Wavenet-A",
		"en-US-Standard-C", "en-US-Wavenet-D",
		"de-DE-Standard-A", "fr-FR-Standard-A", "ko-KR-Standard-A",
	}, nil
}

// voiceLanguageCode derives "ja-JP" from voice names like "ja-JP-Standard-A".
func voiceLanguageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 && langpkg.ToISO2(parts[0]) != "" {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}
