package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mediaforge/internal/services"
)

// VOICEVOX defaults. The engine is a local companion process speaking HTTP.
const (
	VoicevoxName           = "voicevox"
	VoicevoxBaseURL        = "http://localhost:50021"
	VoicevoxDefaultSpeaker = "1"

	voicevoxProbeTimeout = 10 * time.Second
	voicevoxSynthTimeout = 5 * time.Minute

	// voicevoxPitchRange bounds the native pitchScale offset.
	voicevoxPitchRange = 0.15
)

// VoicevoxSettings configures the VOICEVOX engine.
type VoicevoxSettings struct {
	BaseURL        string
	DefaultSpeaker string
	// ProbeTTL caches a successful connectivity probe for this duration so
	// batch synthesis does not re-probe per chunk. Zero uses 30 seconds;
	// negative disables caching.
	ProbeTTL   time.Duration
	HTTPClient *http.Client
}

type voicevoxEngine struct {
	baseURL        string
	defaultSpeaker string
	httpClient     *http.Client

	probeTTL time.Duration
	probeMu  sync.Mutex
	probedAt time.Time

	voicesMu sync.Mutex
	voices   []string
}

// NewVoicevox constructs the engine and verifies the companion process is
// reachable. Construction fails when the probe fails, which keeps the engine
// out of the registry cache until the companion is up.
func NewVoicevox(s VoicevoxSettings) (Engine, error) {
	baseURL := strings.TrimSuffix(s.BaseURL, "/")
	if baseURL == "" {
		baseURL = VoicevoxBaseURL
	}
	speaker := s.DefaultSpeaker
	if speaker == "" {
		speaker = VoicevoxDefaultSpeaker
	}
	ttl := s.ProbeTTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}
	httpClient := s.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: voicevoxSynthTimeout}
	}
	engine := &voicevoxEngine{
		baseURL:        baseURL,
		defaultSpeaker: speaker,
		httpClient:     httpClient,
		probeTTL:       ttl,
	}
	if err := engine.probe(context.Background()); err != nil {
		return nil, err
	}
	return engine, nil
}

func (e *voicevoxEngine) Name() string { return VoicevoxName }

func (e *voicevoxEngine) DefaultVoice() string { return e.defaultSpeaker }

func (e *voicevoxEngine) FileExtension() string { return "wav" }

// probe checks GET /version, caching success for probeTTL. Failures are
// never cached.
func (e *voicevoxEngine) probe(ctx context.Context) error {
	e.probeMu.Lock()
	defer e.probeMu.Unlock()
	if e.probeTTL > 0 && !e.probedAt.IsZero() && time.Since(e.probedAt) < e.probeTTL {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, voicevoxProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.baseURL+"/version", nil)
	if err != nil {
		return services.Wrap(services.ErrProviderUnavailable, VoicevoxName, "probe", e.baseURL, err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrProviderUnavailable, VoicevoxName, "probe",
			"companion not reachable at "+e.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrProviderUnavailable, VoicevoxName, "probe",
			fmt.Sprintf("version endpoint returned %d", resp.StatusCode), nil)
	}
	e.probedAt = time.Now()
	return nil
}

// Synthesize renders text, transparently splitting long input on sentence
// boundaries and concatenating the per-chunk WAV output in order.
func (e *voicevoxEngine) Synthesize(ctx context.Context, text string, params Params) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, VoicevoxName, "synthesize", "empty text", nil)
	}
	if err := e.probe(ctx); err != nil {
		return nil, err
	}
	params = params.Normalized()
	speaker := params.Voice
	if speaker == "" {
		speaker = e.defaultSpeaker
	}

	chunks := SplitText(text, DefaultChunkLimit)
	outputs := make([][]byte, 0, len(chunks))
	for _, chunk := range chunks {
		wav, err := e.synthesizeChunk(ctx, chunk, speaker, params)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, wav)
	}
	if len(outputs) == 1 {
		return outputs[0], nil
	}
	combined, err := ConcatWAV(outputs)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "concat", "combine chunks", err)
	}
	return combined, nil
}

func (e *voicevoxEngine) synthesizeChunk(ctx context.Context, text, speaker string, params Params) ([]byte, error) {
	query, err := e.audioQuery(ctx, text, speaker)
	if err != nil {
		return nil, err
	}

	// Native unit conversion happens here: speedScale and volumeScale take
	// the universal values directly, pitchScale is an offset around zero.
	query["speedScale"] = params.Speed
	query["pitchScale"] = clamp((params.Pitch-1.0)*voicevoxPitchRange, -voicevoxPitchRange, voicevoxPitchRange)
	query["volumeScale"] = params.Volume
	if _, ok := query["intonationScale"]; !ok {
		query["intonationScale"] = 1.0
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "synthesize", "marshal query", err)
	}

	endpoint := fmt.Sprintf("%s/synthesis?speaker=%s", e.baseURL, url.QueryEscape(speaker))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "synthesize", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "synthesize", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "synthesize",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return io.ReadAll(resp.Body)
}

// audioQuery fetches the mutable synthesis query for one chunk. The payload
// is kept as a generic map so fields this client does not model survive the
// round trip.
func (e *voicevoxEngine) audioQuery(ctx context.Context, text, speaker string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/audio_query?text=%s&speaker=%s",
		e.baseURL, url.QueryEscape(text), url.QueryEscape(speaker))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "audio-query", endpoint, err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "audio-query", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "audio-query",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	var query map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&query); err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "audio-query", "decode response", err)
	}
	return query, nil
}

// ListVoices returns "<style id> <speaker> (<style>)" entries from the
// companion's speaker catalogue, cached after the first successful fetch.
func (e *voicevoxEngine) ListVoices(ctx context.Context) ([]string, error) {
	e.voicesMu.Lock()
	defer e.voicesMu.Unlock()
	if e.voices != nil {
		return e.voices, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/speakers", nil)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "speakers", e.baseURL, err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "speakers", e.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "speakers",
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var speakers []struct {
		Name   string `json:"name"`
		Styles []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"styles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&speakers); err != nil {
		return nil, services.Wrap(services.ErrProviderError, VoicevoxName, "speakers", "decode response", err)
	}

	var voices []string
	for _, speaker := range speakers {
		for _, style := range speaker.Styles {
			voices = append(voices, fmt.Sprintf("%d %s (%s)", style.ID, speaker.Name, style.Name))
		}
	}
	e.voices = voices
	return voices, nil
}
