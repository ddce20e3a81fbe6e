package tts_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediaforge/internal/services"
	"mediaforge/internal/tts"

	"context"
)

// voicevoxServer fakes the companion API: /version, /audio_query,
// /synthesis, /speakers.
func voicevoxServer(t *testing.T, onQuery func(q map[string]any)) (*httptest.Server, *int) {
	t.Helper()
	synthCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/version":
			fmt.Fprint(w, `"0.20.0"`)
		case r.URL.Path == "/audio_query":
			if r.Method != http.MethodPost {
				t.Fatalf("audio_query method %s", r.Method)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"accentPhrases":      []any{},
				"speedScale":         1.0,
				"pitchScale":         0.0,
				"volumeScale":        1.0,
				"intonationScale":    1.0,
				"outputSamplingRate": 24000,
			})
		case r.URL.Path == "/synthesis":
			synthCalls++
			body, _ := io.ReadAll(r.Body)
			var query map[string]any
			_ = json.Unmarshal(body, &query)
			if onQuery != nil {
				onQuery(query)
			}
			_, _ = w.Write(makeWAV([]byte{byte(synthCalls), byte(synthCalls)}))
		case r.URL.Path == "/speakers":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"name": "四国めたん", "styles": []map[string]any{
					{"id": 2, "name": "ノーマル"}, {"id": 36, "name": "ささやき"},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	return server, &synthCalls
}

func TestVoicevoxConstructionProbesVersion(t *testing.T) {
	server, _ := voicevoxServer(t, nil)
	defer server.Close()

	engine, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.Name() != "voicevox" || engine.FileExtension() != "wav" {
		t.Fatalf("unexpected engine identity %q %q", engine.Name(), engine.FileExtension())
	}
}

func TestVoicevoxConstructionFailsWhenUnreachable(t *testing.T) {
	server, _ := voicevoxServer(t, nil)
	url := server.URL
	server.Close()

	_, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: url})
	if !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestVoicevoxAppliesParameterScales(t *testing.T) {
	var captured map[string]any
	server, _ := voicevoxServer(t, func(q map[string]any) { captured = q })
	defer server.Close()

	engine, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = engine.Synthesize(context.Background(), "こんにちは",
		tts.Params{Speed: 1.5, Pitch: 2.0, Volume: 0.8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured["speedScale"] != 1.5 {
		t.Fatalf("unexpected speedScale %v", captured["speedScale"])
	}
	// pitch 2.0 converts to (2.0-1.0)*0.15 capped at +0.15
	if captured["pitchScale"] != 0.15 {
		t.Fatalf("unexpected pitchScale %v", captured["pitchScale"])
	}
	if captured["volumeScale"] != 0.8 {
		t.Fatalf("unexpected volumeScale %v", captured["volumeScale"])
	}
}

func TestVoicevoxLongTextSplitsAndConcatenates(t *testing.T) {
	server, synthCalls := voicevoxServer(t, nil)
	defer server.Close()

	engine, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	sentence := strings.Repeat("あ", 300) + "。"
	audio, err := engine.Synthesize(context.Background(), sentence+sentence+sentence,
		tts.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *synthCalls < 2 {
		t.Fatalf("expected chunked synthesis, got %d calls", *synthCalls)
	}
	// Frames from call 1 must precede frames from call 2.
	frames := audio[44:]
	if frames[0] != 1 || frames[len(frames)-1] != byte(*synthCalls) {
		t.Fatalf("chunk order not preserved: %v", frames)
	}
}

func TestVoicevoxRejectsEmptyText(t *testing.T) {
	server, _ := voicevoxServer(t, nil)
	defer server.Close()

	engine, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Synthesize(context.Background(), "  ", tts.DefaultParams()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVoicevoxListVoices(t *testing.T) {
	server, _ := voicevoxServer(t, nil)
	defer server.Close()

	engine, err := tts.NewVoicevox(tts.VoicevoxSettings{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	voices, err := engine.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voices) != 2 || !strings.HasPrefix(voices[0], "2 ") {
		t.Fatalf("unexpected voices %v", voices)
	}
}
