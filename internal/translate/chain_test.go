package translate_test

import (
	"context"
	"errors"
	"testing"

	"mediaforge/internal/services"
	"mediaforge/internal/translate"
)

type stubProvider struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (s *stubProvider) Name() string    { return s.name }
func (s *stubProvider) Available() bool { return s.available }

func (s *stubProvider) Translate(_ context.Context, _ translate.Request) (string, error) {
	s.calls++
	return s.text, s.err
}

func req() translate.Request {
	return translate.Request{Text: "hello", TargetLanguage: "ja"}
}

func TestChainFirstSuccessWins(t *testing.T) {
	first := &stubProvider{name: "first", available: true, text: "konnichiwa"}
	second := &stubProvider{name: "second", available: true, text: "unused"}
	chain := translate.NewChain([]translate.Provider{first, second}, nil)

	record, err := chain.Translate(context.Background(), req())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Text != "konnichiwa" || record.Provider != "first" {
		t.Fatalf("unexpected record %+v", record)
	}
	if second.calls != 0 {
		t.Fatal("second provider must not be attempted after success")
	}
}

func TestChainSkipsUnavailableWithoutCountingFailure(t *testing.T) {
	skipped := &stubProvider{name: "skipped", available: false}
	winner := &stubProvider{name: "winner", available: true, text: "ok"}
	chain := translate.NewChain([]translate.Provider{skipped, winner}, nil)

	record, err := chain.Translate(context.Background(), req())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped.calls != 0 {
		t.Fatal("unavailable provider must not be called")
	}
	if len(record.Attempts) != 1 {
		t.Fatalf("skips must not appear as attempts, got %v", record.Attempts)
	}
}

func TestChainFallsThroughFailures(t *testing.T) {
	failing := &stubProvider{name: "failing", available: true,
		err: services.Wrap(services.ErrProviderError, "failing", "request", "status 500", nil)}
	winner := &stubProvider{name: "winner", available: true, text: "ok"}
	chain := translate.NewChain([]translate.Provider{failing, winner}, nil)

	record, err := chain.Translate(context.Background(), req())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Provider != "winner" {
		t.Fatalf("expected winner, got %q", record.Provider)
	}
	if len(record.Attempts) != 2 || record.Attempts[0].Err == nil {
		t.Fatalf("expected failure recorded in attempts, got %+v", record.Attempts)
	}
}

func TestChainExhaustionCarriesLastError(t *testing.T) {
	lastErr := errors.New("quota exceeded")
	a := &stubProvider{name: "a", available: true, err: errors.New("early failure")}
	b := &stubProvider{name: "b", available: true, err: lastErr}
	chain := translate.NewChain([]translate.Provider{a, b}, nil)

	_, err := chain.Translate(context.Background(), req())
	if !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected last provider error to be wrapped, got %v", err)
	}
}

func TestChainEmptyTextRejectedBeforeProviders(t *testing.T) {
	p := &stubProvider{name: "p", available: true, text: "never"}
	chain := translate.NewChain([]translate.Provider{p}, nil)

	_, err := chain.Translate(context.Background(),
		translate.Request{Text: "   \n", TargetLanguage: "ja"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if p.calls != 0 {
		t.Fatal("providers must not be called for blank text")
	}
}

func TestChainRequiresTargetLanguage(t *testing.T) {
	chain := translate.NewChain(nil, nil)
	_, err := chain.Translate(context.Background(), translate.Request{Text: "hi"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChainAllUnavailable(t *testing.T) {
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b"}
	chain := translate.NewChain([]translate.Provider{a, b}, nil)

	_, err := chain.Translate(context.Background(), req())
	if !errors.Is(err, services.ErrProviderUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestChainRecordEchoesRequestedTarget(t *testing.T) {
	p := &stubProvider{name: "p", available: true, text: "bonjour"}
	chain := translate.NewChain([]translate.Provider{p}, nil)

	record, err := chain.Translate(context.Background(),
		translate.Request{Text: "hello", SourceLanguage: "en", TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.TargetLanguage != "fr" || record.SourceLanguage != "en" {
		t.Fatalf("unexpected languages %+v", record)
	}
}
