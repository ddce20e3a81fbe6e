package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediaforge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "audio", "extract", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "extract", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToProviderError(t *testing.T) {
	err := services.Wrap(nil, "translate", "chain", "no providers", nil)
	if !errors.Is(err, services.ErrProviderError) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "translate", "request", "empty text", nil)
	if services.Retryable(validationErr) {
		t.Fatal("validation errors must not be retryable")
	}
	providerErr := services.Wrap(services.ErrProviderError, "translate", "deepl", "status 500", nil)
	if !services.Retryable(providerErr) {
		t.Fatal("provider errors should be retryable")
	}
	if services.Retryable(nil) {
		t.Fatal("nil error is not retryable")
	}
}
