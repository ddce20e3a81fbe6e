package language_test

import (
	"testing"

	"mediaforge/internal/language"
)

func TestToISO2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ja", "ja"},
		{"jpn", "ja"},
		{"Japanese", "ja"},
		{"FRE", "fr"},
		{"xx", "xx"},
		{"unknownlang", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := language.ToISO2(tc.in); got != tc.want {
			t.Fatalf("ToISO2(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToISO3(t *testing.T) {
	if got := language.ToISO3("zh"); got != "zho" {
		t.Fatalf("expected zho, got %q", got)
	}
	if got := language.ToISO3(""); got != "und" {
		t.Fatalf("expected und, got %q", got)
	}
	if got := language.ToISO3("qqq"); got != "qqq" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := language.DisplayName("ko"); got != "Korean" {
		t.Fatalf("expected Korean, got %q", got)
	}
	if got := language.DisplayName(""); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
	if got := language.DisplayName("xq"); got != "XQ" {
		t.Fatalf("expected XQ, got %q", got)
	}
	if got := language.DisplayName("klingon"); got != "Klingon" {
		t.Fatalf("expected Klingon, got %q", got)
	}
}

func TestDeepLCode(t *testing.T) {
	if got := language.DeepLCode("japanese"); got != "JA" {
		t.Fatalf("expected JA, got %q", got)
	}
	if got := language.DeepLCode("en"); got != "EN" {
		t.Fatalf("expected EN, got %q", got)
	}
}

func TestNormalizeList(t *testing.T) {
	got := language.NormalizeList([]string{"eng", "EN", " ja ", "", "jpn"})
	want := []string{"en", "ja"}
	if len(got) != len(want) {
		t.Fatalf("unexpected result %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected result %v", got)
		}
	}
}
