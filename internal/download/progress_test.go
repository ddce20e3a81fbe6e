package download

import "testing"

func TestParseProgressLine(t *testing.T) {
	progress, ok := parseProgressLine("dl:512:1024")
	if !ok {
		t.Fatal("expected a progress tick")
	}
	if progress.Percent != 50 || progress.Downloaded != 512 || progress.Total != 1024 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestParseProgressLineUnknownTotal(t *testing.T) {
	progress, ok := parseProgressLine("dl:512:NA")
	if !ok {
		t.Fatal("expected a progress tick")
	}
	if progress.Percent != 0 {
		t.Fatalf("unknown total must normalize to 0, got %g", progress.Percent)
	}
}

func TestParseProgressLineIgnoresOtherOutput(t *testing.T) {
	for _, line := range []string{
		"[download] Destination: video.mp4",
		"dl:not-a-number:1024",
		"",
	} {
		if _, ok := parseProgressLine(line); ok {
			t.Fatalf("line %q should not parse as progress", line)
		}
	}
}

func TestDestinationFromLine(t *testing.T) {
	dest, ok := destinationFromLine("[download] Destination: /tmp/clip.mp4")
	if !ok || dest != "/tmp/clip.mp4" {
		t.Fatalf("unexpected destination %q %v", dest, ok)
	}
	dest, ok = destinationFromLine(`[Merger] Merging formats into "/tmp/clip.mkv"`)
	if !ok || dest != "/tmp/clip.mkv" {
		t.Fatalf("unexpected merger destination %q %v", dest, ok)
	}
	if _, ok := destinationFromLine("dl:1:2"); ok {
		t.Fatal("progress line should not yield a destination")
	}
}

func TestResolutionFormatSelectors(t *testing.T) {
	cases := []struct {
		res  Resolution
		want string
	}{
		{Res480p, "bestvideo[height<=480]+bestaudio/best[height<=480]/best"},
		{Res720p, "bestvideo[height<=720]+bestaudio/best[height<=720]/best"},
		{Res1080p, "bestvideo[height<=1080]+bestaudio/best[height<=1080]/best"},
		{ResBest, "bestvideo+bestaudio/best"},
	}
	for _, tc := range cases {
		if got := tc.res.FormatSelector(); got != tc.want {
			t.Fatalf("%s selector %q, want %q", tc.res, got, tc.want)
		}
	}
}

func TestParseResolution(t *testing.T) {
	if res, err := ParseResolution(""); err != nil || res != ResBest {
		t.Fatalf("empty should default to best, got %q %v", res, err)
	}
	if res, err := ParseResolution("720p"); err != nil || res != Res720p {
		t.Fatalf("unexpected result %q %v", res, err)
	}
	if _, err := ParseResolution("4k"); err == nil {
		t.Fatal("expected error for unknown resolution")
	}
}
