package download

import "fmt"

// Resolution names a target video quality tier.
type Resolution string

const (
	Res480p  Resolution = "480p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
	ResBest  Resolution = "best"
)

// ParseResolution validates a user-supplied resolution string, defaulting to
// best quality when empty.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Res480p, Res720p, Res1080p, ResBest:
		return Resolution(s), nil
	case "":
		return ResBest, nil
	}
	return "", fmt.Errorf("unknown resolution %q", s)
}

// FormatSelector maps the tier to a downloader format expression. Height-
// capped tiers degrade to best available when no matching format exists.
func (r Resolution) FormatSelector() string {
	height := 0
	switch r {
	case Res480p:
		height = 480
	case Res720p:
		height = 720
	case Res1080p:
		height = 1080
	default:
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", height, height)
}
