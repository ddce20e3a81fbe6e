package tts

import "context"

// Universal parameter ranges. Engines clamp to these before converting to
// native units at their own boundary.
const (
	MinSpeed  = 0.5
	MaxSpeed  = 2.0
	MinPitch  = 0.5
	MaxPitch  = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

// Params are the engine-independent synthesis controls. Speed and pitch are
// multipliers around 1.0; volume is a 0..1 level.
type Params struct {
	Voice  string
	Speed  float64
	Pitch  float64
	Volume float64
}

// DefaultParams returns neutral synthesis settings.
func DefaultParams() Params {
	return Params{Speed: 1.0, Pitch: 1.0, Volume: 1.0}
}

// Normalized returns a copy with zero values defaulted and every field
// clamped into the universal range.
func (p Params) Normalized() Params {
	out := p
	if out.Speed == 0 {
		out.Speed = 1.0
	}
	if out.Pitch == 0 {
		out.Pitch = 1.0
	}
	if out.Volume == 0 {
		out.Volume = 1.0
	}
	out.Speed = clamp(out.Speed, MinSpeed, MaxSpeed)
	out.Pitch = clamp(out.Pitch, MinPitch, MaxPitch)
	out.Volume = clamp(out.Volume, MinVolume, MaxVolume)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Engine is one speech-synthesis backend.
type Engine interface {
	// Name identifies the engine in the registry and logs.
	Name() string
	// Synthesize renders text to audio bytes.
	Synthesize(ctx context.Context, text string, params Params) ([]byte, error)
	// ListVoices enumerates voice identifiers the engine accepts.
	ListVoices(ctx context.Context) ([]string, error)
	// DefaultVoice is used when Params.Voice is empty.
	DefaultVoice() string
	// FileExtension is the container the engine emits ("mp3" or "wav").
	FileExtension() string
}
