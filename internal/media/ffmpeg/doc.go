// Package ffmpeg wraps external media-tool invocations with timeout
// enforcement, raw output capture, and uniform error classification. Every
// media transform in the repository funnels through Runner so subprocess
// behaviour (kill on deadline, stderr diagnostics, output verification) stays
// consistent.
package ffmpeg
