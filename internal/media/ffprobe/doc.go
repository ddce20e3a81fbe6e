// Package ffprobe decodes container and stream metadata emitted by the
// ffprobe tool. The dubbing pipeline uses it to locate the source audio
// stream and to report durations alongside transform results.
package ffprobe
