// Package audio implements the audio transform services: extraction from
// video containers, sequential concatenation, simultaneous mixing, and
// pitch-preserving speed adjustment. Every transform runs through the shared
// ffmpeg runner so timeout and error behaviour is uniform.
package audio
