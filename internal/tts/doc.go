// Package tts implements the speech-synthesis engine registry and its
// engines.
//
// Engines expose a uniform capability set (synthesize, list voices, default
// voice) behind universal speed/pitch/volume parameters; each engine clamps
// and converts those to its native units at its own boundary. The registry
// constructs engines lazily and caches only successful constructions, so an
// engine whose companion process or credential shows up later can still be
// retried.
package tts
