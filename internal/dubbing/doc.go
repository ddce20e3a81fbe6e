// Package dubbing orchestrates the end-to-end dubbing pipeline: audio
// extraction, transcription, translation and speech synthesis run in strict
// sequence, with checkpointed progress events fanned out to subscribers.
package dubbing
