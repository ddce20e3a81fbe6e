// Package language normalizes ISO 639 language codes used by the
// transcription, translation, and synthesis services, and maps them to the
// per-provider forms remote APIs expect.
package language
