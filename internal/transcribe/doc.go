// Package transcribe wraps a local whisper CLI installation behind a single
// Transcribe operation returning recognized text, the detected language, and
// ordered timestamped segments.
package transcribe
