// Package services defines shared utilities consumed by the dubbing pipeline
// stages and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and engine names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (validation vs provider vs timeout) uniform across the
//     pipeline.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, fallback decisions) stays uniform.
package services
