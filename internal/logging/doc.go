// Package logging assembles structured slog loggers and formatting helpers
// used across MediaForge services.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code can automatically attach
// job, stage, and engine fields to every record.
package logging
