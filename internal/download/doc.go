// Package download orchestrates bulk media downloads through the yt-dlp CLI:
// ungated metadata probes, permit-capped concurrent fetches with normalized
// progress, and optional lossless side-car audio extraction.
package download
