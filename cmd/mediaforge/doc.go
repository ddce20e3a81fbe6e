// Command mediaforge is the CLI for the dubbing pipeline and its supporting
// media operations: downloads, translation, transcription, synthesis and
// ffmpeg-backed transforms.
package main
