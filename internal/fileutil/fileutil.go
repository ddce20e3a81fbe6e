// Package fileutil provides filesystem helpers shared by the media services:
// existence checks, safe copies, and the derived output-name conventions.
package fileutil

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Exists reports whether path names an existing regular file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DerivedName builds the conventional "<verb>_<stem>.<ext>" output name for a
// transform applied to source, placed in dir (source's directory when empty).
func DerivedName(dir, verb, source, ext string) string {
	if dir == "" {
		dir = filepath.Dir(source)
	}
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", verb, Stem(source), ext))
}

// HashName builds a content-addressed output name "tts_<hash8>.<ext>" from
// the given text, so repeated synthesis of identical input reuses one path.
func HashName(dir, text, ext string) string {
	sum := md5.Sum([]byte(text))
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, fmt.Sprintf("tts_%s.%s", hex.EncodeToString(sum[:])[:8], ext))
}

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
