package download

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Executor runs the downloader binary, streaming stdout lines to onLine as
// they arrive. Tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) (stdout []byte, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		stdout.WriteString(line)
		stdout.WriteByte('\n')
		if onLine != nil {
			onLine(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		return stdout.Bytes(), &exitError{err: err, stderr: stderrTail(stderr.Bytes())}
	}
	return stdout.Bytes(), nil
}

// exitError carries a cleaned stderr tail alongside the process error.
type exitError struct {
	err    error
	stderr string
}

func (e *exitError) Error() string {
	if e.stderr == "" {
		return e.err.Error()
	}
	return e.err.Error() + ": " + e.stderr
}

func (e *exitError) Unwrap() error { return e.err }

func stderrTail(raw []byte) string {
	const limit = 2048
	if len(raw) > limit {
		raw = raw[len(raw)-limit:]
	}
	if !utf8.Valid(raw) {
		raw = bytes.ToValidUTF8(raw, []byte("�"))
	}
	return strings.TrimSpace(string(raw))
}
