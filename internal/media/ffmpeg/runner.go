package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mediaforge/internal/logging"
	"mediaforge/internal/services"
)

// DefaultTimeout bounds a single ffmpeg invocation when the caller does not
// override it.
const DefaultTimeout = 5 * time.Minute

// stderrTailBytes limits how much captured diagnostic output ends up in error
// messages.
const stderrTailBytes = 2048

// Executor abstracts subprocess execution so services can be tested without a
// real ffmpeg binary. Both output streams come back as raw bytes; callers must
// not assume they are valid UTF-8.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout, stderr []byte, err error)
}

// commandExecutor is the production Executor backed by os/exec. The context
// passed to Run kills the subprocess on cancellation or deadline.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Invocation describes one subprocess run.
type Invocation struct {
	// Args are passed to the binary verbatim.
	Args []string
	// OutputPath, when set, is verified to exist after a zero exit. Tools
	// occasionally exit clean without producing output; that is a failure.
	OutputPath string
	// Timeout overrides the runner default when positive.
	Timeout time.Duration
	// Operation names the invocation in logs and error messages.
	Operation string
}

// Runner executes a media tool with timeout enforcement, output capture, and
// uniform error classification.
type Runner struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithExecutor substitutes the subprocess executor (used by tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithTimeout sets the default per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "ffmpeg")
		}
	}
}

// NewRunner builds a Runner for the given binary ("ffmpeg" when empty).
func NewRunner(binary string, opts ...Option) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	r := &Runner{
		binary:  binary,
		timeout: DefaultTimeout,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the configured tool name.
func (r *Runner) Binary() string { return r.binary }

// Run executes the invocation and returns captured stdout on success.
func (r *Runner) Run(ctx context.Context, inv Invocation) ([]byte, error) {
	op := inv.Operation
	if op == "" {
		op = "run"
	}

	timeout := r.timeout
	if inv.Timeout > 0 {
		timeout = inv.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	stdout, stderr, err := r.exec.Run(runCtx, r.binary, inv.Args)
	elapsed := time.Since(started)

	log := logging.WithContext(ctx, r.logger)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			log.Warn("command timed out",
				logging.String("operation", op),
				logging.Duration("timeout", timeout))
			return nil, services.Wrap(services.ErrTimeout, r.binary, op,
				"killed after "+timeout.String(), nil)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, services.Wrap(services.ErrNotFound, r.binary, op,
				"binary not found on PATH", err)
		}
		log.Warn("command failed",
			logging.String("operation", op),
			logging.Duration("elapsed", elapsed),
			logging.String("stderr", tail(stderr)))
		return nil, services.Wrap(services.ErrExternalTool, r.binary, op, tail(stderr), err)
	}

	if inv.OutputPath != "" {
		if _, statErr := os.Stat(inv.OutputPath); statErr != nil {
			return nil, services.Wrap(services.ErrExternalTool, r.binary, op,
				"output missing: "+inv.OutputPath, statErr)
		}
	}

	log.Debug("command completed",
		logging.String("operation", op),
		logging.Duration("elapsed", elapsed))
	return stdout, nil
}

// tail decodes up to the last stderrTailBytes of captured output, replacing
// invalid UTF-8 so diagnostics never poison error strings.
func tail(output []byte) string {
	if len(output) > stderrTailBytes {
		output = output[len(output)-stderrTailBytes:]
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(output), "�"))
}
