// Package deployer runs the external sc64deployer binary and classifies
// the outcome of each invocation. The deployer is a black box: this
// package owns spawning, timeouts, and output capture, while callers
// interpret exit codes and stdout.
package deployer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/breeze64/breeze/pkg/breeze/logging"
)

// DefaultTimeout bounds a single deployer invocation. Uploads of large
// ROMs over USB can legitimately take a while.
const DefaultTimeout = 120 * time.Second

// ErrNotFound indicates the deployer binary is missing or not executable.
var ErrNotFound = errors.New("sc64deployer not found")

// ErrTimeout indicates the deployer exceeded its allotted time and was killed.
var ErrTimeout = errors.New("sc64deployer timed out")

// Result holds the captured outcome of one deployer invocation.
// A non-zero ExitCode is not an error by itself: some subcommands use
// it for expected conditions such as an uninitialized SD card.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the invocation exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Invoker runs the deployer with the given argument tokens.
// Arguments are passed through unmodified as discrete tokens; nothing is
// ever concatenated into a shell string, so filenames with spaces or
// metacharacters are safe.
type Invoker interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, args ...string) (Result, error)

// Run calls f.
func (f InvokerFunc) Run(ctx context.Context, args ...string) (Result, error) {
	return f(ctx, args...)
}

// ExecInvoker invokes the deployer as an OS subprocess. Each call spawns
// one process; there is no pooling or reuse, and no state is carried
// between invocations.
type ExecInvoker struct {
	// Binary is the path to the sc64deployer executable.
	Binary string

	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration

	// Dir is the working directory for the subprocess. Empty inherits
	// the current directory.
	Dir string
}

// Run executes the deployer and waits for it to exit or time out.
func (e *ExecInvoker) Run(ctx context.Context, args ...string) (Result, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := logging.Get("deployer")
	logger.Debug("invoking", "binary", e.Binary, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = e.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logger.Warn("invocation timed out", "args", strings.Join(args, " "), "timeout", timeout)
			return res, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, strings.Join(args, " "))
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			logger.Debug("invocation exited", "code", res.ExitCode, "elapsed", time.Since(start))
			return res, nil
		}

		// Spawn failure: the binary is missing or not executable.
		return res, fmt.Errorf("%w at %s: %v", ErrNotFound, e.Binary, err)
	}

	logger.Debug("invocation exited", "code", 0, "elapsed", time.Since(start))
	return res, nil
}
