// Package p4 runs Perforce commands and parses their output.
package p4

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/p4tools/p/internal/logging"
)

// Runner executes one p4 invocation and returns its stdout.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error)
}

// CommandError reports a p4 invocation that could not run or exited non-zero.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("p4 %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Exited reports whether p4 ran and exited with a failure status, as
// opposed to not starting at all.
func (e *CommandError) Exited() bool {
	var exitErr *exec.ExitError
	return errors.As(e.Err, &exitErr)
}

// ExecRunner runs the configured p4 binary.
type ExecRunner struct {
	// Argv is the base command, e.g. ["p4", "-p", "ssl:perforce:1666"].
	Argv []string

	// Password is exported as P4PASSWD when set.
	Password string
}

// NewExecRunner returns a runner for argv. argv must not be empty.
func NewExecRunner(argv []string, password string) *ExecRunner {
	return &ExecRunner{Argv: argv, Password: password}
}

func (r *ExecRunner) Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	full := append(append([]string{}, r.Argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.Argv[0], full...)
	cmd.Stdin = stdin
	if r.Password != "" {
		cmd.Env = append(os.Environ(), "P4PASSWD="+r.Password)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logging.With("args", args)
	log.Debug("running p4")
	if err := cmd.Run(); err != nil {
		log.Debug("p4 failed", "err", err, "stderr", strings.TrimSpace(stderr.String()))
		return nil, &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}
