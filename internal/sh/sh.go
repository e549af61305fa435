// Package sh runs external processes with an explicit argument vector and
// captures their output. Nothing is interpreted by a shell.
package sh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type DirectoryPath string

type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes name with args in cwd.
type Runner interface {
	Run(ctx context.Context, cwd DirectoryPath, name string, args ...string) (Output, error)
}

// ProcessRunner starts real processes. Env is appended to the current environment.
type ProcessRunner struct {
	Env []string
}

func NewProcessRunner(env ...string) *ProcessRunner {
	return &ProcessRunner{Env: env}
}

// ExitError is returned when the process ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, e.Message())
}

// Message is the first line of stderr, else of stdout, else "no output".
func (e *ExitError) Message() string {
	return firstLine(e.Stderr, e.Stdout)
}

// SpawnError is returned when the process could not be started at all.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (r *ProcessRunner) Run(ctx context.Context, cwd DirectoryPath, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(cwd)
	cmd.Env = append(os.Environ(), r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	commandLine := CommandLine(name, args...)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return out, fmt.Errorf("%s: %w", commandLine, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, &ExitError{
			Command:  commandLine,
			ExitCode: out.ExitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
		}
	}
	return out, &SpawnError{Command: commandLine, Err: err}
}

// CommandLine renders name and args for log output only.
func CommandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// Cause describes err the way it is reported to users.
func Cause(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Message()
	}
	return err.Error()
}

func firstLine(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if i := strings.IndexByte(c, '\n'); i >= 0 {
			return strings.TrimSpace(c[:i])
		}
		return c
	}
	return "no output"
}
