// Package execx wraps subprocess invocation behind a small interface so the
// pipeline stages can be exercised without spawning real processes.
package execx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable to run, either a bare name resolved via PATH
	// or an absolute path.
	Name string

	// Args is the full argument vector, not including the executable itself.
	Args []string

	// Dir is the working directory. Empty means the caller's.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the parent environment.
	Env []string

	// InheritStdio wires the child directly to the parent's stdin, stdout
	// and stderr instead of capturing output. Used when the child is
	// interactive and its console belongs to the operator.
	InheritStdio bool
}

// Result is the observable outcome of a finished subprocess.
type Result struct {
	// ExitCode is the child's exit status. 0 is success.
	ExitCode int

	// Output is the combined stdout and stderr, empty when the command ran
	// with InheritStdio.
	Output []byte
}

// Runner executes commands. The pipeline depends on this interface; the
// process-spawning implementation lives in Local, and tests substitute a
// scripted fake.
type Runner interface {
	// Run blocks until the command exits. A non-zero exit status is not an
	// error; it is reported through Result.ExitCode. The error return is
	// reserved for failures to launch at all.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath reports where an executable resolves on the host, mirroring
	// exec.LookPath semantics.
	LookPath(name string) (string, error)
}

// Local is the os/exec backed Runner used outside of tests.
type Local struct{}

// NewLocal creates a Runner that spawns real subprocesses.
func NewLocal() *Local {
	return &Local{}
}

// LookPath implements Runner.
func (l *Local) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (l *Local) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var out []byte
	var err error
	if c.InheritStdio {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err = cmd.Run()
	} else {
		out, err = cmd.CombinedOutput()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode(), Output: out}, nil
		}
		return nil, fmt.Errorf("launching %s: %w", c.Name, err)
	}
	return &Result{ExitCode: 0, Output: out}, nil
}
