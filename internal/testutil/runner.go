// Package testutil provides shared fakes for exercising pipeline stages
// without spawning real subprocesses.
package testutil

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/vk/shipline/internal/execx"
)

// Handler scripts the fake's response for one tool.
type Handler struct {
	// Tool is matched against the base name of the invoked executable.
	// Empty matches every command.
	Tool string

	// Do produces the scripted outcome. A nil Do reports success.
	Do func(cmd execx.Command) (*execx.Result, error)
}

// FakeRunner is a scripted execx.Runner that records every command it is
// asked to run. The zero value reports success for everything and resolves
// every tool lookup.
type FakeRunner struct {
	mu sync.Mutex

	// Handlers are consulted in order; the first match wins.
	Handlers []Handler

	// Missing lists tool names LookPath should fail to resolve.
	Missing map[string]bool

	commands []execx.Command
}

// Run implements execx.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd execx.Command) (*execx.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	base := filepath.Base(cmd.Name)
	for _, h := range f.Handlers {
		if h.Tool != "" && h.Tool != base {
			continue
		}
		if h.Do == nil {
			return &execx.Result{}, nil
		}
		return h.Do(cmd)
	}
	return &execx.Result{}, nil
}

// LookPath implements execx.Runner.
func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// Commands returns everything run so far, in order.
func (f *FakeRunner) Commands() []execx.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]execx.Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// Invocations filters the recorded commands by executable base name.
func (f *FakeRunner) Invocations(tool string) []execx.Command {
	var out []execx.Command
	for _, cmd := range f.Commands() {
		if filepath.Base(cmd.Name) == tool {
			out = append(out, cmd)
		}
	}
	return out
}

// ExitWith is a Handler helper scripting a bare exit status for a tool.
func ExitWith(tool string, code int) Handler {
	return Handler{Tool: tool, Do: func(execx.Command) (*execx.Result, error) {
		return &execx.Result{ExitCode: code}, nil
	}}
}
