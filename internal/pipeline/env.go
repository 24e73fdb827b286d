package pipeline

import (
	"context"
	"path/filepath"

	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/fsutil"
)

// Packages installed into the isolated environment. Latest-available is
// accepted; version pinning is a concern of the wrapped tool, not ours.
var environmentPackages = []string{"msal", "requests", "pyinstaller"}

// prepareEnvironment guarantees an isolated environment containing the
// packaging toolchain, and guarantees no stale build outputs remain. Any
// failure here is fatal.
func (p *Pipeline) prepareEnvironment(ctx context.Context) error {
	ctx = ctxlog.WithStage(ctx, stageEnvironment)
	logger := ctxlog.FromContext(ctx)

	venvPath := filepath.Join(p.workDir, venvDir)
	present, err := fsutil.Exists(venvPath)
	if err != nil {
		return p.envFailed("inspecting environment", err)
	}

	if present {
		logger.Debug("Reusing existing isolated environment.", "path", venvPath)
	} else {
		logger.Info("🐍 Creating isolated environment.", "path", venvPath)
		create := execx.Command{Name: hostPython(), Args: []string{"-m", "venv", venvDir}, Dir: p.workDir}
		if err := p.runTool(ctx, create); err != nil {
			return p.envFailed("creating environment", err)
		}
	}

	python := p.venvTool("python")

	upgrade := execx.Command{Name: python, Args: []string{"-m", "pip", "install", "--upgrade", "pip"}, Dir: p.workDir}
	if err := p.runTool(ctx, upgrade); err != nil {
		return p.envFailed("upgrading package installer", err)
	}

	install := execx.Command{
		Name: python,
		Args: append([]string{"-m", "pip", "install"}, environmentPackages...),
		Dir:  p.workDir,
	}
	if err := p.runTool(ctx, install); err != nil {
		return p.envFailed("installing dependencies", err)
	}

	// Idempotency contract: every run starts from clean build outputs, so a
	// rerun can never observe a stale artifact.
	logger.Debug("Clearing previous build outputs.")
	if err := fsutil.ClearDirs(filepath.Join(p.workDir, buildDir), filepath.Join(p.workDir, distDir)); err != nil {
		return p.envFailed("clearing build outputs", err)
	}

	p.record(StageResult{Stage: stageEnvironment, Status: StatusExecuted})
	logger.Debug("Environment ready.")
	return nil
}

// envFailed records the stage failure and wraps the cause.
func (p *Pipeline) envFailed(op string, err error) error {
	stageErr := &EnvironmentError{Op: op, Err: err}
	p.record(StageResult{Stage: stageEnvironment, Status: StatusFailed, Err: stageErr})
	return stageErr
}
