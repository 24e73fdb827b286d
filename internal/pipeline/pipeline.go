package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vk/shipline/internal/config"
	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
)

// Fixed identity of the wrapped application. The artifact path derived from
// these names is the sole contract between the build stage and everything
// downstream of it.
const (
	appName     = "OneDriveMigrate"
	entryScript = "onedrive_migrate_cli.py"
	versionFile = "file_version_info.txt"
	iconFile    = "app.ico"

	venvDir  = ".venv"
	buildDir = "build"
	distDir  = "dist"
)

// Stage names as they appear in results and the summary line.
const (
	stageEnvironment = "environment"
	stageBuild       = "build"
	stageSign        = "sign"
	stagePublish     = "publish"
	stageInvoke      = "invoke"
)

// Pipeline drives one release run. It holds no mutable state beyond the
// accumulated stage results; the configuration is read-only throughout.
type Pipeline struct {
	cfg     *config.Pipeline
	runner  execx.Runner
	workDir string
	results []StageResult
}

// New creates a pipeline over the given resolved configuration. workDir is
// the project directory holding the entry script; all build outputs land
// beneath it.
func New(cfg *config.Pipeline, runner execx.Runner, workDir string) *Pipeline {
	if workDir == "" {
		workDir = "."
	}
	return &Pipeline{cfg: cfg, runner: runner, workDir: workDir}
}

// Run executes the stages in order. The returned error is nil on full
// success or a successful build-only run; otherwise it is the first fatal
// error, or an InvocationExitError carrying the artifact's own exit status.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.prepareEnvironment(ctx); err != nil {
		return err
	}

	artifact, err := p.build(ctx)
	if err != nil {
		return err
	}

	// Advisory stages: outcomes are recorded and logged, never fatal.
	p.sign(ctx, artifact)
	p.publish(ctx)

	p.logSummary(ctx, artifact)
	return p.invoke(ctx, artifact)
}

// artifactPath is the fixed expected output location of the packaging tool.
func (p *Pipeline) artifactPath() string {
	return filepath.Join(p.workDir, distDir, appName+executableExt())
}

// executableExt returns the platform's executable suffix. The packaging
// tool always targets the host it runs on.
func executableExt() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// venvTool returns the path of a console script inside the isolated
// environment, accounting for the venv layout difference on Windows.
func (p *Pipeline) venvTool(name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(p.workDir, venvDir, "Scripts", name+".exe")
	}
	return filepath.Join(p.workDir, venvDir, "bin", name)
}

// hostPython is the interpreter used to create the isolated environment.
func hostPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// runTool executes one external command and folds a non-zero exit status
// into an error that carries the tool's trailing output for diagnosis.
func (p *Pipeline) runTool(ctx context.Context, cmd execx.Command) error {
	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		detail := string(bytes.TrimSpace(res.Output))
		if detail != "" {
			return fmt.Errorf("%s %s exited with code %d: %s", cmd.Name, strings.Join(cmd.Args, " "), res.ExitCode, detail)
		}
		return fmt.Errorf("%s %s exited with code %d", cmd.Name, strings.Join(cmd.Args, " "), res.ExitCode)
	}
	return nil
}

// logSummary emits the final status line: which optional stages were
// skipped versus executed, and where the deliverable lives.
func (p *Pipeline) logSummary(ctx context.Context, artifact string) {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(artifact)
	if err != nil {
		abs = artifact
	}

	attrs := []any{"artifact", abs}
	for _, r := range p.results {
		if r.Stage == stageSign || r.Stage == stagePublish {
			attrs = append(attrs, r.Stage, string(r.Status))
		}
	}
	if p.cfg.BuildOnly {
		attrs = append(attrs, stageInvoke, string(StatusSkipped))
	}
	logger.Info("🏁 Release stages complete.", attrs...)
}
