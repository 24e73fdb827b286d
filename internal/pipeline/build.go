package pipeline

import (
	"context"

	"github.com/vk/shipline/internal/argv"
	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/fsutil"
)

// build produces the single-file artifact from the entry script and
// verifies it landed at the fixed expected path. It returns the artifact
// path on success; any failure is fatal.
func (p *Pipeline) build(ctx context.Context) (string, error) {
	ctx = ctxlog.WithStage(ctx, stageBuild)
	logger := ctxlog.FromContext(ctx)

	args := argv.New().
		Flag("--onefile").
		Option("--name", appName).
		Flag("--clean").
		Flag("--console").
		Option("--version-file", versionFile).
		Option("--icon", iconFile).
		Option("--upx-dir", p.cfg.UpxDir).
		Token(entryScript).
		Args()

	logger.Info("🔨 Packaging artifact.", "tool", "pyinstaller", "compressed", p.cfg.UpxDir != "")
	cmd := execx.Command{Name: p.venvTool("pyinstaller"), Args: args, Dir: p.workDir}
	if err := p.runTool(ctx, cmd); err != nil {
		return "", p.buildFailed("packaging tool failed", err)
	}

	// The exit code alone is not trusted: some packaging tools exit 0 on
	// partial failure, so the artifact's existence is checked as well.
	artifact := p.artifactPath()
	present, err := fsutil.Exists(artifact)
	if err != nil {
		return "", p.buildFailed("verifying artifact", err)
	}
	if !present {
		return "", p.buildFailed("packaging tool exited 0 but produced no artifact at "+artifact, nil)
	}

	p.record(StageResult{Stage: stageBuild, Status: StatusExecuted, ArtifactPath: artifact})
	logger.Info("📦 Artifact built.", "path", artifact)
	return artifact, nil
}

// buildFailed records the stage failure and wraps the cause.
func (p *Pipeline) buildFailed(reason string, err error) error {
	stageErr := &BuildError{Reason: reason, Err: err}
	p.record(StageResult{Stage: stageBuild, Status: StatusFailed, Err: stageErr})
	return stageErr
}
