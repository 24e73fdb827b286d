package pipeline

import (
	"context"

	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
)

const (
	gitTool       = "git"
	defaultBranch = "main"
	commitMessage = "Release: " + appName + " build"
)

// releaseFiles is the explicit file set staged for publication. Staging is
// never "everything": build output and local secrets must not leave the
// machine by accident.
var releaseFiles = []string{
	entryScript,
	versionFile,
	iconFile,
	"README.md",
	".gitignore",
}

// publish pushes the project to the configured remote. It is advisory end
// to end: a missing git client is a warning, and any failing step is
// recorded without stopping the pipeline, since publication is a side
// effect independent of the artifact's usability.
func (p *Pipeline) publish(ctx context.Context) {
	ctx = ctxlog.WithStage(ctx, stagePublish)
	logger := ctxlog.FromContext(ctx)

	if p.cfg.RemoteRepoURL == "" {
		p.record(StageResult{Stage: stagePublish, Status: StatusSkipped})
		logger.Debug("Publishing skipped: no remote configured.")
		return
	}

	if _, err := p.runner.LookPath(gitTool); err != nil {
		p.record(StageResult{Stage: stagePublish, Status: StatusSkipped})
		logger.Warn("Publishing skipped: version-control client not found on host.", "tool", gitTool)
		return
	}

	logger.Info("📤 Publishing project.", "remote", p.cfg.RemoteRepoURL)

	// A failed probe means the directory is not a repository yet.
	if err := p.git(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		if err := p.git(ctx, "init"); err != nil {
			p.publishFailed(ctx, "initializing repository", err)
			return
		}
	}

	if err := p.git(ctx, append([]string{"add"}, releaseFiles...)...); err != nil {
		p.publishFailed(ctx, "staging release files", err)
		return
	}
	if err := p.git(ctx, "commit", "-m", commitMessage); err != nil {
		p.publishFailed(ctx, "committing", err)
		return
	}
	if err := p.git(ctx, "branch", "-M", defaultBranch); err != nil {
		p.publishFailed(ctx, "renaming branch", err)
		return
	}

	// Registering the remote must be idempotent across reruns: when origin
	// already exists, point it at the configured URL instead.
	if err := p.git(ctx, "remote", "add", "origin", p.cfg.RemoteRepoURL); err != nil {
		if err := p.git(ctx, "remote", "set-url", "origin", p.cfg.RemoteRepoURL); err != nil {
			p.publishFailed(ctx, "registering remote", err)
			return
		}
	}

	if err := p.git(ctx, "push", "-u", "origin", defaultBranch); err != nil {
		p.publishFailed(ctx, "pushing", err)
		return
	}

	p.record(StageResult{Stage: stagePublish, Status: StatusExecuted})
	logger.Info("Project published.", "branch", defaultBranch)
}

// git runs one git subcommand in the project directory.
func (p *Pipeline) git(ctx context.Context, args ...string) error {
	return p.runTool(ctx, execx.Command{Name: gitTool, Args: args, Dir: p.workDir})
}

// publishFailed records the advisory failure and logs it.
func (p *Pipeline) publishFailed(ctx context.Context, op string, err error) {
	stageErr := &PublishError{Op: op, Err: err}
	p.record(StageResult{Stage: stagePublish, Status: StatusFailed, Err: stageErr})
	ctxlog.FromContext(ctx).Warn("Publishing failed; continuing.", "error", stageErr)
}
