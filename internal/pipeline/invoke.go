package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/vk/shipline/internal/argv"
	"github.com/vk/shipline/internal/config"
	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
)

// invoke launches the freshly built artifact with forwarded domain
// arguments, unless the run is build-only. The artifact inherits the
// console so its own interactive behavior reaches the operator unchanged,
// and its exit code becomes the pipeline's final exit code.
func (p *Pipeline) invoke(ctx context.Context, artifact string) error {
	ctx = ctxlog.WithStage(ctx, stageInvoke)
	logger := ctxlog.FromContext(ctx)

	if p.cfg.BuildOnly {
		p.record(StageResult{Stage: stageInvoke, Status: StatusSkipped})
		logger.Info("Build-only run; artifact not invoked.")
		return nil
	}

	// The one place the mutual-exclusion invariant is enforced: a run that
	// is not build-only must identify a client. Checking earlier would
	// wrongly reject build-only flows that carry no client id.
	if p.cfg.ClientID == "" {
		stageErr := &config.ConfigError{Field: "client-id", Reason: "required unless the run is build-only"}
		p.record(StageResult{Stage: stageInvoke, Status: StatusFailed, Err: stageErr})
		return stageErr
	}

	abs, err := filepath.Abs(artifact)
	if err != nil {
		return fmt.Errorf("resolving artifact path: %w", err)
	}

	args := forwardedArgs(p.cfg)
	logger.Info("🚀 Launching artifact.", "path", abs, "mode", string(p.cfg.Mode))

	res, err := p.runner.Run(ctx, execx.Command{Name: abs, Args: args, Dir: p.workDir, InheritStdio: true})
	if err != nil {
		p.record(StageResult{Stage: stageInvoke, Status: StatusFailed, Err: err})
		return err
	}
	if res.ExitCode != 0 {
		// Propagated verbatim, not interpreted or retried.
		stageErr := &InvocationExitError{Code: res.ExitCode}
		p.record(StageResult{Stage: stageInvoke, Status: StatusFailed, Err: stageErr})
		return stageErr
	}

	p.record(StageResult{Stage: stageInvoke, Status: StatusExecuted})
	return nil
}

// forwardedArgs translates the configuration into the wrapped tool's own
// argument vector: the mode token first, the client id, then one flag per
// optional field that is set to a non-default value.
func forwardedArgs(cfg *config.Pipeline) []string {
	b := argv.New(string(cfg.Mode)).
		Option("--client-id", cfg.ClientID).
		Option("--source-root", cfg.SourceRoot).
		Option("--target-root", cfg.TargetRoot).
		FlagIf(cfg.SkipIdenticals, "--skip-identicals").
		Option("--exts", cfg.ExtensionFilter).
		Option("--modified-after", cfg.ModifiedAfter).
		Option("--min-mb", formatSize(cfg.MinSizeMB)).
		Option("--max-mb", formatSize(cfg.MaxSizeMB)).
		Option("--resume-cache", cfg.ResumeCachePath)

	if cfg.Conflict != config.ConflictRename {
		b.Option("--conflict", string(cfg.Conflict))
	}
	b.Option("--output-prefix", cfg.OutputPrefix)
	return b.Args()
}

// formatSize renders a size bound, or empty when the bound is unset so the
// flag is omitted.
func formatSize(v float64) string {
	if v == config.SizeUnset {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
