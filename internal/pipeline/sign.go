package pipeline

import (
	"context"

	"github.com/vk/shipline/internal/argv"
	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
)

// signTool is the code-signing utility looked up on the host PATH.
const signTool = "signtool"

// sign cryptographically signs the artifact when a credential is configured
// and the signing tool is present; otherwise it is a silent skip. Signing
// is best-effort: failures are recorded and logged, never fatal, so a
// release is not blocked on environment-specific trust-store issues.
func (p *Pipeline) sign(ctx context.Context, artifact string) {
	ctx = ctxlog.WithStage(ctx, stageSign)
	logger := ctxlog.FromContext(ctx)

	if p.cfg.SignPfxPath == "" {
		p.record(StageResult{Stage: stageSign, Status: StatusSkipped})
		logger.Debug("Signing skipped: no credential configured.")
		return
	}

	toolPath, err := p.runner.LookPath(signTool)
	if err != nil {
		p.record(StageResult{Stage: stageSign, Status: StatusSkipped})
		logger.Info("Signing skipped: signing tool not found on host.", "tool", signTool)
		return
	}

	// A passwordless PFX must not produce an empty /p argument; the Option
	// builder drops the pair when the password is empty.
	args := argv.New("sign").
		Option("/fd", "SHA256").
		Option("/td", "SHA256").
		Option("/tr", p.cfg.TimestampURL).
		Option("/f", p.cfg.SignPfxPath).
		Option("/p", p.cfg.SignPfxPassword).
		Token(artifact).
		Args()

	logger.Info("🔏 Signing artifact.", "credential", p.cfg.SignPfxPath, "timestamp_url", p.cfg.TimestampURL)
	if err := p.runTool(ctx, execx.Command{Name: toolPath, Args: args, Dir: p.workDir}); err != nil {
		stageErr := &SigningError{Op: "signing artifact", Err: err}
		p.record(StageResult{Stage: stageSign, Status: StatusFailed, Err: stageErr})
		logger.Warn("Signing failed; continuing.", "error", stageErr)
		return
	}

	// Verification output is discarded; a failure here is advisory because
	// trust-store contents vary between build hosts.
	verify := argv.New("verify").Option("/pa", artifact).Args()
	if err := p.runTool(ctx, execx.Command{Name: toolPath, Args: verify, Dir: p.workDir}); err != nil {
		logger.Warn("Signature verification failed; continuing.", "error", err)
	}

	p.record(StageResult{Stage: stageSign, Status: StatusExecuted})
	logger.Info("Artifact signed.")
}
