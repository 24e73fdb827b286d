package app

import (
	"context"

	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/pipeline"
)

// Run executes the release pipeline. The returned error is nil on full
// success or a successful build-only run; a pipeline.InvocationExitError
// signals that the built artifact itself exited non-zero.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "work_dir", a.cfg.WorkDir)

	pl := pipeline.New(a.pipeline, a.runner, a.cfg.WorkDir)
	if err := pl.Run(ctx); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
