package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/vk/shipline/internal/config"
	"github.com/vk/shipline/internal/ctxlog"
	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/fsutil"
)

// Environment variable overrides. All optional; absence simply disables the
// corresponding stage or keeps the default.
const (
	EnvSignPfxPath     = "SHIPLINE_SIGN_PFX_PATH"
	EnvSignPfxPassword = "SHIPLINE_SIGN_PFX_PASSWORD"
	EnvTimestampURL    = "SHIPLINE_TIMESTAMP_URL"
	EnvRemoteRepoURL   = "SHIPLINE_REMOTE_REPO_URL"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	pipeline *config.Pipeline
	runner   execx.Runner
}

// New is the constructor for the main application. It builds the isolated
// logger, then resolves the layered pipeline configuration: defaults, then
// the release file, then environment variables, then explicit CLI flags.
func New(outW io.Writer, appCfg *Config, loader config.Loader, runner execx.Runner) (*App, error) {
	logger := newLogger(appCfg.LogLevel, appCfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Credentials commonly live in a .env next to the project; absence is
	// fine.
	_ = godotenv.Load()

	base := config.NewPipeline()

	path := appCfg.ConfigPath
	if path == "" {
		candidate := filepath.Join(appCfg.WorkDir, DefaultReleaseFile)
		if present, err := fsutil.Exists(candidate); err == nil && present {
			path = candidate
		}
	}
	if path != "" {
		loaded, err := loader.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		base = *loaded
		logger.Debug("Release file loaded.", "path", path)
	}

	applyEnvironment(&base)
	applyFlags(&base, appCfg)

	resolved, err := config.Resolve(base)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration resolved.", "mode", string(resolved.Mode), "build_only", resolved.BuildOnly)

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      appCfg,
		pipeline: resolved,
		runner:   runner,
	}, nil
}

// Pipeline returns the resolved pipeline configuration. This is primarily
// for testing.
func (a *App) Pipeline() *config.Pipeline {
	return a.pipeline
}

// applyEnvironment overlays the optional environment variable layer.
func applyEnvironment(p *config.Pipeline) {
	if v := os.Getenv(EnvSignPfxPath); v != "" {
		p.SignPfxPath = v
	}
	if v := os.Getenv(EnvSignPfxPassword); v != "" {
		p.SignPfxPassword = v
	}
	if v := os.Getenv(EnvTimestampURL); v != "" {
		p.TimestampURL = v
	}
	if v := os.Getenv(EnvRemoteRepoURL); v != "" {
		p.RemoteRepoURL = v
	}
}

// applyFlags overlays only the flags the user explicitly set, so an unset
// flag never clobbers a release file or environment value with a default.
func applyFlags(p *config.Pipeline, appCfg *Config) {
	set := appCfg.FlagsSet
	f := appCfg.Flags

	if set["client-id"] {
		p.ClientID = f.ClientID
	}
	if set["mode"] {
		p.Mode = f.Mode
	}
	if set["source-root"] {
		p.SourceRoot = f.SourceRoot
	}
	if set["target-root"] {
		p.TargetRoot = f.TargetRoot
	}
	if set["skip-identicals"] {
		p.SkipIdenticals = f.SkipIdenticals
	}
	if set["exts"] {
		p.ExtensionFilter = f.ExtensionFilter
	}
	if set["modified-after"] {
		p.ModifiedAfter = f.ModifiedAfter
	}
	if set["min-mb"] {
		p.MinSizeMB = f.MinSizeMB
	}
	if set["max-mb"] {
		p.MaxSizeMB = f.MaxSizeMB
	}
	if set["resume-cache"] {
		p.ResumeCachePath = f.ResumeCachePath
	}
	if set["conflict"] {
		p.Conflict = f.Conflict
	}
	if set["output-prefix"] {
		p.OutputPrefix = f.OutputPrefix
	}
	if set["remote-repo"] {
		p.RemoteRepoURL = f.RemoteRepoURL
	}
	if set["upx-dir"] {
		p.UpxDir = f.UpxDir
	}
	if set["sign-pfx"] {
		p.SignPfxPath = f.SignPfxPath
	}
	if set["sign-pfx-password"] {
		p.SignPfxPassword = f.SignPfxPassword
	}
	if set["timestamp-url"] {
		p.TimestampURL = f.TimestampURL
	}
	if set["build-only"] {
		p.BuildOnly = f.BuildOnly
	}
}
