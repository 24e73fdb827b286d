package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/shipline/internal/app"
	"github.com/vk/shipline/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("shipline", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Shipline - builds, signs, publishes and runs the OneDriveMigrate tool.

Usage:
  shipline [options]

All options are named; none are positional. Values may also come from a
release.hcl file in the project directory and from SHIPLINE_* environment
variables; explicit flags win.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the release file. Defaults to release.hcl in the project directory when present.")
	workDirFlag := flagSet.String("workdir", ".", "Project directory holding the wrapped tool's sources.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	clientIDFlag := flagSet.String("client-id", "", "OAuth client id forwarded to the built tool. Required unless -build-only is set.")
	modeFlag := flagSet.String("mode", string(config.ModePlan), "Invocation mode forwarded to the built tool: plan, copy or move.")
	sourceRootFlag := flagSet.String("source-root", "", "Source folder forwarded to the built tool.")
	targetRootFlag := flagSet.String("target-root", "", "Target folder forwarded to the built tool.")
	skipIdenticalsFlag := flagSet.Bool("skip-identicals", false, "Skip files already present with identical size.")
	extsFlag := flagSet.String("exts", "", "Comma-separated extension filter, e.g. '.docx,.pdf'.")
	modifiedAfterFlag := flagSet.String("modified-after", "", "Only forward files modified after this YYYY-MM-DD date.")
	minMBFlag := flagSet.Float64("min-mb", config.SizeUnset, "Minimum file size in MB. Negative means no bound.")
	maxMBFlag := flagSet.Float64("max-mb", config.SizeUnset, "Maximum file size in MB. Negative means no bound.")
	resumeCacheFlag := flagSet.String("resume-cache", "", "Resume cache file forwarded to the built tool.")
	conflictFlag := flagSet.String("conflict", string(config.ConflictRename), "Name-collision behavior forwarded to the built tool: rename or replace.")
	outputPrefixFlag := flagSet.String("output-prefix", "", "Report file prefix forwarded to the built tool.")

	remoteRepoFlag := flagSet.String("remote-repo", "", "Remote repository URL. Enables the publish stage.")
	upxDirFlag := flagSet.String("upx-dir", "", "UPX installation directory. Enables artifact compression.")
	signPfxFlag := flagSet.String("sign-pfx", "", "PFX credential path. Enables the signing stage.")
	signPfxPasswordFlag := flagSet.String("sign-pfx-password", "", "PFX password. Omit for passwordless credentials.")
	timestampURLFlag := flagSet.String("timestamp-url", "", "Timestamp authority URL for signing. Defaults to "+config.DefaultTimestampURL+".")
	buildOnlyFlag := flagSet.Bool("build-only", false, "Stop after build/sign/publish without invoking the artifact.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	// Only flags the user actually provided may override the release file
	// and environment layers.
	flagsSet := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { flagsSet[f.Name] = true })

	flags := config.NewPipeline()
	flags.ClientID = *clientIDFlag
	flags.Mode = config.Mode(*modeFlag)
	flags.SourceRoot = *sourceRootFlag
	flags.TargetRoot = *targetRootFlag
	flags.SkipIdenticals = *skipIdenticalsFlag
	flags.ExtensionFilter = *extsFlag
	flags.ModifiedAfter = *modifiedAfterFlag
	flags.MinSizeMB = *minMBFlag
	flags.MaxSizeMB = *maxMBFlag
	flags.ResumeCachePath = *resumeCacheFlag
	flags.Conflict = config.Conflict(*conflictFlag)
	flags.OutputPrefix = *outputPrefixFlag
	flags.RemoteRepoURL = *remoteRepoFlag
	flags.UpxDir = *upxDirFlag
	flags.SignPfxPath = *signPfxFlag
	flags.SignPfxPassword = *signPfxPasswordFlag
	flags.TimestampURL = *timestampURLFlag
	flags.BuildOnly = *buildOnlyFlag

	appConfig, err := app.NewConfig(app.Config{
		ConfigPath: *configFlag,
		WorkDir:    *workDirFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Flags:      flags,
		FlagsSet:   flagsSet,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return appConfig, false, nil
}
