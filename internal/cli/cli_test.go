package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shipline/internal/config"
)

func TestParse_FullFlagSet(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{
		"-config", "release.hcl",
		"-workdir", "/tmp/project",
		"-client-id", "abc",
		"-mode", "copy",
		"-source-root", "Documents",
		"-target-root", "Archive",
		"-skip-identicals",
		"-exts", ".docx",
		"-modified-after", "2024-01-01",
		"-min-mb", "0.5",
		"-max-mb", "250",
		"-resume-cache", "resume.json",
		"-conflict", "replace",
		"-output-prefix", "nightly",
		"-remote-repo", "git@example.com:me/repo.git",
		"-upx-dir", "/opt/upx",
		"-sign-pfx", "certs/release.pfx",
		"-sign-pfx-password", "hunter2",
		"-timestamp-url", "http://ts.example.com",
		"-build-only",
		"-log-format", "json",
		"-log-level", "debug",
	}
	out := &bytes.Buffer{}

	// --- Act ---
	appCfg, shouldExit, err := Parse(args, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "release.hcl", appCfg.ConfigPath)
	assert.Equal(t, "/tmp/project", appCfg.WorkDir)
	assert.Equal(t, "json", appCfg.LogFormat)
	assert.Equal(t, "debug", appCfg.LogLevel)

	f := appCfg.Flags
	assert.Equal(t, "abc", f.ClientID)
	assert.Equal(t, config.ModeCopy, f.Mode)
	assert.Equal(t, "Documents", f.SourceRoot)
	assert.Equal(t, "Archive", f.TargetRoot)
	assert.True(t, f.SkipIdenticals)
	assert.Equal(t, ".docx", f.ExtensionFilter)
	assert.Equal(t, "2024-01-01", f.ModifiedAfter)
	assert.Equal(t, 0.5, f.MinSizeMB)
	assert.Equal(t, 250.0, f.MaxSizeMB)
	assert.Equal(t, "resume.json", f.ResumeCachePath)
	assert.Equal(t, config.ConflictReplace, f.Conflict)
	assert.Equal(t, "nightly", f.OutputPrefix)
	assert.Equal(t, "git@example.com:me/repo.git", f.RemoteRepoURL)
	assert.Equal(t, "/opt/upx", f.UpxDir)
	assert.Equal(t, "certs/release.pfx", f.SignPfxPath)
	assert.Equal(t, "hunter2", f.SignPfxPassword)
	assert.Equal(t, "http://ts.example.com", f.TimestampURL)
	assert.True(t, f.BuildOnly)

	assert.True(t, appCfg.FlagsSet["client-id"])
	assert.True(t, appCfg.FlagsSet["build-only"])
}

func TestParse_TracksOnlyProvidedFlags(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-client-id", "abc"}
	out := &bytes.Buffer{}

	// --- Act ---
	appCfg, shouldExit, err := Parse(args, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.True(t, appCfg.FlagsSet["client-id"])
	assert.False(t, appCfg.FlagsSet["mode"], "an unset flag must not later override file or env layers")
	assert.False(t, appCfg.FlagsSet["build-only"])
}

func TestParse_NoArgsIsValid(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Every parameter is optional on the command line; configuration can
	// come entirely from the release file and environment.
	appCfg, shouldExit, err := Parse(nil, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, ".", appCfg.WorkDir)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	_, shouldExit, err := Parse([]string{"-h"}, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--definitely-not-a-flag"}},
		{name: "invalid log format", args: []string{"-log-format", "xml"}},
		{name: "invalid log level", args: []string{"-log-level", "loud"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
