package pipeline_behavior

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/testutil"
)

// artifactName mirrors the fixed output name of the packaging stage.
func artifactName() string {
	if runtime.GOOS == "windows" {
		return "OneDriveMigrate.exe"
	}
	return "OneDriveMigrate"
}

// writeRelease drops a release.hcl into dir.
func writeRelease(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "release.hcl"), []byte(body), 0o600))
}

// packagingHandler scripts a successful build that drops the artifact.
func packagingHandler(t *testing.T, dir string) testutil.Handler {
	t.Helper()
	return testutil.Handler{Tool: "pyinstaller", Do: func(execx.Command) (*execx.Result, error) {
		path := filepath.Join(dir, "dist", artifactName())
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte("binary"), 0o755); err != nil {
			return nil, err
		}
		return &execx.Result{}, nil
	}}
}
