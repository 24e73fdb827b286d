package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shipline/internal/config"
	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/testutil"
)

func TestSign_SkippedWithoutCredential(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fake := &testutil.FakeRunner{}
	p := New(testConfig(t), fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	assert.Empty(t, fake.Commands(), "no credential means zero signing-tool invocations")
	results := p.Results()
	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
}

func TestSign_SkippedWhenToolMissing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg := testConfig(t)
	cfg.SignPfxPath = "certs/release.pfx"
	fake := &testutil.FakeRunner{Missing: map[string]bool{signTool: true}}
	p := New(cfg, fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	assert.Empty(t, fake.Commands())
	require.Len(t, p.Results(), 1)
	assert.Equal(t, StatusSkipped, p.Results()[0].Status)
}

func TestSign_SignsAndVerifies(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg := testConfig(t)
	cfg.SignPfxPath = "certs/release.pfx"
	cfg.SignPfxPassword = "hunter2"
	fake := &testutil.FakeRunner{}
	p := New(cfg, fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	invocations := fake.Invocations(signTool)
	require.Len(t, invocations, 2)

	expectedSign := []string{
		"sign",
		"/fd", "SHA256",
		"/td", "SHA256",
		"/tr", config.DefaultTimestampURL,
		"/f", "certs/release.pfx",
		"/p", "hunter2",
		"dist/OneDriveMigrate",
	}
	require.Empty(t, cmp.Diff(expectedSign, invocations[0].Args))

	expectedVerify := []string{"verify", "/pa", "dist/OneDriveMigrate"}
	require.Empty(t, cmp.Diff(expectedVerify, invocations[1].Args))

	require.Len(t, p.Results(), 1)
	assert.Equal(t, StatusExecuted, p.Results()[0].Status)
}

func TestSign_PasswordlessCredentialOmitsPasswordFlag(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Some signing tools reject an explicitly empty secret, so a PFX with
	// no password must not produce a /p argument at all.
	cfg := testConfig(t)
	cfg.SignPfxPath = "certs/release.pfx"
	cfg.SignPfxPassword = ""
	fake := &testutil.FakeRunner{}
	p := New(cfg, fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	args := fake.Invocations(signTool)[0].Args
	assert.NotContains(t, args, "/p")
	assert.NotContains(t, args, "")
}

func TestSign_FailureIsAdvisory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg := testConfig(t)
	cfg.SignPfxPath = "certs/release.pfx"
	fake := &testutil.FakeRunner{Handlers: []testutil.Handler{
		testutil.ExitWith(signTool, 1),
	}}
	p := New(cfg, fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	require.Len(t, fake.Invocations(signTool), 1, "verification is pointless after a failed signing pass")
	require.Len(t, p.Results(), 1)
	assert.Equal(t, StatusFailed, p.Results()[0].Status)
	var signErr *SigningError
	assert.ErrorAs(t, p.Results()[0].Err, &signErr)
}

func TestSign_VerificationFailureDoesNotFailTheStage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Signing itself succeeds; only the verification pass fails. The stage
	// reports success because verification is advisory by design.
	cfg := testConfig(t)
	cfg.SignPfxPath = "certs/release.pfx"
	calls := 0
	fake := &testutil.FakeRunner{Handlers: []testutil.Handler{{
		Tool: signTool,
		Do: func(execx.Command) (*execx.Result, error) {
			calls++
			if calls == 2 {
				return &execx.Result{ExitCode: 1}, nil
			}
			return &execx.Result{}, nil
		},
	}}}
	p := New(cfg, fake, t.TempDir())

	// --- Act ---
	p.sign(context.Background(), "dist/OneDriveMigrate")

	// --- Assert ---
	require.Equal(t, 2, calls, "verification should still run after signing")
	require.Len(t, p.Results(), 1)
	assert.Equal(t, StatusExecuted, p.Results()[0].Status)
	assert.NoError(t, p.Results()[0].Err)
}
