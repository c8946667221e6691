package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsUsable(t *testing.T) {
	m := Default()
	assert.Equal(t, "product", m.Product)
	assert.NotEmpty(t, m.Build.Command)
	assert.NotEmpty(t, m.Packagers["deb"])
	assert.GreaterOrEqual(t, m.Concurrency, 1)
	assert.Equal(t, "SHIPWRIGHT_SIGNING_IDENTITY", m.Signing.IdentityEnv)
}

func TestLoadMissingDefaultFileYieldsDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	m, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrManifest)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipwright.yaml")
	data := `
product: installer
version: 2.0.0
concurrency: 2
signing:
  optional: true
  identity_env: SIGN_ID
publish:
  - name: release-storage
    type: dir
    path: /srv/releases
  - name: apt-feed
    type: command
    command: [aptly, push]
timeouts:
  build: 30m
  sign: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "installer", m.Product)
	assert.Equal(t, "2.0.0", m.Version)
	assert.Equal(t, 2, m.Concurrency)
	assert.True(t, m.Signing.Optional)
	assert.Equal(t, "SIGN_ID", m.Signing.IdentityEnv)
	assert.Equal(t, 30*time.Minute, time.Duration(m.Timeouts.Build))
	assert.Equal(t, 90*time.Second, time.Duration(m.Timeouts.Sign))
	assert.Zero(t, m.Timeouts.Package)

	require.Len(t, m.Publish, 2)
	assert.Equal(t, "dir", m.Publish[0].Type)
	assert.Equal(t, "command", m.Publish[1].Type)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Build.Command, m.Build.Command)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipwright.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts:\n  build: soon\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrManifest)
}
