package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".diabeguide", "config.json")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.True(t, cfg.IsValid())
	assert.Equal(t, DefaultBaseURL, cfg.GetBaseURL())
	assert.Equal(t, DefaultCookieName, cfg.GetCookieName())
	assert.Equal(t, DefaultTimeout, cfg.GetTimeout())
	assert.Equal(t, "auto", cfg.Render.Style)
	assert.Equal(t, 80, cfg.Render.WordWrap)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "logs", "diabeguide.log"), cfg.LogFile())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveAndReloadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	cfg.Profiles["clinic"] = Profile{
		BaseURL:       "https://diabeguide.example.com/",
		SessionCookie: "abc123",
		Timeout:       "15s",
	}
	require.NoError(t, cfg.UseProfile("Clinic"))
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "clinic", reloaded.ActiveProfile)
	assert.Equal(t, "https://diabeguide.example.com", reloaded.GetBaseURL())
	assert.Equal(t, "abc123", reloaded.GetSessionCookie())
	assert.Equal(t, 15*time.Second, reloaded.GetTimeout())
	assert.Len(t, reloaded.Profiles, 2)
}

func TestUnknownActiveProfileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "active_profile": "missing",
  "profiles": {"home": {"base_url": "http://localhost:8000"}}
}`), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "home", cfg.ActiveProfile)
	assert.Equal(t, "http://localhost:8000", cfg.GetBaseURL())
}

func TestNoProfilesIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"active_profile": "x", "profiles": {}}`), 0600))

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestEnvironmentOverridesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("DIABEGUIDE_LOG_LEVEL", "debug")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInvalidTimeoutUsesDefault(t *testing.T) {
	cfg := defaultConfig("")
	cfg.Profiles["default"] = Profile{BaseURL: "http://x", Timeout: "soon"}
	require.NoError(t, cfg.setCurrentProfile())
	assert.Equal(t, DefaultTimeout, cfg.GetTimeout())
}

func TestUseProfileMissing(t *testing.T) {
	cfg := defaultConfig("")
	assert.Error(t, cfg.UseProfile("nope"))
}
