package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provisio/databag/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeSolo, cfg.Mode)
	assert.Equal(t, []string{"/var/databag/data_bags"}, cfg.DataBagPaths)
	assert.False(t, cfg.DryRun)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
mode = "server"
server_url = "https://config.example.com/"
data_bag_path = ["/srv/bags", "/srv/bags-override"]
dry_run = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "https://config.example.com", cfg.ServerURL, "trailing slash is trimmed")
	assert.Equal(t, []string{"/srv/bags", "/srv/bags-override"}, cfg.DataBagPaths)
	assert.True(t, cfg.DryRun)
}

func TestLoadSingleStringPath(t *testing.T) {
	path := writeConfig(t, `data_bag_path = "/srv/bags"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/bags"}, cfg.DataBagPaths)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadInvalidMode(t *testing.T) {
	path := writeConfig(t, `mode = "cluster"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadServerModeRequiresURL(t *testing.T) {
	path := writeConfig(t, `mode = "server"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `mode = "solo"`)
	t.Setenv("DATABAG_MODE", "server")
	t.Setenv("DATABAG_SERVER_URL", "https://env.example.com")
	t.Setenv("DATABAG_DRY_RUN", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.True(t, cfg.DryRun)
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	assert.Contains(t, content, "# mode = 'solo'")
	assert.Contains(t, content, "# dry_run = false")
	assert.NotContains(t, content, "\nmode =", "values must be commented out")
}
