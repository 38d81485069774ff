package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bam/internal/config"
)

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BAM_CONFIG_DIR", dir)
	path := filepath.Join(dir, "config.toml")

	stdout, _, err := executeCommand("config", "init")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path, strings.TrimSpace(stdout))

	cfg, err := config.NewConfigServiceForPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, _, err = executeCommand("config", "init")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)

	_, _, err = executeCommand("config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInitIgnoresBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("apps_dir = ["), 0644))

	_, _, err := executeCommand("--config", path, "config", "init", "--force")
	require.NoError(t, err)

	_, err = config.NewConfigServiceForPath(path).Load()
	assert.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BAM_CONFIG_DIR", dir)

	stdout, _, err := executeCommand("config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), strings.TrimSpace(stdout))

	stdout, _, err = executeCommand("--config", "/etc/bam.toml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/etc/bam.toml", strings.TrimSpace(stdout))
}
