package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_SubstitutesEnvironment(t *testing.T) {
	t.Setenv("MENU_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
host: menus.example.com
basePath: /api/v1
database:
  source: postgres://menus:{{ .MENU_DB_PASSWORD }}@db:5432/menus?sslmode=disable
pulsar:
  url: pulsar://pulsar:6650
  topicProducer: menu-changes
aws:
  region: eu-west-2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "menus.example.com", cfg.Host)
	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, "postgres://menus:s3cret@db:5432/menus?sslmode=disable", cfg.Database.Source)
	assert.Equal(t, "menu-changes", cfg.Pulsar.TopicProducer)
	assert.Equal(t, "eu-west-2", cfg.AWS.Region)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "host: localhost\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBasePath, cfg.BasePath)
	assert.Equal(t, DefaultDocsPath, cfg.DocsPath)
	assert.Equal(t, DefaultMetricsPath, cfg.MetricsPath)
	assert.Equal(t, DefaultAdminRole, cfg.Auth.AdminRole)
	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, "22", cfg.Tunnel.SSHPort)
}

func TestLoadConfig_MissingPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
