package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, "petshop", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "petshop.yml")
	content := `
system:
  appid: petshop
  workdir: /tmp/petshop
web:
  host: 127.0.0.1
  port: 9090
database:
  type: sqlite
  name: petshop
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/tmp/petshop", cfg.System.Workdir)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PETSHOP_DB_HOST", "db.internal")
	t.Setenv("PETSHOP_WEB_SECRET", "override-secret")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "override-secret", cfg.Web.JwtSecret)
}
