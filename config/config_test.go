package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db?_foreign_keys=1", cfg.DSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_PostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "evep_test")

	cfg := Load()
	assert.Contains(t, cfg.DSN(), "host=db ")
	assert.Contains(t, cfg.DSN(), "dbname=evep_test ")
}

func TestLoadConsole(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://gateway:8080/
timeout_seconds: 5
services:
  master-data: http://geo:8014/
`), 0o644))
	t.Setenv("EVEP_BASE_URL", "")
	t.Setenv("EVEP_HOSPITALS_URL", "http://hospitals:8020")

	cfg, err := LoadConsole(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
	assert.Equal(t, "http://geo:8014", cfg.URL(ServiceMasterData))
	assert.Equal(t, "http://hospitals:8020", cfg.URL(ServiceHospitals))
	assert.Equal(t, "http://gateway:8080", cfg.URL(ServicePatients))
}

func TestLoadConsole_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("EVEP_BASE_URL", "")
	cfg, err := LoadConsole(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.URL(ServiceAuth))
}

func TestLoadConsole_UnknownService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  billing: http://x\n"), 0o644))
	_, err := LoadConsole(path)
	assert.ErrorContains(t, err, "billing")
}
