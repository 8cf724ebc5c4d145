package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret-value")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "x-access-token", cfg.Auth.TokenHeader)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Jwt.Expiry)
	assert.Equal(t, "database", cfg.Whitelist.Driver)
	assert.Equal(t, time.Hour, cfg.Whitelist.SweepInterval)
	assert.Equal(t, "memory", cfg.Events.Driver)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Empty(t, cfg.Taxonomy.Path)
}

func TestLoad_RequiresJwtSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	t.Chdir(t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "AUTH_JWT_SECRET=from-file-secret\nDATABASE_DRIVER=sqlite\nDATABASE_URL=file.db\nWHITELIST_DRIVER=redis\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(content), 0o600))
	t.Chdir(dir)
	// godotenv does not override variables that are already set.
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	t.Setenv("DATABASE_DRIVER", "")
	require.NoError(t, os.Unsetenv("DATABASE_DRIVER"))
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Setenv("WHITELIST_DRIVER", "")
	require.NoError(t, os.Unsetenv("WHITELIST_DRIVER"))

	cfg, err := Load(".env.test")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "file.db", cfg.DB.Url)
	assert.Equal(t, "redis", cfg.Whitelist.Driver)
}

func TestFindEnv(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("X=1\n"), 0o600))
	t.Chdir(nested)

	found, err := FindEnv("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".env"), found)

	_, err = FindEnv("missing.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****5432", maskValue("postgres://host:5432"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SAVEBLUE_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnv("SAVEBLUE_TEST_VAR", "default"))
	assert.Equal(t, "default", GetEnv("SAVEBLUE_MISSING_VAR", "default"))
}
