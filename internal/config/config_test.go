package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "hub"
password = "secret"
dbname = "hub_booking"

[booking]
timezone = "Asia/Dhaka"
poll_interval = 7

[uploads]
dir = "/var/lib/hub/uploads"

[admin]
token = "from-file"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port, "default kept")
	assert.Equal(t, 7, cfg.Booking.PollInterval)
	assert.Equal(t, 10, cfg.Booking.PageSize)
	assert.Equal(t, "host=db port=5432 user=hub password=secret dbname=hub_booking sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Dhaka", loc.String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "from-env")
	t.Setenv("DB_PASSWORD", "env-secret")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.Equal(t, "env-secret", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[server]\nhttp_port = 8080\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
