package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  port: "8080"
  environment: test
  allowed_cors_domains:
    - http://localhost:3000
  jwt_signing_key: secret
gin:
  mode: test
postgres:
  host: db
  port: "5432"
  user: app
  password: pw
  db: campaigns
scheduler:
  lifecycle_interval: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("reads file and applies defaults", func(t *testing.T) {
		conf, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)

		assert.Equal(t, "8080", conf.API.Port)
		assert.Equal(t, "test", conf.API.Environment)
		assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
		assert.Equal(t, "test", conf.Gin.Mode)
		assert.Equal(t, "disable", conf.Postgres.SSLMode)
		assert.True(t, conf.Scheduler.Enabled)
		assert.Equal(t, 30*time.Second, conf.Scheduler.LifecycleInterval)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("API_PORT", "9090")
		t.Setenv("POSTGRES_HOST", "override")

		conf, err := Load(writeConfig(t, testConfig))
		require.NoError(t, err)

		assert.Equal(t, "9090", conf.API.Port)
		assert.Equal(t, "override", conf.Postgres.Host)
	})

	t.Run("missing signing key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_signing_key")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{Host: "h", Port: "1", User: "u", Password: "p", DB: "d"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
