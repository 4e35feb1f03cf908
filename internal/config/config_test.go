package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
server:
  host: 0.0.0.0
  port: 8080
firebase:
  project_id: wotro-ci
jwt:
  secret: 0123456789abcdef0123456789abcdef
storage:
  upload_dir: ./uploads
  base_url: http://localhost:8080
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, baseYAML))
		require.NoError(t, err)

		assert.Equal(t, "mock", cfg.Storage.Type)
		assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, "wotro.events", cfg.RabbitMQ.Exchange)
		assert.Equal(t, "Africa/Abidjan", cfg.Booking.TimeZone)
		assert.Equal(t, 10, cfg.Booking.RequestsPerHour)
		assert.False(t, cfg.Booking.AllowSameDayTurnover)
		assert.Equal(t, "0 0 1 * * *", cfg.Scheduler.ExpireStalePending)
		assert.False(t, cfg.LedgerEnabled())
		assert.Equal(t, "", cfg.GetHealthAddress())
		assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("FIREBASE_PROJECT_ID", "wotro-prod")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USER", "wotro")
		t.Setenv("DB_NAME", "ledger")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load(writeConfig(t, baseYAML))
		require.NoError(t, err)

		assert.Equal(t, "wotro-prod", cfg.Firebase.ProjectID)
		assert.True(t, cfg.LedgerEnabled())
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres://wotro:@db.internal:5432/ledger?sslmode=disable", cfg.GetDatabaseConnectionString())
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("Short JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := Load(writeConfig(t, baseYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("GCS storage needs a bucket", func(t *testing.T) {
		_, err := Load(writeConfig(t, baseYAML+"  type: gcs\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage bucket")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("GET /api/v1/vehicles"))
	assert.Equal(t, SecurityRefresh, GetSecurityLevel("POST /api/v1/auth/refresh"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("GET /api/v1/admin/stats"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("POST /api/v1/bookings"))
}
