package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BuzzLyutic/project-tracker/internal/persist"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "STORE_DRIVER", "SQLITE_PATH", "STORE_KEY", "CURRENT_USER_KEY", "TEAM_MEMBERS", "PERSIST_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "data/tracker.db", cfg.SQLitePath)
	assert.Equal(t, persist.DefaultSnapshotKey, cfg.SnapshotKey)
	assert.Equal(t, persist.DefaultCurrentUserKey, cfg.CurrentUserKey)
	assert.Empty(t, cfg.Team)
	assert.Equal(t, 2*time.Second, cfg.PersistTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("TEAM_MEMBERS", " Maya Li, ,Kai Patel ")
	t.Setenv("PERSIST_TIMEOUT", "500ms")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"Maya Li", "Kai Patel"}, cfg.Team)
	assert.Equal(t, 500*time.Millisecond, cfg.PersistTimeout)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("PERSIST_TIMEOUT", "soon")

	assert.Equal(t, 2*time.Second, Load().PersistTimeout)
}

func TestLoad_KeyOverrides(t *testing.T) {
	t.Setenv("STORE_KEY", "tracker.snapshot")
	t.Setenv("CURRENT_USER_KEY", "tracker.user")

	cfg := Load()

	assert.Equal(t, "tracker.snapshot", cfg.SnapshotKey)
	assert.Equal(t, "tracker.user", cfg.CurrentUserKey)
}
