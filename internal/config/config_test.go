package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.True(t, cfg.Database.LogSQL)
	assert.Equal(t, 30, cfg.JWT.AccessTokenMins)
	assert.Equal(t, "0 3 * * *", cfg.Cron.TokenCleanup)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("DEV_DB_HOST", "ignored")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.Database.LogSQL)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown mode", map[string]string{"APP_MODE": "staging"}},
		{"unknown driver", map[string]string{"APP_MODE": "dev", "DB_DRIVER": "oracle"}},
		{"prod without secret", map[string]string{"APP_MODE": "prod", "DB_DRIVER": "sqlite", "PROD_JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSNBuilders(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "n"}

	assert.Equal(t, "u:p@tcp(h:1)/n?charset=utf8mb4&parseTime=True&loc=Local", buildMySQLDSN(d))
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", buildPostgresDSN(d))
}

func TestBuildSQLiteDSNEnablesForeignKeys(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"library.db", "library.db?_foreign_keys=1"},
		{"file:library.db", "file:library.db?_foreign_keys=1"},
		{"file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared&_foreign_keys=1"},
		{"file:x?mode=memory&_foreign_keys=1", "file:x?mode=memory&_foreign_keys=1"},
		{"file:x?_fk=0", "file:x?_fk=0"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSQLiteDSN(DatabaseConfig{Path: tt.path}))
		})
	}
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := OpenDatabase(DatabaseConfig{
		Driver: DriverSQLite,
		Path:   "file:fkcheck?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}
