package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/pkg/database"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &database.Config{Name: "registry", User: "registry"}

	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxLifetimeDuration())
	assert.Equal(t, 5*time.Second, cfg.ConnTimeoutDuration())
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "envhost")
	t.Setenv("TEST_DB_PORT", "5434")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_TIMEOUT", "30s")

	cfg := &database.Config{}
	env := &database.Env{
		Host:        "TEST_DB_HOST",
		Port:        "TEST_DB_PORT",
		Name:        "TEST_DB_NAME",
		User:        "TEST_DB_USER",
		ConnTimeout: "TEST_DB_TIMEOUT",
	}

	require.NoError(t, cfg.Finalize(env))

	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, 5434, cfg.Port)
	assert.Equal(t, "envdb", cfg.Name)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "30s", cfg.ConnTimeout)
}

func TestConfig_Finalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "user"}, "name required"},
		{"missing user", database.Config{Name: "db"}, "user required"},
		{"invalid conn_max_lifetime", database.Config{Name: "db", User: "user", ConnMaxLifetime: "invalid"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{Name: "db", User: "user", ConnTimeout: "invalid"}, "invalid conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "db1", User: "user1", MaxOpenConns: 25}
	base.Merge(&database.Config{Host: "remotehost", Port: 5433})

	assert.Equal(t, "remotehost", base.Host)
	assert.Equal(t, 5433, base.Port)
	assert.Equal(t, "db1", base.Name)
	assert.Equal(t, "user1", base.User)
	assert.Equal(t, 25, base.MaxOpenConns)
}

func TestConfig_Dsn(t *testing.T) {
	cfg := &database.Config{Host: "localhost", Port: 5432, Name: "testdb", User: "testuser", Password: "secret"}

	assert.Equal(t,
		"host=localhost port=5432 dbname=testdb user=testuser password=secret sslmode=disable",
		cfg.Dsn(),
	)
}

func TestConfig_MigrationURL(t *testing.T) {
	cfg := &database.Config{Host: "db", Port: 5433, Name: "registry", User: "app", Password: "p@ss"}

	assert.Equal(t, "pgx5://app:p%40ss@db:5433/registry?sslmode=disable", cfg.MigrationURL())
}

func TestConfig_SSLMode(t *testing.T) {
	t.Setenv("TEST_DB_SSLMODE", "verify-full")

	cfg := &database.Config{Name: "registry", User: "app"}
	require.NoError(t, cfg.Finalize(&database.Env{SSLMode: "TEST_DB_SSLMODE"}))

	assert.Contains(t, cfg.Dsn(), "sslmode=verify-full")
	assert.Equal(t, "pgx5://app:@localhost:5432/registry?sslmode=verify-full", cfg.MigrationURL())

	bad := &database.Config{Name: "registry", User: "app", SSLMode: "sometimes"}
	assert.ErrorContains(t, bad.Finalize(nil), "invalid sslmode")

	pool := &database.Config{Name: "registry", User: "app", MaxOpenConns: 2, MaxIdleConns: 4}
	assert.ErrorContains(t, pool.Finalize(nil), "max_idle_conns")
}
