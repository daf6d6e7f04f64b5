package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lingopath/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STORE_URL", "https://project.supabase.co")
	t.Setenv("STORE_SERVICE_KEY", "service-key")
	t.Setenv("MODEL_API_KEY", "model-key")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverREST, cfg.Store.Driver)
	assert.False(t, cfg.Store.RunMigrations)
	assert.False(t, cfg.UsesSQL())
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 180*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Model.CallDelay)
	assert.Equal(t, 0, cfg.Model.RequestsPerMinute)
	assert.Equal(t, 5, cfg.Model.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Model.RetryBackoff)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	keys := []string{"STORE_URL", "STORE_SERVICE_KEY", "MODEL_API_KEY"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			t.Setenv(key, "")

			cfg, err := Load()

			assert.Nil(t, cfg)
			var cfgErr *apperr.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, key, cfgErr.Key)
		})
	}
}

func TestLoadServer_NoModelKey(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("MODEL_API_KEY", "")

	cfg, err := LoadServer()

	require.NoError(t, err)
	assert.Empty(t, cfg.Model.APIKey)

	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("STORE_DRIVER", "SQLite3")
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("MODEL_REQUESTS_PER_MINUTE", "2")
	t.Setenv("MODEL_CALL_DELAY_SECONDS", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.True(t, cfg.Store.RunMigrations)
	assert.True(t, cfg.UsesSQL())
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, 2, cfg.Model.RequestsPerMinute)
	assert.Equal(t, time.Duration(0), cfg.Model.CallDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORE_DRIVER", "oracle"},
		{"MODEL_MAX_ATTEMPTS", "five"},
		{"MODEL_TIMEOUT_SECONDS", "-1"},
		{"RUN_MIGRATIONS", "maybe"},
		{"SERVER_PORT", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			var cfgErr *apperr.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := "STORE_URL=postgres://localhost/course\nSTORE_SERVICE_KEY=k\nMODEL_API_KEY=m\nSTORE_DRIVER=postgres\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	for _, key := range []string{"STORE_URL", "STORE_SERVICE_KEY", "MODEL_API_KEY", "STORE_DRIVER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/course", cfg.Store.URL)
}

func TestLoadPaths(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		paths, err := LoadPaths("")
		require.NoError(t, err)
		require.Len(t, paths, 2)
		for _, p := range paths {
			assert.NoError(t, p.Validate())
		}
	})

	t.Run("file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "paths.yaml")
		content := `paths:
  - language: Tiếng Anh
    start_level: A2
    target_level: B1
    units: 1
    skills_per_unit: 1
    lessons_per_skill: 2
    title:
      vi: Tiếng Anh A2 lên B1
      en: English A2 to B1
`
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

		paths, err := LoadPaths(file)

		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "Tiếng Anh", paths[0].Language)
		assert.Equal(t, 2, paths[0].LessonsPerSkill)
		assert.Equal(t, "English A2 to B1", paths[0].Title.EN)
	})

	t.Run("invalid", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "paths.yaml")
		require.NoError(t, os.WriteFile(file, []byte("paths:\n  - language: Tiếng Anh\n    units: 0\n"), 0o600))

		_, err := LoadPaths(file)

		var cfgErr *apperr.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPaths(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
