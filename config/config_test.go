package config

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Port)
	assert.Equal(t, ":8085", cfg.ServerAddr())
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 1, cfg.Generation.MaxAttempts)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "jd_events", cfg.RabbitMQ.Queue)
	assert.Equal(t, []string{"http://localhost:8501"}, cfg.CORSOrigins())
	assert.True(t, cfg.Limiter.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GENERATION_TIMEOUT", "15s")
	t.Setenv("GENERATION_MAX_ATTEMPTS", "3")
	t.Setenv("CORS_TRUSTED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddr())
	assert.Equal(t, 15*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing gemini key",
			env:     map[string]string{"GEMINI_API_KEY": ""},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "openai without key",
			env:     map[string]string{"LLM_PROVIDER": "openai"},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "vertex without project",
			env:     map[string]string{"LLM_PROVIDER": "vertex"},
			wantErr: "VERTEX_PROJECT_ID",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"LLM_PROVIDER": "llama"},
			wantErr: "invalid LLM_PROVIDER",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "oracle"},
			wantErr: "invalid DB_DRIVER",
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"DB_DRIVER": "postgres", "DB_DSN": ""},
			wantErr: "DB_DSN must be set",
		},
		{
			name:    "mysql without parts",
			env:     map[string]string{"DB_DRIVER": "mysql", "DB_DSN": ""},
			wantErr: "DB_USER and DB_NAME",
		},
		{
			name:    "bad env",
			env:     map[string]string{"APP_ENV": "qa"},
			wantErr: "invalid environment",
		},
		{
			name:    "idle above open",
			env:     map[string]string{"DB_MAX_OPEN_CONNS": "2", "DB_MAX_IDLE_CONNS": "3"},
			wantErr: "DB_MAX_IDLE_CONNS",
		},
		{
			name:    "zero attempts",
			env:     map[string]string{"GENERATION_MAX_ATTEMPTS": "0"},
			wantErr: "GENERATION_MAX_ATTEMPTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("built from parts", func(t *testing.T) {
		cfg := &Config{DB: DBConfig{Driver: DriverMySQL, User: "jd", Password: "secret", Name: "jd_db", Host: "db:3306"}}
		dsn, err := cfg.DatabaseDSN()
		require.NoError(t, err)

		parsed, err := mysql.ParseDSN(dsn)
		require.NoError(t, err)
		assert.Equal(t, "jd", parsed.User)
		assert.Equal(t, "db:3306", parsed.Addr)
		assert.Equal(t, "jd_db", parsed.DBName)
		assert.True(t, parsed.ParseTime)
	})

	t.Run("parseTime forced on", func(t *testing.T) {
		cfg := &Config{DB: DBConfig{Driver: DriverMySQL, DSN: "u:p@tcp(localhost:3306)/jd"}}
		dsn, err := cfg.DatabaseDSN()
		require.NoError(t, err)

		parsed, err := mysql.ParseDSN(dsn)
		require.NoError(t, err)
		assert.True(t, parsed.ParseTime)
	})

	t.Run("other drivers pass through", func(t *testing.T) {
		cfg := &Config{DB: DBConfig{Driver: DriverPostgres, DSN: "host=localhost user=jd"}}
		dsn, err := cfg.DatabaseDSN()
		require.NoError(t, err)
		assert.Equal(t, "host=localhost user=jd", dsn)
	})
}
