package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	Port       int    `envconfig:"APP_PORT" default:"8085"`
	DB         DBConfig
	Generation GenerationConfig
	Gemini     GeminiConfig
	Vertex     VertexConfig
	OpenAI     OpenAIConfig
	RabbitMQ   RabbitMQConfig
	Limiter    RateLimiterConfig
	CORS       CORSConfig
}

// DBConfig accepts either a full DSN or, for MySQL, the individual parts the
// DSN is built from.
type DBConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"mysql"`
	DSN             string        `envconfig:"DB_DSN"`
	User            string        `envconfig:"DB_USER"`
	Password        string        `envconfig:"DB_PASS"`
	Name            string        `envconfig:"DB_NAME"`
	Host            string        `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"7"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type GenerationConfig struct {
	Provider     string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	Timeout      time.Duration `envconfig:"GENERATION_TIMEOUT" default:"60s"`
	MaxAttempts  int           `envconfig:"GENERATION_MAX_ATTEMPTS" default:"1"`
	RetryBackoff time.Duration `envconfig:"GENERATION_RETRY_BACKOFF" default:"1s"`
}

type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	BaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
}

type VertexConfig struct {
	ProjectID       string `envconfig:"VERTEX_PROJECT_ID"`
	Location        string `envconfig:"VERTEX_LOCATION" default:"us-central1"`
	Model           string `envconfig:"VERTEX_MODEL" default:"gemini-2.5-flash"`
	CredentialsFile string `envconfig:"VERTEX_CREDENTIALS_FILE"`
}

type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
}

type RabbitMQConfig struct {
	URL   string `envconfig:"RABBITMQ_URL"`
	Queue string `envconfig:"RABBITMQ_QUEUE" default:"jd_events"`
}

type RateLimiterConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"1"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"5"`
}

type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:8501"`
}

// Load reads .env (if present) and the environment, then validates the
// result. Missing required values are reported as an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}

	switch c.DB.Driver {
	case DriverMySQL:
		if c.DB.DSN == "" && (c.DB.User == "" || c.DB.Name == "") {
			return fmt.Errorf("DB_DSN or DB_USER and DB_NAME must be set for mysql")
		}
	case DriverPostgres, DriverSQLite:
		if c.DB.DSN == "" {
			return fmt.Errorf("DB_DSN must be set for %s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be one of: mysql, postgres, sqlite)", c.DB.Driver)
	}
	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)",
			c.DB.MaxIdleConns, c.DB.MaxOpenConns)
	}

	switch c.Generation.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set when LLM_PROVIDER=gemini")
		}
	case ProviderVertex:
		if c.Vertex.ProjectID == "" {
			return fmt.Errorf("VERTEX_PROJECT_ID must be set when LLM_PROVIDER=vertex")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER: %s (must be one of: gemini, vertex, openai)", c.Generation.Provider)
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.Generation.MaxAttempts < 1 {
		return fmt.Errorf("GENERATION_MAX_ATTEMPTS must be at least 1")
	}

	if c.Limiter.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be non-negative")
	}
	if c.Limiter.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseDSN returns the DSN for the configured driver. MySQL DSNs always
// get parseTime=true so DATETIME columns scan into time.Time.
func (c *Config) DatabaseDSN() (string, error) {
	if c.DB.Driver != DriverMySQL {
		return c.DB.DSN, nil
	}

	var mc *mysql.Config
	if c.DB.DSN != "" {
		parsed, err := mysql.ParseDSN(c.DB.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid DB_DSN: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = c.DB.User
		mc.Passwd = c.DB.Password
		mc.Net = "tcp"
		mc.Addr = c.DB.Host
		mc.DBName = c.DB.Name
		mc.Timeout = 30 * time.Second
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

// CORSOrigins returns the trimmed list of trusted origins.
func (c *Config) CORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, DB.Driver=%s, DB.MaxOpenConns=%d, DB.MaxIdleConns=%d, "+
		"Generation.Provider=%s, Generation.Timeout=%s, Generation.MaxAttempts=%d, "+
		"RabbitMQ.Enabled=%t, Limiter.Enabled=%t, Limiter.RPS=%.2f, CORS.Origins=%d}",
		c.Env, c.Port, c.DB.Driver, c.DB.MaxOpenConns, c.DB.MaxIdleConns,
		c.Generation.Provider, c.Generation.Timeout, c.Generation.MaxAttempts,
		c.RabbitMQ.URL != "", c.Limiter.Enabled, c.Limiter.RPS, len(c.CORS.TrustedOrigins))
}
