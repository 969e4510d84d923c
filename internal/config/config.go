package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/0xsarwagya/thahrav-new/pkg/config"
)

// Config holds all configuration for the storefront service. The required
// fields have no defaults: a missing value fails startup immediately.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Database. SupabaseURL is a Postgres connection URL; the service role
	// key is injected as the connection password.
	SupabaseURL        string `env:"SUPABASE_URL,required"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY,required"`

	// Session signing and verification token hashing.
	AuthSecret string `env:"AUTH_SECRET,required"`

	// Outbound mail for magic links.
	SMTPHost     string `env:"SMTP_HOST,required"`
	SMTPPort     int    `env:"SMTP_PORT,required"`
	SMTPUser     string `env:"SMTP_USER,required"`
	SMTPPassword string `env:"SMTP_PASSWORD,required"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"noreply@thahrav.store"`

	// Controls cookie security attributes, among other things.
	IsProduction bool `env:"IS_PRODUCTION,required"`

	// Redis session store
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka domain events. Empty brokers disables publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Tracing
	OTLPEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", cfg.SMTPPort)
	}
	if _, err := url.ParseRequestURI(cfg.SupabaseURL); err != nil {
		return nil, fmt.Errorf("SUPABASE_URL is not a valid URL: %w", err)
	}
	if cfg.IsProduction && len(cfg.AuthSecret) < 32 {
		return nil, fmt.Errorf("AUTH_SECRET must be at least 32 characters long in production, got %d", len(cfg.AuthSecret))
	}
	return cfg, nil
}

// PostgresDSN returns the database connection string: the Supabase project
// URL with the service role key substituted in as the password.
func (c *Config) PostgresDSN() string {
	u, err := url.Parse(c.SupabaseURL)
	if err != nil {
		return c.SupabaseURL
	}
	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, c.SupabaseServiceKey)
	return u.String()
}

// RedisAddr returns the Redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
