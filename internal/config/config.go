package config

// EnvProduction is the deployment mode in which the worker supervisor is
// skipped and a single process serves the API.
const EnvProduction = "production"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Environment selects the deployment mode. Anything other than
	// "production" runs the multi-process supervisor.
	Environment string `mapstructure:"environment" validate:"required"`

	// Workers overrides the number of worker processes. Zero means one per CPU.
	Workers int `mapstructure:"workers" validate:"gte=0"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`

	// MetricsAddr is where the supervisor exposes its own metrics. Empty disables it.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`

	// ClockSkewSeconds is the leeway applied to exp/iat checks.
	ClockSkewSeconds int `mapstructure:"clock_skew_seconds" validate:"gte=0"`

	BCryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}
