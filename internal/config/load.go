package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every structured environment variable,
// e.g. INTERNBOOK_AUTH_JWT_SECRET.
const envPrefix = "INTERNBOOK"

// legacyEnv maps config keys to the unprefixed variable names used by the
// original deployment. Structured names win when both are set.
var legacyEnv = map[string][]string{
	"server.port":        {"PORT"},
	"server.environment": {"APP_ENV", "NODE_ENV"},
	"database.url":       {"DATABASE_URL", "MONGODB_URI"},
	"auth.jwt_secret":    {"JWT_SECRET"},
}

// Load configuration from defaults, an optional config file and environment
// variables. Environment variables take precedence over values from the file.
// An empty path skips file loading.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation over cfg.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.workers", 0)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.metrics_addr", "")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.clock_skew_seconds", 0)
	v.SetDefault("auth.bcrypt_cost", 10)
}

// bindEnv binds every key explicitly. AutomaticEnv alone does not make
// Unmarshal see keys that have no default or file value.
func bindEnv(v *viper.Viper) error {
	keys := []string{
		"server.port", "server.log_level", "server.environment", "server.workers",
		"server.shutdown_timeout_seconds", "server.metrics_addr",
		"database.url", "database.max_open_conns", "database.max_idle_conns",
		"auth.jwt_secret", "auth.token_lifetime_minutes", "auth.clock_skew_seconds",
		"auth.bcrypt_cost",
	}

	for _, key := range keys {
		structured := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names := append([]string{key, structured}, legacyEnv[key]...)
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}
