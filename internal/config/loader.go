package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thruflo/rota/internal/logging"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultConfigPath    = "rota.yaml"
	DefaultServerPort    = 8374
	DefaultTokenTTL      = 24 * time.Hour
	DefaultRPS           = 20.0
	DefaultBurst         = 40
	DefaultLoginAttempts = 5
	DefaultLoginWindow   = time.Minute
	DefaultLoginBlocks   = 10
	DefaultLoginBlock    = 5 * time.Minute
	DefaultBranch        = "Grand Diamond"
	DefaultCredit        = "Chan. J (Chanon Jaimool)"
	DefaultLogLevel      = "warn"
	passwordHashPrefix   = "$argon2id$"
	maxUsernameLength    = 64
	maxDisplayNameLength = 128
)

// DefaultServerConfig returns a ServerConfig with sensible default values.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:     DefaultServerPort,
		TokenTTL: DefaultTokenTTL,
		RateLimit: RateLimitConfig{
			RPS:   DefaultRPS,
			Burst: DefaultBurst,
		},
		Login: LoginLimit{
			MaxAttempts:   DefaultLoginAttempts,
			Window:        DefaultLoginWindow,
			BlockAfter:    DefaultLoginBlocks,
			BlockDuration: DefaultLoginBlock,
		},
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Server: DefaultServerConfig(),
		Branding: Branding{
			Branch: DefaultBranch,
			Credit: DefaultCredit,
		},
		LogLevel: DefaultLogLevel,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses the config file at path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML config data over the defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if err := ValidateServerConfig(&cfg.Server); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	return ValidateUsers(cfg.Users)
}

// ValidateServerConfig checks that server config values are valid.
func ValidateServerConfig(cfg *ServerConfig) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return ValidationError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	if cfg.TokenTTL <= 0 {
		return ValidationError{Field: "server.token_ttl", Message: "must be positive"}
	}
	if cfg.RateLimit.RPS <= 0 {
		return ValidationError{Field: "server.rate_limit.rps", Message: "must be positive"}
	}
	if cfg.RateLimit.Burst <= 0 {
		return ValidationError{Field: "server.rate_limit.burst", Message: "must be positive"}
	}
	if cfg.Login.MaxAttempts <= 0 {
		return ValidationError{Field: "server.login_limit.max_attempts", Message: "must be positive"}
	}
	if cfg.Login.Window <= 0 {
		return ValidationError{Field: "server.login_limit.window", Message: "must be positive"}
	}
	if cfg.Login.BlockAfter <= 0 {
		return ValidationError{Field: "server.login_limit.block_after", Message: "must be positive"}
	}
	if cfg.Login.BlockDuration <= 0 {
		return ValidationError{Field: "server.login_limit.block_duration", Message: "must be positive"}
	}
	return nil
}

// ValidateUsers checks the user directory: usernames are present and
// unique, and every password is an argon2id hash.
func ValidateUsers(users []User) error {
	seen := make(map[string]bool, len(users))
	for i, u := range users {
		field := fmt.Sprintf("users[%d]", i)
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return ValidationError{Field: field + ".username", Message: "required field is empty"}
		}
		if name != u.Username {
			return ValidationError{Field: field + ".username", Message: "must not have surrounding whitespace"}
		}
		if len(name) > maxUsernameLength {
			return ValidationError{Field: field + ".username", Message: fmt.Sprintf("must be at most %d characters", maxUsernameLength)}
		}
		if seen[name] {
			return ValidationError{Field: field + ".username", Message: fmt.Sprintf("duplicate username %q", name)}
		}
		seen[name] = true

		if len(u.DisplayName) > maxDisplayNameLength {
			return ValidationError{Field: field + ".display_name", Message: fmt.Sprintf("must be at most %d characters", maxDisplayNameLength)}
		}
		if !strings.HasPrefix(u.PasswordHash, passwordHashPrefix) {
			return ValidationError{Field: field + ".password_hash", Message: "must be an argon2id hash"}
		}
		if u.Shift != nil && strings.TrimSpace(u.Shift.Group) == "" {
			return ValidationError{Field: field + ".shift.group", Message: "required field is empty"}
		}
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
