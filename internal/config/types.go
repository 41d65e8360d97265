package config

import "time"

// Config represents the rota.yaml file.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Branding Branding     `yaml:"branding"`
	LogLevel string       `yaml:"log_level"`
	Users    []User       `yaml:"users,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host      string          `yaml:"host,omitempty"`
	Port      int             `yaml:"port"`
	TokenTTL  time.Duration   `yaml:"token_ttl"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Login     LoginLimit      `yaml:"login_limit"`
}

// RateLimitConfig is the token bucket applied to every RPC call.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoginLimit bounds login attempts per client IP. After BlockAfter
// consecutive failures the IP is blocked for BlockDuration, doubling with
// each further block.
type LoginLimit struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	Window        time.Duration `yaml:"window"`
	BlockAfter    int           `yaml:"block_after"`
	BlockDuration time.Duration `yaml:"block_duration"`
}

// Branding holds the strings shown on the login page.
type Branding struct {
	Branch string `yaml:"branch"`
	Credit string `yaml:"credit"`
}

// User is a directory entry. PasswordHash is an argon2id hash as produced
// by `rota hash-password`.
type User struct {
	Username     string `yaml:"username"`
	DisplayName  string `yaml:"display_name,omitempty"`
	PasswordHash string `yaml:"password_hash"`
	Shift        *Shift `yaml:"shift,omitempty"`
}

// Shift is the working shift assigned to a user.
type Shift struct {
	Group string `yaml:"group"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}
