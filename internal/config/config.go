// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Upstream: Tako API base URL and API key
//   - Embed: public base URL used to build interactive chart embeds
//   - Serve: bind address and transport-security settings for HTTP mode
//
// Security: the API key is never logged; Config masks it in MarshalJSON.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAPIKey indicates TAKO_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing Tako API key")

	// ErrInvalidBaseURL indicates an upstream or public base URL is malformed.
	ErrInvalidBaseURL = errors.New("invalid base URL")

	// ErrInvalidPort indicates the serve port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidHost indicates the serve bind host is empty.
	ErrInvalidHost = errors.New("invalid host")
)

const (
	// DefaultAPIURL is the Tako API endpoint used when TAKO_API_URL is unset.
	DefaultAPIURL = "https://api.trytako.com"

	// DefaultPublicBaseURL is the public site used to build embed URLs.
	DefaultPublicBaseURL = "https://trytako.com"

	// DefaultPort is the default HTTP listen port for serve mode.
	DefaultPort = 8001
)

// Config stores application configuration.
// SECURITY: APIKey is explicitly masked in MarshalJSON().
type Config struct {
	// Upstream Tako API
	APIURL string `mapstructure:"api_url" json:"api_url"`
	APIKey string `mapstructure:"api_key" json:"api_key"` // SENSITIVE: masked in MarshalJSON

	// Public site used for interactive chart embeds
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`

	// HTTP serve mode
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`

	// Transport security (serve mode only)
	AllowedHosts       []string `mapstructure:"allowed_hosts" json:"allowed_hosts"`
	EnableDNSRebinding bool     `mapstructure:"enable_dns_rebinding" json:"enable_dns_rebinding"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Trailing slashes would double up when joining endpoint paths.
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("public_base_url", DefaultPublicBaseURL)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("enable_dns_rebinding", true)
}

// bindEnvVariables binds environment variables explicitly.
// The env names match the ones the hosted Tako MCP deployments use, so a
// config file is never required.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("api_key", "TAKO_API_KEY")
	mustBind("api_url", "TAKO_API_URL")
	mustBind("public_base_url", "PUBLIC_BASE_URL")
	mustBind("host", "HOST")
	mustBind("port", "PORT")
	mustBind("allowed_hosts", "MCP_ALLOWED_HOSTS")
	mustBind("enable_dns_rebinding", "MCP_ENABLE_DNS_REBINDING")
}

// Validate checks fields required by every mode.
// A missing API key is fatal: the server must never start and then fail
// every tool call with an auth error.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: set TAKO_API_KEY", ErrMissingAPIKey)
	}
	if err := validateBaseURL(c.APIURL); err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if err := validateBaseURL(c.PublicBaseURL); err != nil {
		return fmt.Errorf("public_base_url: %w", err)
	}
	return nil
}

// ValidateServe checks additional fields required by HTTP serve mode.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Host == "" {
		return ErrInvalidHost
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}
	return nil
}

// AllowedHostList splits comma-separated entries so MCP_ALLOWED_HOSTS can be
// given either as a YAML list or as "a.example.com,b.example.com".
func (c *Config) AllowedHostList() []string {
	var hosts []string
	for _, entry := range c.AllowedHosts {
		for _, h := range strings.Split(entry, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hosts = append(hosts, h)
			}
		}
	}
	return hosts
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q (scheme must be http or https)", ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q (missing host)", ErrInvalidBaseURL, raw)
	}
	return nil
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Fully masks short secrets to prevent substring matching; longer secrets
// keep the first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
