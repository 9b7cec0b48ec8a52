package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Studio   StudioConfig   `toml:"studio"`
	Database DatabaseConfig `toml:"database"`
	Feedback FeedbackConfig `toml:"feedback"`
	Telegram TelegramConfig `toml:"telegram"`
	Parse    ParseConfig    `toml:"parse"`
	Server   ServerConfig   `toml:"server"`
}

// StudioConfig contains studio branding and token conversion rates.
//
// Rates are keyed by platform name; platforms without an entry use DefaultRate.
type StudioConfig struct {
	Name        string             `toml:"name"`
	DefaultRate float64            `toml:"default_rate"`
	Rates       map[string]float64 `toml:"rates"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FeedbackConfig configures the text-generation service used for end-of-shift feedback.
type FeedbackConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout, defaulting to 20 seconds.
func (f FeedbackConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// TelegramConfig contains messaging host settings.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	AppURL   string `toml:"app_url"`
	InitData string `toml:"init_data"`
	// MaxAgeHours bounds how old a signed init data payload may be; 0 disables the check.
	MaxAgeHours int `toml:"max_age_hours"`
}

// MaxAge returns MaxAgeHours as a duration.
func (t TelegramConfig) MaxAge() time.Duration {
	return time.Duration(t.MaxAgeHours) * time.Hour
}

// ParseConfig contains credentials for the remote object store used by the admin connectivity check.
type ParseConfig struct {
	ServerURL string `toml:"server_url"`
	AppID     string `toml:"app_id"`
	RESTKey   string `toml:"rest_key"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides secrets from the environment.
//
// GEMINI_API_KEY wins over API_KEY; PRIMA_BOT_TOKEN and PRIMA_INIT_DATA fill the Telegram section.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if key := getenv("GEMINI_API_KEY"); key != "" {
		c.Feedback.APIKey = key
	} else if key := getenv("API_KEY"); key != "" {
		c.Feedback.APIKey = key
	}
	if token := getenv("PRIMA_BOT_TOKEN"); token != "" {
		c.Telegram.BotToken = token
	}
	if data := getenv("PRIMA_INIT_DATA"); data != "" {
		c.Telegram.InitData = data
	}
}
