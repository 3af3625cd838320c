package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level     string `yaml:"level" default:"info"`
		Format    string `yaml:"format" default:"console"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100"`
			Topic     string        `yaml:"topic" default:"error_logs"`
			Redis     struct {
				Addr      string `yaml:"addr" default:"localhost:6379"`
				Password  string `yaml:"password"`
				DB        int    `yaml:"db"`
				KeyPrefix string `yaml:"key_prefix" default:"kurelay:logs"`
			} `yaml:"redis"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	KuCoin KuCoin `yaml:"kucoin"`
}

// KuCoin holds upstream endpoint settings and the signing credentials.
type KuCoin struct {
	BaseURL       string        `yaml:"base_url" default:"https://api.kucoin.com"`
	Timeout       time.Duration `yaml:"timeout" default:"10s"`
	APIKey        string        `yaml:"api_key"`
	APISecret     string        `yaml:"api_secret"`
	APIPassphrase string        `yaml:"api_passphrase"`
	EncodeSymbol  bool          `yaml:"encode_symbol" default:"true"`
	DefaultSymbol string        `yaml:"default_symbol" default:"BTC-USDT"`
	DefaultDays   int           `yaml:"default_days" default:"1"`
	Limit         int           `yaml:"limit" default:"100"`
}

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// An empty path skips the file and starts from defaults.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("KUCOIN_API_KEY"); v != "" {
		c.KuCoin.APIKey = v
	}
	if v := getenv("KUCOIN_API_SECRET"); v != "" {
		c.KuCoin.APISecret = v
	}
	if v := getenv("KUCOIN_API_PASSPHRASE"); v != "" {
		c.KuCoin.APIPassphrase = v
	}
	if v := getenv("KUCOIN_BASE_URL"); v != "" {
		c.KuCoin.BaseURL = v
	}
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
}

// Validate checks if the configuration is valid.
// Missing KuCoin credentials are not an error here: the fills
// route reports them per request.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.KuCoin.BaseURL == "" {
		return fmt.Errorf("kucoin.base_url is required")
	}
	if u, err := url.Parse(c.KuCoin.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("kucoin.base_url must be an absolute URL, got '%s'", c.KuCoin.BaseURL)
	}
	if c.KuCoin.Timeout <= 0 {
		return fmt.Errorf("kucoin.timeout must be positive")
	}
	if c.KuCoin.DefaultDays < 1 {
		return fmt.Errorf("kucoin.default_days must be >= 1, got %d", c.KuCoin.DefaultDays)
	}
	if c.KuCoin.Limit < 1 {
		return fmt.Errorf("kucoin.limit must be >= 1, got %d", c.KuCoin.Limit)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got '%s'", c.Logging.Format)
	}
	if c.Logging.Collector.Enabled && c.Logging.Collector.Redis.Addr == "" {
		return fmt.Errorf("logging.collector.redis.addr is required when the collector is enabled")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
