package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rogersnm/contractme/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	fileName  = "config.yaml"
	envPrefix = "CONTRACTME"

	DefaultListen = "127.0.0.1:7420"
	DefaultServer = "http://" + DefaultListen
)

type Config struct {
	Server       string          `yaml:"server,omitempty" envconfig:"SERVER"`
	Listen       string          `yaml:"listen,omitempty" envconfig:"LISTEN"`
	LogLevel     string          `yaml:"log_level,omitempty" envconfig:"LOG_LEVEL"`
	LogFormat    string          `yaml:"log_format,omitempty" envconfig:"LOG_FORMAT"`
	Categories   []string        `yaml:"categories,omitempty" envconfig:"CATEGORIES"`
	RateLimit    RateLimitConfig `yaml:"rate_limit,omitempty" envconfig:"RATE_LIMIT"`
	RecentDays   int             `yaml:"recent_days,omitempty" envconfig:"RECENT_DAYS"`
	UpcomingDays int             `yaml:"upcoming_days,omitempty" envconfig:"UPCOMING_DAYS"`
}

// RateLimitConfig is the per-client token bucket. RPS <= 0 turns limiting off.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" envconfig:"RPS"`
	Burst int     `yaml:"burst" envconfig:"BURST"`
}

func Default() *Config {
	cats := make([]string, len(model.DefaultCategories))
	copy(cats, model.DefaultCategories)
	return &Config{
		Server:       DefaultServer,
		Listen:       DefaultListen,
		LogLevel:     "info",
		LogFormat:    "text",
		Categories:   cats,
		RateLimit:    RateLimitConfig{RPS: 20, Burst: 40},
		RecentDays:   7,
		UpcomingDays: 7,
	}
}

// Load builds the effective config: defaults, then config.yaml in dataDir,
// then a .env file in dataDir, then CONTRACTME_* environment variables.
func Load(dataDir string) (*Config, error) {
	cfg := Default()
	if err := readFile(dataDir, cfg); err != nil {
		return nil, err
	}

	_ = godotenv.Load(filepath.Join(dataDir, ".env"))
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads only config.yaml, without defaults or environment. Use it
// when the result is going to be saved back.
func LoadFile(dataDir string) (*Config, error) {
	cfg := &Config{}
	if err := readFile(dataDir, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(dataDir string, cfg *Config) error {
	path := filepath.Join(dataDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, fileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Keys lists the names accepted by Set.
var Keys = []string{
	"server", "listen", "log_level", "log_format", "categories",
	"rate_limit.rps", "rate_limit.burst", "recent_days", "upcoming_days",
}

// Set assigns one field by its YAML key. Categories take a comma-separated
// list.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "listen":
		c.Listen = value
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	case "categories":
		var cats []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cats = append(cats, s)
			}
		}
		c.Categories = cats
	case "rate_limit.rps":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.RateLimit.RPS = f
	case "rate_limit.burst", "recent_days", "upcoming_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "rate_limit.burst":
			c.RateLimit.Burst = n
		case "recent_days":
			c.RecentDays = n
		default:
			c.UpcomingDays = n
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
