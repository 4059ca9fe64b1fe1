// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Workers  int     `yaml:"workers"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port          int           `yaml:"port"`
	APIKey        string        `yaml:"api_key"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AliExpressConfig carries the affiliate API contract: the signing
// credentials, the operator's tracking identifier and the request shape
// knobs. Together with the bot token these are the four secrets that must be
// present at startup.
type AliExpressConfig struct {
	AppKey            string        `yaml:"app_key"`
	AppSecret         string        `yaml:"app_secret"`
	TrackingID        string        `yaml:"tracking_id"`
	BaseURL           string        `yaml:"base_url"`
	PromotionLinkType string        `yaml:"promotion_link_type"` // "0" PC, "2" mobile
	Timeout           time.Duration `yaml:"timeout"`
	EnrichDetails     bool          `yaml:"enrich_details"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Log        LogConfig        `yaml:"log"`
	Admin      AdminConfig      `yaml:"admin"`
	Redis      RedisConfig      `yaml:"redis"`
	AliExpress AliExpressConfig `yaml:"aliexpress"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AliExpress.BaseURL == "" {
		cfg.AliExpress.BaseURL = "https://api-sg.aliexpress.com/sync"
	}
	if cfg.AliExpress.PromotionLinkType == "" {
		// Mobile links carry the coin-discount mechanics; desktop ones do not.
		cfg.AliExpress.PromotionLinkType = "2"
	}
	if cfg.AliExpress.Timeout <= 0 {
		cfg.AliExpress.Timeout = 10 * time.Second
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}

	// Required secrets: missing any is a startup failure, never a per-request
	// error.
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.AliExpress.AppKey == "" {
		return nil, errors.New("aliexpress.app_key is required")
	}
	if cfg.AliExpress.AppSecret == "" {
		return nil, errors.New("aliexpress.app_secret is required")
	}
	if cfg.AliExpress.TrackingID == "" {
		return nil, errors.New("aliexpress.tracking_id is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
