package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sayddii/TwitchNotify/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPollInterval      = 300 * time.Second
	DefaultKeepAliveInterval = 240 * time.Second
	DefaultRequestTimeout    = 10 * time.Second
	DefaultPort              = "8080"
	DefaultNATSTopic         = "twitchnotify"
)

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type TwitchConfig struct {
	ClientID   string
	OAuthToken string
	UserID     string
}

type RenderConfig struct {
	Enabled          bool
	ExternalHostname string
}

type PluginConfig struct {
	Enabled      bool   `yaml:"enabled"`
	PathToPlugin string `yaml:"path"`
}

type NATSConfig struct {
	Host  string `yaml:"host"`
	Topic string `yaml:"topic"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Notifier struct {
		Verbose           bool          `yaml:"verbose"`
		PollInterval      time.Duration `yaml:"poll_interval"`
		KeepAliveInterval time.Duration `yaml:"keepalive_interval"`
		RequestTimeout    time.Duration `yaml:"request_timeout"`
		LogFormat         string        `yaml:"log_format"`
	} `yaml:"notifier"`
	Plugins PluginConfig  `yaml:"plugins"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`

	Telegram TelegramConfig `yaml:"-"`
	Twitch   TwitchConfig   `yaml:"-"`
	Render   RenderConfig   `yaml:"-"`
	Port     string         `yaml:"-"`
}

// MissingError lists every required environment variable that was not set.
type MissingError struct {
	Vars []string
}

func (err *MissingError) Error() string {
	return fmt.Sprintf("missing environment variable(s): %s", strings.Join(err.Vars, ", "))
}

// New loads the service configuration from the environment (seeded from .env
// when present) and the optional YAML file named by CONFIG.
func New() (*Config, error) {
	log.Debugf("Loading the service configuration")
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Debugf("Config loaded successfully")
	return cfg, nil
}

func (cfg *Config) loadFile() error {
	configFile := os.Getenv("CONFIG")
	explicit := configFile != ""
	if !explicit {
		configFile = "config.yaml"
	}

	configBytes, err := os.ReadFile(configFile)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config load error: %w", err)
	}

	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		return fmt.Errorf("yaml unmarshalling error: %w", err)
	}
	return nil
}

func (cfg *Config) loadEnv() error {
	var missing []string
	require := func(name string) string {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			missing = append(missing, name)
		}
		return v
	}

	cfg.Telegram.BotToken = require("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = require("TELEGRAM_CHAT_ID")
	cfg.Twitch.ClientID = require("TWITCH_CLIENT_ID")
	cfg.Twitch.OAuthToken = strings.TrimPrefix(require("TWITCH_OAUTH_TOKEN"), "oauth:")
	cfg.Twitch.UserID = require("TWITCH_USER_ID")

	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}

	_, cfg.Render.Enabled = os.LookupEnv("RENDER")
	cfg.Render.ExternalHostname = os.Getenv("RENDER_EXTERNAL_HOSTNAME")
	cfg.Port = os.Getenv("PORT")

	switch strings.ToLower(os.Getenv("VERBOSE")) {
	case "1", "true", "yes":
		cfg.Notifier.Verbose = true
	}

	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Notifier.PollInterval <= 0 {
		cfg.Notifier.PollInterval = DefaultPollInterval
	}
	if cfg.Notifier.KeepAliveInterval <= 0 {
		cfg.Notifier.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if cfg.Notifier.RequestTimeout <= 0 {
		cfg.Notifier.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.NATS.Topic == "" {
		cfg.NATS.Topic = DefaultNATSTopic
	}
}

func (cfg *Config) validate() error {
	if cfg.Plugins.Enabled && cfg.Plugins.PathToPlugin == "" {
		return errors.New("please set the plugins:path config variable")
	}
	if cfg.Render.Enabled && cfg.Render.ExternalHostname == "" {
		log.Warnf("RENDER is set but RENDER_EXTERNAL_HOSTNAME is empty, keep-alive pings are disabled")
	}
	return nil
}

// KeepAliveURL returns the public address to self-ping, or "" when pinging is
// disabled.
func (cfg *Config) KeepAliveURL() string {
	if !cfg.Render.Enabled || cfg.Render.ExternalHostname == "" {
		return ""
	}
	return fmt.Sprintf("https://%s", cfg.Render.ExternalHostname)
}
