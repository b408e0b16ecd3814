package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Owner API endpoints per environment
const (
	ProductionAPIEndpoint  = "https://rent-management-backend-three.vercel.app"
	DevelopmentAPIEndpoint = "http://192.168.1.3:8800"
)

// Defaults for optional settings
const (
	DefaultHTTPTimeout    = 180 * time.Second
	DefaultTokenDriver    = "file"
	DefaultTokenPath      = ".rentowner/storage.json"
	DefaultPushListenAddr = ":8790"
	DefaultPushStream     = "stream:push"
	DefaultNavReadyDelay  = time.Second
	DefaultAppVersion     = "1.0.0"
)

type Config struct {
	Env         string `yaml:"env"`
	APIEndpoint string `yaml:"api_endpoint"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`

	TokenStoreDriver string `yaml:"token_store_driver"`
	TokenStorePath   string `yaml:"token_store_path"`
	TokenStoreDSN    string `yaml:"token_store_dsn"`
	RedisURL         string `yaml:"redis_url"`

	PushListenAddr  string `yaml:"push_listen_addr"`
	PushRelaySecret string `yaml:"push_relay_secret"`
	PushStream      string `yaml:"push_stream"`

	NavReadyDelay time.Duration `yaml:"nav_ready_delay"`

	AppVersion         string `yaml:"app_version"`
	AppVersionEndpoint string `yaml:"app_version_endpoint"`
}

// LoadConfig reads .env, then the optional YAML file named by RENTOWNER_CONFIG,
// then the process environment. Later sources win.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	cfg := &Config{}
	if path := os.Getenv("RENTOWNER_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "RENT_ENV")
	setString(&cfg.APIEndpoint, "RENT_API_ENDPOINT")
	setDuration(&cfg.HTTPTimeout, "RENT_HTTP_TIMEOUT")

	setString(&cfg.TokenStoreDriver, "TOKEN_STORE_DRIVER")
	setString(&cfg.TokenStorePath, "TOKEN_STORE_PATH")
	setString(&cfg.TokenStoreDSN, "TOKEN_STORE_DSN")
	setString(&cfg.RedisURL, "REDIS_URL")

	setString(&cfg.PushListenAddr, "PUSH_LISTEN_ADDR")
	setString(&cfg.PushRelaySecret, "PUSH_RELAY_SECRET")
	setString(&cfg.PushStream, "PUSH_STREAM")

	setDuration(&cfg.NavReadyDelay, "NAV_READY_DELAY")

	setString(&cfg.AppVersion, "APP_VERSION")
	setString(&cfg.AppVersionEndpoint, "APP_VERSION_ENDPOINT")
}

func applyDefaults(cfg *Config) {
	if cfg.APIEndpoint == "" {
		if cfg.Env == "production" {
			cfg.APIEndpoint = ProductionAPIEndpoint
		} else {
			cfg.APIEndpoint = DevelopmentAPIEndpoint
		}
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.TokenStoreDriver == "" {
		cfg.TokenStoreDriver = DefaultTokenDriver
	}
	if cfg.TokenStorePath == "" {
		cfg.TokenStorePath = DefaultTokenPath
	}
	if cfg.PushListenAddr == "" {
		cfg.PushListenAddr = DefaultPushListenAddr
	}
	if cfg.PushStream == "" {
		cfg.PushStream = DefaultPushStream
	}
	if cfg.NavReadyDelay <= 0 {
		cfg.NavReadyDelay = DefaultNavReadyDelay
	}
	if cfg.AppVersion == "" {
		cfg.AppVersion = DefaultAppVersion
	}
	if cfg.AppVersionEndpoint == "" {
		// the version service is only deployed alongside the production API
		cfg.AppVersionEndpoint = ProductionAPIEndpoint + "/app-version"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setDuration accepts Go durations ("30s") or a bare number of milliseconds.
// Invalid values are ignored so the default applies.
func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
		return
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
