package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GARDEN_BACKEND_BASE_URL.
const EnvPrefix = "GARDEN"

var (
	ErrNoBaseURL       = errors.New("backend.base_url is required")
	ErrInvalidInterval = errors.New("intervals must be positive")
)

// Config is the resolved application configuration.
type Config struct {
	Port     string         `mapstructure:"port"`
	LogLevel string         `mapstructure:"log_level"`
	DB       DBConfig       `mapstructure:"db"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Panel    PanelConfig    `mapstructure:"panel"`
	Interval IntervalConfig `mapstructure:"intervals"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PanelConfig holds the toggles the web page used to read from its markup.
type PanelConfig struct {
	CameraEnabled bool `mapstructure:"camera_enabled"`
	PinMock       bool `mapstructure:"pin_mock"`
	CameraMS      int  `mapstructure:"camera_ms"`
}

type IntervalConfig struct {
	Camera time.Duration `mapstructure:"camera"`
	Status time.Duration `mapstructure:"status"`
	Flow   time.Duration `mapstructure:"flow"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "garden.db")
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 3*time.Second)
	v.SetDefault("panel.camera_enabled", true)
	v.SetDefault("panel.pin_mock", false)
	v.SetDefault("panel.camera_ms", 5000)
	v.SetDefault("intervals.camera", 5*time.Second)
	v.SetDefault("intervals.status", time.Second)
	v.SetDefault("intervals.flow", 500*time.Millisecond)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
}

// Load reads .env files, then configDir/config.yml, then GARDEN_* variables.
// A missing config file is not an error; every key has a default.
func Load(configDir string, envFiles ...string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pollers cannot run with.
func (c *Config) Validate() error {
	c.Backend.BaseURL = strings.TrimSpace(c.Backend.BaseURL)
	if c.Backend.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Interval.Camera <= 0 || c.Interval.Status <= 0 || c.Interval.Flow <= 0 {
		return fmt.Errorf("%w: camera=%s status=%s flow=%s",
			ErrInvalidInterval, c.Interval.Camera, c.Interval.Status, c.Interval.Flow)
	}
	return nil
}
