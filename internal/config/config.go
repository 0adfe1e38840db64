package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Prediction PredictionConfig
	Session    SessionConfig
	Log        LogConfig
	Tracing    TracingConfig   `mapstructure:"tracing"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`

	// Set at load time, not read from the file.
	ConfigFile string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// PredictionConfig points at the remote grade prediction service.
// A zero Timeout means requests may stay pending indefinitely.
type PredictionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMinutes) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("prediction.timeout", 0)
	v.SetDefault("session.cookie_name", "grade_predictor_session")
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

// LoadConfig reads config.yaml from path (if present) and overlays the
// environment. The prediction base URL is the only required setting.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GRADE_PREDICTOR")
	v.AutomaticEnv()
	setDefaults(v)

	// Prediction service
	v.BindEnv("prediction.base_url", "GRADE_PREDICTOR_PREDICTION_BASE_URL", "API_BASE_URL")
	v.BindEnv("prediction.timeout", "PREDICTION_TIMEOUT")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if cfg.Prediction.BaseURL == "" {
		return nil, fmt.Errorf("prediction base url is not set (config prediction.base_url or env API_BASE_URL)")
	}
	if cfg.Prediction.Timeout < 0 {
		return nil, fmt.Errorf("prediction timeout must not be negative, got %s", cfg.Prediction.Timeout)
	}
	if cfg.Session.TTLMinutes <= 0 {
		return nil, fmt.Errorf("session ttl_minutes must be positive, got %d", cfg.Session.TTLMinutes)
	}

	return &cfg, nil
}
