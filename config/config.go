package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/configparser"
	"github.com/Temutjin2k/running-app/pkg/httpclient"
	"github.com/Temutjin2k/running-app/pkg/logger"
	"github.com/Temutjin2k/running-app/pkg/telemetry"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode, overrides the configured one")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode not provided")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrWeakJWTSecret   = errors.New("auth.jwt_secret must be at least 32 bytes in production")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode     types.ServiceMode `koanf:"mode"`
		LogLevel string            `koanf:"log_level"`

		Server     ServerConfig      `koanf:"server"`
		Database   DatabaseConfig    `koanf:"database"`
		Auth       Auth              `koanf:"auth"`
		Kakao      KakaoConfig       `koanf:"kakao"`
		HTTPClient httpclient.Config `koanf:"http_client"`
		RabbitMQ   RabbitMQConfig    `koanf:"rabbitmq"`
		WebSocket  WebSocketConfig   `koanf:"websocket"`
		Telemetry  telemetry.Config  `koanf:"telemetry"`
	}

	ServerConfig struct {
		Port            int           `koanf:"port"`
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		MaxBodyBytes    int64         `koanf:"max_body_bytes"`

		CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
		// RateLimit is requests per RateWindow per client IP, 0 disables it.
		RateLimit  int           `koanf:"rate_limit"`
		RateWindow time.Duration `koanf:"rate_window"`
	}

	DatabaseConfig struct {
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		User     string `koanf:"user"`
		Password string `koanf:"password"`
		Database string `koanf:"database"`
		SSLMode  string `koanf:"sslmode"`

		MaxConns        int32         `koanf:"max_conns"`
		MinConns        int32         `koanf:"min_conns"`
		MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
		RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
		JWTSecret       string        `koanf:"jwt_secret"`
	}

	KakaoConfig struct {
		BaseURL string `koanf:"base_url"`
		// Breaker settings for calls to the identity provider.
		BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
		BreakerInterval    time.Duration `koanf:"breaker_interval"`
		BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
		BreakerFailures    uint32        `koanf:"breaker_failures"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `koanf:"enabled"`
		Host     string `koanf:"host"`
		Port     int    `koanf:"port"`
		User     string `koanf:"user"`
		Password string `koanf:"password"`
		Exchange string `koanf:"exchange"`
	}

	WebSocketConfig struct {
		AuthTimeout  time.Duration `koanf:"auth_timeout"`
		PingInterval time.Duration `koanf:"ping_interval"`
		PongWait     time.Duration `koanf:"pong_wait"`
	}
)

// Sections are the top-level keys reachable from environment variables.
var Sections = []string{
	"mode", "log_level", "server", "database", "auth", "kakao",
	"http_client", "rabbitmq", "websocket", "telemetry",
}

func Default() Config {
	return Config{
		Mode:     types.RunningService,
		LogLevel: logger.LevelInfo,
		Server: ServerConfig{
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			IdleTimeout:        time.Minute,
			ShutdownTimeout:    5 * time.Second,
			MaxBodyBytes:       10 << 20,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          120,
			RateWindow:         time.Minute,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "running_user",
			Password:        "running_pass",
			Database:        "running_db",
			SSLMode:         "disable",
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
		},
		Auth: Auth{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
			JWTSecret:       "supersecretkey",
		},
		Kakao: KakaoConfig{
			BaseURL:            "https://kapi.kakao.com",
			BreakerMaxRequests: 1,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     30 * time.Second,
			BreakerFailures:    5,
		},
		HTTPClient: httpclient.Config{
			ConnectTimeout: httpclient.DefaultConnectTimeout,
			ReadTimeout:    httpclient.DefaultReadTimeout,
			Tracing:        true,
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			Exchange: "running_topic",
		},
		WebSocket: WebSocketConfig{
			AuthTimeout:  5 * time.Second,
			PingInterval: 30 * time.Second,
			PongWait:     60 * time.Second,
		},
	}
}

func (c DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func (c RabbitMQConfig) GetDSN() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/",
	}
	return u.String()
}

// NewConfig loads defaults, then path (YAML), then .env, then the environment.
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	err := configparser.Load(cfg, configparser.Options{
		Defaults: Default(),
		FilePath: path,
		EnvFile:  ".env",
		Sections: Sections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	parseFlags(cfg)
	cfg.Server.CORSAllowedOrigins = splitList(cfg.Server.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) {
	if modeFlag != nil && *modeFlag != "" {
		cfg.Mode = types.ServiceMode(*modeFlag)
	}
}

// splitList expands comma separated entries, as a list given through an
// environment variable arrives as a single element.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Mode == "" {
		return ErrModeNotProvided
	}
	if !logger.ValidateLogLevel(c.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if !strings.EqualFold(c.LogLevel, logger.LevelDebug) && len(c.Auth.JWTSecret) < 32 {
		return ErrWeakJWTSecret
	}
	return nil
}
