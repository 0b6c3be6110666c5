package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const HelpMessage = `
Running service

Usage:
  running [-config-path config.yaml] [-mode running-service]

Configuration is read from defaults, then the YAML file, then .env,
then environment variables. Environment names are the upper-cased key
path joined by underscores, e.g. DATABASE_HOST, AUTH_JWT_SECRET,
HTTP_CLIENT_READ_TIMEOUT, RABBITMQ_ENABLED.

Flags:
`

func PrintHelp() {
	fmt.Fprint(os.Stdout, HelpMessage)
	flag.PrintDefaults()
}

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	var b strings.Builder

	fmt.Fprintf(&b, "mode=%s log_level=%s\n", cfg.Mode, cfg.LogLevel)
	fmt.Fprintf(&b, "server: port=%d rate_limit=%d/%s cors=%v\n",
		cfg.Server.Port, cfg.Server.RateLimit, cfg.Server.RateWindow, cfg.Server.CORSAllowedOrigins)
	fmt.Fprintf(&b, "database: %s:%d/%s user=%s password=%s max_conns=%d\n",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, cfg.Database.User,
		mask(cfg.Database.Password), cfg.Database.MaxConns)
	fmt.Fprintf(&b, "auth: access_ttl=%s refresh_ttl=%s jwt_secret=%s\n",
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, mask(cfg.Auth.JWTSecret))
	fmt.Fprintf(&b, "kakao: base_url=%s\n", cfg.Kakao.BaseURL)
	fmt.Fprintf(&b, "http_client: connect_timeout=%s read_timeout=%s\n",
		cfg.HTTPClient.ConnectTimeout, cfg.HTTPClient.ReadTimeout)
	fmt.Fprintf(&b, "rabbitmq: enabled=%t %s:%d exchange=%s\n",
		cfg.RabbitMQ.Enabled, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Exchange)
	fmt.Fprintf(&b, "telemetry: endpoint=%q\n", cfg.Telemetry.Endpoint)

	fmt.Fprint(os.Stdout, b.String())
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
