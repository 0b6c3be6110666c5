package httpclient

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultConnectTimeout  = 5 * time.Second
	DefaultReadTimeout     = 5 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
)

// Config tunes outbound HTTP calls. Zero values fall back to defaults.
type Config struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	// ReadTimeout bounds the wait for response headers once the request is written.
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	IdleConnTimeout time.Duration `koanf:"idle_conn_timeout"`
	// Tracing wraps the transport with OpenTelemetry instrumentation.
	Tracing bool `koanf:"tracing"`
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	return c
}

// New returns a client safe for concurrent reuse. The whole exchange,
// body included, must finish within ConnectTimeout+ReadTimeout.
// No retries are attempted.
func New(cfg Config) *http.Client {
	cfg = cfg.withDefaults()

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		ExpectContinueTimeout: time.Second,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
	}

	if cfg.Tracing {
		rt = otelhttp.NewTransport(rt)
	}

	return &http.Client{
		Transport: rt,
		Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
	}
}
