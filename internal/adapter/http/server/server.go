package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Temutjin2k/running-app/config"
	"github.com/Temutjin2k/running-app/internal/adapter/http/handler"
	"github.com/Temutjin2k/running-app/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/running-app/internal/adapter/http/ws"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
)

type AuthService interface {
	handler.AuthService
	middleware.AuthService
}

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth    AuthService
	Running handler.RunningService
	DB      handler.Pinger
	Feed    *wshandler.RunningWsHandler
}

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health  *handler.Health
	auth    *handler.Auth
	running *handler.Running
	feed    *wshandler.RunningWsHandler
}

func New(cfg config.Config, svc Services, logger logger.Logger) (*API, error) {
	if svc.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if svc.Running == nil {
		return nil, errors.New("running service is required")
	}
	if svc.Feed == nil {
		return nil, errors.New("live feed handler is required")
	}

	routes := &handlers{
		health:  handler.NewHealth(string(cfg.Mode), svc.DB, logger),
		auth:    handler.NewAuth(svc.Auth, logger),
		running: handler.NewRunning(svc.Running, cfg.Server.MaxBodyBytes, logger),
		feed:    svc.Feed,
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(svc.Auth, logger, publicAuthPaths...),
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Server.Port)),
		cfg:    cfg,
		log:    logger,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:         api.addr,
		Handler:      api.withMiddleware(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return api, nil
}

// Handler returns the fully wrapped router.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux.
// Metrics sits next to the mux so it sees the matched route pattern.
func (a *API) withMiddleware() http.Handler {
	var h http.Handler = a.m.Metrics(string(a.cfg.Mode))(a.mux)
	h = a.m.Auth(h)
	h = a.m.Logging(h)
	h = a.m.RateLimit(a.cfg.Server.RateLimit, a.cfg.Server.RateWindow)(h)
	h = middleware.CORS(a.cfg.Server.CORSAllowedOrigins)(h)
	h = otelhttp.NewHandler(h, string(a.cfg.Mode))
	h = a.m.RequestID(h)
	return a.m.Recover(h)
}
