package microservices

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/running-app/config"
	httpserver "github.com/Temutjin2k/running-app/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/running-app/internal/adapter/http/ws"
	"github.com/Temutjin2k/running-app/internal/adapter/kakao"
	repo "github.com/Temutjin2k/running-app/internal/adapter/postgres"
	"github.com/Temutjin2k/running-app/internal/adapter/rabbit"
	"github.com/Temutjin2k/running-app/internal/service/auth"
	"github.com/Temutjin2k/running-app/internal/service/running"
	"github.com/Temutjin2k/running-app/pkg/httpclient"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
	postgresclient "github.com/Temutjin2k/running-app/pkg/postgres"
	rabbitclient "github.com/Temutjin2k/running-app/pkg/rabbit"
	"github.com/Temutjin2k/running-app/pkg/telemetry"
	"github.com/Temutjin2k/running-app/pkg/trm"
	ws "github.com/Temutjin2k/running-app/pkg/wsHub"
)

type RunningService struct {
	postgresDB *postgresclient.PostgreDB
	broker     *rabbitclient.RabbitMQ
	connHub    *ws.ConnectionHub
	httpServer *httpserver.API
	tracer     telemetry.ShutdownFunc

	cfg config.Config
	log logger.Logger
}

func NewRunning(ctx context.Context, cfg config.Config, log logger.Logger) (*RunningService, error) {
	service := string(cfg.Mode)
	s := &RunningService{cfg: cfg, log: log}

	tracer, err := telemetry.Setup(ctx, service, cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	s.tracer = tracer

	db, err := postgresclient.New(ctx, cfg.Database,
		postgresclient.WithMaxConns(cfg.Database.MaxConns),
		postgresclient.WithMinConns(cfg.Database.MinConns),
		postgresclient.WithMaxConnLifetime(cfg.Database.MaxConnLifetime),
		postgresclient.WithMaxConnIdleTime(cfg.Database.MaxConnIdleTime),
		postgresclient.WithTracer(metrics.NewQueryTracer(service)),
	)
	if err != nil {
		s.close(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.postgresDB = db

	// repositories
	txManager := trm.New(db.Pool)
	userRepo := repo.NewUserRepo(db.Pool)
	refreshRepo := repo.NewRefreshTokenRepo(db.Pool)
	sessionRepo := repo.NewRunningSessionRepo(db.Pool)

	// identity provider
	kakaoClient := kakao.New(cfg.Kakao.BaseURL, httpclient.New(cfg.HTTPClient), kakao.BreakerConfig{
		MaxRequests:      cfg.Kakao.BreakerMaxRequests,
		Interval:         cfg.Kakao.BreakerInterval,
		Timeout:          cfg.Kakao.BreakerTimeout,
		FailureThreshold: cfg.Kakao.BreakerFailures,
	}, log)

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, userRepo, refreshRepo, txManager, cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, kakaoClient, tokenSvc, txManager, log)

	// live feed
	s.connHub = ws.NewConnHub(log)
	opts := []running.Option{running.WithNotifier(wshandler.NewRunningFeed(s.connHub))}

	if cfg.RabbitMQ.Enabled {
		broker, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		s.broker = broker

		if err := broker.DeclareTopicExchange(ctx, cfg.RabbitMQ.Exchange); err != nil {
			s.close(ctx)
			return nil, err
		}
		opts = append(opts, running.WithPublisher(rabbit.NewSessionProducer(broker, cfg.RabbitMQ.Exchange, service)))
	} else {
		log.Info(ctx, "rabbitmq disabled, session events are not published")
	}

	runningSvc := running.New(sessionRepo, log, opts...)

	feed := wshandler.NewRunningWsHandler(s.connHub, authSvc, wshandler.Config{
		AuthTimeout:    cfg.WebSocket.AuthTimeout,
		PingInterval:   cfg.WebSocket.PingInterval,
		PongWait:       cfg.WebSocket.PongWait,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}, log)

	server, err := httpserver.New(cfg, httpserver.Services{
		Auth:    authSvc,
		Running: runningSvc,
		DB:      db.Pool,
		Feed:    feed,
	}, log)
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.httpServer = server

	return s, nil
}

func (s *RunningService) Start(ctx context.Context) error {
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "running service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

// close releases whatever was opened, in reverse order.
func (s *RunningService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "service_close")

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Error(ctx, "failed to shutdown HTTP server", err)
		}
	}

	if s.connHub != nil {
		s.connHub.Close()
	}

	if s.broker != nil {
		if err := s.broker.Close(ctx); err != nil {
			s.log.Error(ctx, "failed to close rabbitmq connection", err)
		}
	}

	if s.postgresDB != nil {
		s.postgresDB.Close()
	}

	if s.tracer != nil {
		if err := s.tracer(ctx); err != nil {
			s.log.Error(ctx, "failed to flush traces", err)
		}
	}
}
