package wshandler

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/running-app/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
	"github.com/Temutjin2k/running-app/pkg/validator"
	ws "github.com/Temutjin2k/running-app/pkg/wsHub"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Config struct {
	AuthTimeout    time.Duration
	PingInterval   time.Duration
	PongWait       time.Duration
	AllowedOrigins []string
}

// RunningWsHandler serves the live feed of a user's running sessions.
type RunningWsHandler struct {
	connections *ws.ConnectionHub
	auth        Authenticator
	cfg         Config
	upgrader    websocket.Upgrader
	l           logger.Logger
}

func NewRunningWsHandler(connections *ws.ConnectionHub, auth Authenticator, cfg Config, l logger.Logger) *RunningWsHandler {
	h := &RunningWsHandler{
		connections: connections,
		auth:        auth,
		cfg:         cfg,
		l:           l,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

// checkOrigin accepts requests without an Origin header and origins listed in the config.
func (h *RunningWsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin)
}

// HandleFeed upgrades the request. The first frame must be an auth message
// carrying an access token; after that the connection receives session events.
func (h *RunningWsHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_running_feed")

	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.l.Warn(ctx, "websocket upgrade failed", "err", err.Error())
		return
	}

	// The request context ends when the handler returns; the connection outlives it.
	conn := ws.NewConn(context.WithoutCancel(ctx), uuid.Nil, c)

	user, ok := h.authenticate(ctx, conn)
	if !ok {
		_ = conn.Close()
		return
	}

	conn.SetEntityID(user.ID)
	ctx = wrap.WithUserID(ctx, user.ID.String())

	if err := h.connections.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register connection", err)
		_ = conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(string(types.RunningService)).Inc()
	defer metrics.WebSocketConnectionsGauge.WithLabelValues(string(types.RunningService)).Dec()
	defer h.connections.Remove(conn)

	if err := conn.Send(dto.ReadyMessage{Type: dto.MessageReady, UserID: user.ID.String()}); err != nil {
		h.l.Warn(ctx, "failed to send ready message", "err", err.Error())
		return
	}
	h.l.Info(ctx, "live feed connected")

	go func() {
		if err := conn.KeepAlive(h.cfg.PingInterval, h.cfg.PongWait); err != nil {
			h.l.Debug(ctx, "keepalive stopped", "err", err.Error())
			_ = conn.Close()
		}
	}()

	err = conn.Listen(func(msg map[string]any) error {
		if msg["type"] == dto.MessagePing {
			return conn.Send(map[string]string{"type": dto.MessagePong})
		}
		return nil
	})
	if err != nil && !errors.Is(err, ws.ErrConnClosed) && !isNormalClose(err) {
		h.l.Warn(ctx, "live feed closed", "err", err.Error())
		return
	}
	h.l.Info(ctx, "live feed disconnected")
}

func (h *RunningWsHandler) authenticate(ctx context.Context, conn *ws.Conn) (*models.User, bool) {
	var msg dto.AuthMessage
	if err := conn.ReadJSON(&msg, h.cfg.AuthTimeout); err != nil {
		h.l.Debug(ctx, "no auth message received", "err", err.Error())
		_ = errorResponse(conn, "authentication required")
		return nil, false
	}

	v := validator.New()
	if msg.Validate(v); !v.Valid() {
		_ = failedValidationResponse(conn, v.Errors)
		return nil, false
	}

	user, err := h.auth.Authenticate(ctx, msg.Token)
	if err != nil {
		h.l.Debug(wrap.ErrorCtx(ctx, err), "live feed authentication failed", "err", err.Error())
		_ = errorResponse(conn, "invalid or expired token")
		return nil, false
	}
	return user, true
}

func isNormalClose(err error) bool {
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
}
