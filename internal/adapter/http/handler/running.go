package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/logger"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/validator"
)

const (
	defaultSessionLimit = 10
	maxSessionLimit     = 100
)

type RunningService interface {
	SaveRunningData(ctx context.Context, req *models.RunningDataRequest) (*models.RunningDataResponse, error)
	GetUserSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RunningSession, error)
	GetSessionData(ctx context.Context, userID uuid.UUID, sessionID string) (*models.RunningSession, error)
	GetSessionSummary(ctx context.Context, userID uuid.UUID, sessionID string) (*models.SessionSummary, error)
}

type Running struct {
	running      RunningService
	maxBodyBytes int64
	l            logger.Logger
}

func NewRunning(service RunningService, maxBodyBytes int64, l logger.Logger) *Running {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Running{
		running:      service,
		maxBodyBytes: maxBodyBytes,
		l:            l,
	}
}

// SaveRunningData godoc
// @Summary      Save a running session
// @Description  Stores a GeoJSON FeatureCollection recorded during a run. The declared user_id must be the caller.
// @Tags         Running
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.SaveRunningRequest  true  "Running session"
// @Success      200      {object}  models.RunningDataResponse
// @Failure      400      {object}  models.RunningDataResponse
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  models.RunningDataResponse
// @Failure      422      {object}  map[string]any
// @Router       /api/running/session [post]
func (h *Running) SaveRunningData(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "save_running_session")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}
	ctx = wrap.WithUserID(ctx, user.ID.String())

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	owner := &dto.DeclaredOwner{}
	if err := json.Unmarshal(body, owner); err != nil {
		badRequestResponse(w, "body must be a JSON object")
		return
	}
	if !owner.OwnedBy(user.ID) {
		h.l.Warn(ctx, "running session owner mismatch", "declared_user_id", owner.String())
		h.writeResponse(ctx, w, http.StatusForbidden, models.ErrorResponse(types.ErrForbidden.Error()))
		return
	}

	req := &dto.SaveRunningRequest{}
	if err := decodeJSON(bytes.NewReader(body), req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithSessionID(ctx, req.SessionID)

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	data := req.ToModel(user.ID)
	h.l.Debug(ctx, "saving running session", "feature_count", data.FeatureCount())

	resp, err := h.running.SaveRunningData(ctx, data)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save running session", err)
		errorResponse(w, GetCode(err), ErrorMessage(err))
		return
	}

	if !resp.IsSuccess() {
		h.writeResponse(ctx, w, http.StatusBadRequest, resp)
		return
	}

	h.l.Info(ctx, "running session saved",
		"feature_count", resp.FeatureCount,
		"coordinate_count", resp.CoordinateCount,
	)
	h.writeResponse(ctx, w, http.StatusOK, resp)
}

// ListSessions godoc
// @Summary      List running sessions
// @Description  Returns the caller's sessions, newest first
// @Tags         Running
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of sessions (1-100)"  default(10)
// @Success      200    {array}   models.RunningSession
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]any
// @Router       /api/running/sessions [get]
func (h *Running) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_running_sessions")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return
	}
	ctx = wrap.WithUserID(ctx, user.ID.String())

	v := validator.New()
	limit, err := readIntQuery(r, "limit", defaultSessionLimit)
	if err != nil {
		v.AddError("limit", err.Error())
	} else {
		dto.ValidateLimit(v, limit, maxSessionLimit)
	}
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	sessions, err := h.running.GetUserSessions(ctx, user.ID, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list running sessions", err)
		errorResponse(w, GetCode(err), ErrorMessage(err))
		return
	}
	if sessions == nil {
		sessions = []*models.RunningSession{}
	}

	h.writeResponse(ctx, w, http.StatusOK, sessions)
}

// GetSession godoc
// @Summary      Get a running session
// @Tags         Running
// @Produce      json
// @Security     BearerAuth
// @Param        sessionId  path      string  true  "Client session id"
// @Success      200        {object}  models.RunningSession
// @Failure      401        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/running/session/{sessionId} [get]
func (h *Running) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, session, ok := h.loadSession(w, r, "get_running_session")
	if !ok {
		return
	}

	h.writeResponse(ctx, w, http.StatusOK, session)
}

// GetSessionSummary godoc
// @Summary      Get a running session summary
// @Tags         Running
// @Produce      json
// @Security     BearerAuth
// @Param        sessionId  path      string  true  "Client session id"
// @Success      200        {object}  models.SessionSummary
// @Failure      401        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/running/session/{sessionId}/summary [get]
func (h *Running) GetSessionSummary(w http.ResponseWriter, r *http.Request) {
	ctx, user, sessionID, ok := h.sessionTarget(w, r, "get_running_session_summary")
	if !ok {
		return
	}

	summary, err := h.running.GetSessionSummary(ctx, user.ID, sessionID)
	if err != nil {
		h.writeLookupError(ctx, w, err)
		return
	}

	h.writeResponse(ctx, w, http.StatusOK, summary)
}

// loadSession resolves the caller's session named by the path. It writes the
// error response itself and reports whether the caller may continue.
func (h *Running) loadSession(w http.ResponseWriter, r *http.Request, action string) (context.Context, *models.RunningSession, bool) {
	ctx, user, sessionID, ok := h.sessionTarget(w, r, action)
	if !ok {
		return ctx, nil, false
	}

	session, err := h.running.GetSessionData(ctx, user.ID, sessionID)
	if err != nil {
		h.writeLookupError(ctx, w, err)
		return ctx, nil, false
	}
	if session == nil {
		notFoundResponse(w, types.ErrSessionNotFound.Error())
		return ctx, nil, false
	}

	return ctx, session, true
}

// sessionTarget returns the caller and the session id of the path.
func (h *Running) sessionTarget(w http.ResponseWriter, r *http.Request, action string) (context.Context, *models.User, string, bool) {
	ctx := wrap.WithAction(r.Context(), action)

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		unauthorizedResponse(w)
		return ctx, nil, "", false
	}

	sessionID := r.PathValue("sessionId")
	ctx = wrap.WithLogCtx(ctx, wrap.LogCtx{UserID: user.ID.String(), SessionID: sessionID})
	return ctx, user, sessionID, true
}

func (h *Running) writeLookupError(ctx context.Context, w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code == http.StatusNotFound {
		h.l.Debug(ctx, "running session lookup missed", "err", err.Error())
	} else {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get running session", err)
	}
	errorResponse(w, code, ErrorMessage(err))
}

func (h *Running) writeResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
