package wshandler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/running-app/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/running-app/pkg/wsHub"
)

// RunningFeed pushes session events to the owner's live connection.
type RunningFeed struct {
	connections *ws.ConnectionHub
}

func NewRunningFeed(connections *ws.ConnectionHub) *RunningFeed {
	return &RunningFeed{
		connections: connections,
	}
}

// NotifySessionSaved returns types.ErrFeedNotConnected when the owner has no live connection.
func (f *RunningFeed) NotifySessionSaved(ctx context.Context, evt models.SessionSavedEvent) error {
	const op = "RunningFeed.NotifySessionSaved"
	ctx = wrap.WithAction(ctx, "ws_send_session_saved")

	err := f.connections.SendTo(evt.UserID, dto.NewSessionSavedMessage(evt))
	switch {
	case errors.Is(err, ws.ErrConnIsNotFound):
		return types.ErrFeedNotConnected
	case err != nil:
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
