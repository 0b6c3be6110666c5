package rabbit

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	wrap "github.com/Temutjin2k/running-app/pkg/logger/wrapper"
	"github.com/Temutjin2k/running-app/pkg/metrics"
)

const (
	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
)

type publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type SessionProducer struct {
	client   publisher
	exchange string
	service  string
}

func NewSessionProducer(client publisher, exchange, service string) *SessionProducer {
	return &SessionProducer{
		client:   client,
		exchange: exchange,
		service:  service,
	}
}

// SessionSavedKey is the routing key of session saved events for a user.
func SessionSavedKey(evt models.SessionSavedEvent) string {
	return fmt.Sprintf("running.session.saved.%s", evt.UserID)
}

// PublishSessionSaved publishes evt to the running exchange.
func (p *SessionProducer) PublishSessionSaved(ctx context.Context, evt models.SessionSavedEvent) error {
	const op = "SessionProducer.PublishSessionSaved"

	body, err := json.Marshal(evt)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := SessionSavedKey(evt)
	err = retry(ctx, publishAttempts, publishBackoff, func() error {
		return p.client.Publish(ctx, p.exchange, key, body)
	})
	metrics.RecordRabbitMQPublish(p.service, p.exchange, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrFailedToPublish, err))
	}

	return nil
}
