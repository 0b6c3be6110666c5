package rabbit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Temutjin2k/running-app/internal/domain/models"
	"github.com/Temutjin2k/running-app/internal/domain/types"
	"github.com/Temutjin2k/running-app/pkg/rabbit"
)

type published struct {
	exchange string
	key      string
	body     []byte
}

type fakePublisher struct {
	errs  []error
	calls int
	sent  []published
}

func (f *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, body: body})
	return nil
}

func testEvent() models.SessionSavedEvent {
	return models.SessionSavedEvent{
		Type:            types.EventSessionSaved,
		SessionID:       "run-1",
		UserID:          uuid.MustParse("0b8f5a2e-6a53-4c1e-8d0e-1f2a3b4c5d6e"),
		FeatureCount:    1,
		CoordinateCount: 3,
		SavedAt:         time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC),
	}
}

func TestPublishSessionSaved(t *testing.T) {
	pub := &fakePublisher{}
	p := NewSessionProducer(pub, "running_topic", "test")

	if err := p.PublishSessionSaved(context.Background(), testEvent()); err != nil {
		t.Fatalf("PublishSessionSaved: %v", err)
	}

	if len(pub.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(pub.sent))
	}
	msg := pub.sent[0]
	if msg.exchange != "running_topic" {
		t.Errorf("exchange = %q", msg.exchange)
	}
	if msg.key != "running.session.saved.0b8f5a2e-6a53-4c1e-8d0e-1f2a3b4c5d6e" {
		t.Errorf("key = %q", msg.key)
	}

	var got models.SessionSavedEvent
	if err := json.Unmarshal(msg.body, &got); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if got.SessionID != "run-1" || got.CoordinateCount != 3 {
		t.Errorf("body = %+v", got)
	}
}

func TestPublishSessionSaved_RetriesTransientErrors(t *testing.T) {
	pub := &fakePublisher{errs: []error{errors.New("channel closed"), nil}}
	p := NewSessionProducer(pub, "running_topic", "test")

	if err := p.PublishSessionSaved(context.Background(), testEvent()); err != nil {
		t.Fatalf("PublishSessionSaved: %v", err)
	}
	if pub.calls != 2 {
		t.Fatalf("calls = %d, want 2", pub.calls)
	}
}

func TestPublishSessionSaved_ClosedClient(t *testing.T) {
	pub := &fakePublisher{errs: []error{rabbit.ErrClosed}}
	p := NewSessionProducer(pub, "running_topic", "test")

	err := p.PublishSessionSaved(context.Background(), testEvent())
	if !errors.Is(err, types.ErrFailedToPublish) || !errors.Is(err, rabbit.ErrClosed) {
		t.Fatalf("err = %v", err)
	}
	if pub.calls != 1 {
		t.Fatalf("closed client must not be retried, calls = %d", pub.calls)
	}
}
