package wrap

import (
	"context"
	"errors"
	"testing"
)

func TestError_KeepsContextOfFailure(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	inner := WithAction(WithSessionID(ctx, "run-42"), "save_session")

	sentinel := errors.New("boom")
	err := Error(inner, sentinel)

	if !errors.Is(err, sentinel) {
		t.Fatalf("wrapped error must unwrap to the sentinel")
	}

	restored := FromContext(ErrorCtx(context.Background(), err))
	if restored.Action != "save_session" || restored.SessionID != "run-42" || restored.RequestID != "req-1" {
		t.Fatalf("unexpected restored context: %+v", restored)
	}
}

func TestError_Nil(t *testing.T) {
	if Error(context.Background(), nil) != nil {
		t.Fatalf("wrapping nil must return nil")
	}
}

func TestWithLogCtx_Merges(t *testing.T) {
	ctx := WithLogCtx(context.Background(), LogCtx{UserID: "u1", RequestID: "r1"})
	ctx = WithLogCtx(ctx, LogCtx{Action: "list_sessions"})

	lc := FromContext(ctx)
	if lc.UserID != "u1" || lc.RequestID != "r1" || lc.Action != "list_sessions" {
		t.Fatalf("unexpected merged context: %+v", lc)
	}
}

func TestErrorCtx_KeepsCallerFields(t *testing.T) {
	err := Error(WithAction(context.Background(), "insert_session"), errors.New("boom"))

	caller := WithRequestID(WithAction(context.Background(), "save_session"), "req-9")
	lc := FromContext(ErrorCtx(caller, err))

	if lc.Action != "insert_session" {
		t.Errorf("action = %q, want the one recorded on the error", lc.Action)
	}
	if lc.RequestID != "req-9" {
		t.Errorf("request id = %q, want the caller's", lc.RequestID)
	}
}

func TestErrorCtx_PlainError(t *testing.T) {
	ctx := WithAction(context.Background(), "a")
	if got := ErrorCtx(ctx, errors.New("plain")); got != ctx {
		t.Fatal("plain errors must leave the context untouched")
	}
}
