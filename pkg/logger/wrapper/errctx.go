package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx carries the LogCtx of the place an error was produced.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// ErrorCtx restores the LogCtx carried by err on top of ctx. Fields the
// error did not record, such as a request id set later, are kept from ctx.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if !errors.As(err, &e) || e == nil {
		return ctx
	}
	return WithLogCtx(ctx, e.logCtx)
}
