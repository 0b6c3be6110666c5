package wrap

import (
	"context"
)

// Error wraps err with the LogCtx of ctx so the caller that finally logs
// it can restore the context where the failure happened. Wrapping an
// already wrapped error keeps the chain and captures the newer context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}
