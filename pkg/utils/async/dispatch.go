package async

import (
	"context"

	"github.com/secmon-lab/logiclog/pkg/utils/errutil"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine. The handler gets a background
// context carrying the caller's logger, so it outlives the caller's
// cancellation. Errors and panics are logged and reported.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
