package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a
// client is configured.
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)
	logger.Error(msg, errorAttrs(err)...)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		var ge *goerr.Error
		if errors.As(err, &ge) {
			scope.SetContext("values", ge.Values())
		}
		sentry.CaptureException(err)
	})
}

// HandleHTTP logs the error and writes a JSON error response. Only 5xx
// errors are logged as errors and reported; the rest are client mistakes.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		Handle(ctx, err, "HTTP error")
	} else {
		attrs := append([]any{"status", statusCode}, errorAttrs(err)...)
		logging.From(ctx).Info("HTTP request rejected", attrs...)
	}

	WriteJSONError(w, statusCode, err.Error())
}

// WriteJSONError writes {"error": msg} with statusCode
func WriteJSONError(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func errorAttrs(err error) []any {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		return []any{
			slog.String("error", err.Error()),
			slog.Any("values", ge.Values()),
			slog.Any("stack", ge.Stacks()),
		}
	}
	return []any{slog.String("error", err.Error())}
}
