// Package errs reports unexpected errors to the log and to Sentry.
package errs

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs err with its goerr values and sends it to Sentry. Sending is a
// no-op when Sentry was not initialized.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	attrs := []any{"error", err}
	if ge := goerr.Unwrap(err); ge != nil && len(ge.Values()) > 0 {
		attrs = append(attrs, "values", ge.Values())
	}
	ctxlog.From(ctx).Error(msg, attrs...)

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		hub.CaptureException(err)
	})
}
