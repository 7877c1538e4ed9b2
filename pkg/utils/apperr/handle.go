package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an error at the top of a call chain. goerr values attached
// along the way are flattened into log attributes.
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)

	attrs := []any{"error", err}
	if goErr := goerr.Unwrap(err); goErr != nil {
		for k, v := range goErr.Values() {
			attrs = append(attrs, k, v)
		}
	}

	logger.Error("application error", attrs...)
}
