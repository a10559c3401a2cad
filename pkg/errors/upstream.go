package errors

import (
	"context"
	stdErrors "errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Timeout builds an UPSTREAM_TIMEOUT error naming the collaborator that was too slow.
func Timeout(component string, err error) *Error {
	return Wrap(CodeUpstreamTimeout, err, component+" timed out").
		WithDetails(map[string]any{"component": component})
}

// Upstream classifies a failed collaborator call. Deadlines become UPSTREAM_TIMEOUT for
// the component, caller cancellation becomes REQUEST_CANCELED, typed errors pass through
// and anything else is a STORAGE_ERROR.
func Upstream(component string, err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return Timeout(component, err)
	}
	if stdErrors.Is(err, context.Canceled) {
		return Wrap(CodeCanceled, err, "request canceled")
	}
	if As(err) != nil {
		return err
	}
	return Wrap(CodeStorage, err, component+" unavailable").
		WithDetails(map[string]any{"component": component})
}

func isTimeout(err error) bool {
	if stdErrors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return stdErrors.As(err, &netErr) && netErr.Timeout()
}
