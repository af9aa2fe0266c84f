package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/httputil"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is returned for transport failures (timeouts, refused
	// connections, undecodable bodies).
	ErrNetwork = stderrors.New("network error")

	// ErrBackend is returned when the server answered with an error.
	ErrBackend = stderrors.New("backend error")
)

// transportError classifies a failed round trip. Context cancellation is
// passed through unchanged so callers can tell it apart.
func transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
		return err
	}
	code := errors.ErrCodeNetwork
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		code = errors.ErrCodeTimeout
	}
	wrapped := errors.Wrap(code, fmt.Errorf("%w: %v", ErrNetwork, err), "%s", op)
	return &httputil.RetryableError{Err: wrapped}
}

// statusError turns a non-2xx status, or a 2xx carrying an error field, into
// an error. It returns nil when the response is a success.
func statusError(op string, status int, body errorBody) error {
	if status >= 200 && status < 300 && body.Error == "" {
		return nil
	}

	// Only messages written by the server are kept as BackendError, so
	// Message never returns a bare HTTP status text.
	var cause error = fmt.Errorf("status %d %s", status, http.StatusText(status))
	if body.Error != "" {
		cause = &errors.BackendError{Status: status, Message: body.Error}
	}

	var err error
	switch {
	case status == http.StatusNotFound:
		err = errors.Wrap(errors.ErrCodeNotFound, fmt.Errorf("%w: %w", ErrNotFound, cause), "%s", op)
	default:
		err = errors.Wrap(errors.ErrCodeBackend, fmt.Errorf("%w: %w", ErrBackend, cause), "%s", op)
	}
	if status >= 500 {
		return &httputil.RetryableError{Err: err}
	}
	return err
}

// Message returns the server-provided message carried by err, if any.
func Message(err error) (string, bool) {
	var be *errors.BackendError
	if stderrors.As(err, &be) && be.Message != "" {
		return be.Message, true
	}
	return "", false
}
