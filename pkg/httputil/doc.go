// Package httputil provides HTTP helpers shared by the backend client.
//
// # Retry
//
// [Retry] re-runs an operation while it fails with a [RetryableError],
// doubling the delay between attempts. Transport failures and 5xx responses
// are wrapped as retryable by the caller; everything else fails at once.
//
//	err := httputil.Retry(ctx, attempts, 500*time.Millisecond, func() error {
//	    return fetch(ctx)
//	})
//
// An attempts value of 1 (the client default) runs the operation exactly
// once, so a failed request surfaces immediately.
//
// # Clients
//
// [NewHTTPClient] returns an *http.Client with the configured timeout.
package httputil
