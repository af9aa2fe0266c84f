// Package backend is the HTTP client for the fatwa question-answering
// server.
//
// The server exposes four endpoints:
//
//   - POST /ask: answer a question, with the sources it drew on
//   - GET /translations/{lang}: UI strings for a language
//   - GET /sources: selectable providers per language
//   - POST /clear-history: drop the server-side conversation memory
//
// Translations and sources change rarely and are cached through a
// [cache.Cache] when one is configured. Answers are never cached.
//
// # Errors
//
// Transport failures wrap [ErrNetwork]; a 404 wraps [ErrNotFound]; any
// response carrying an "error" field wraps [ErrBackend] and a
// [*errors.BackendError] holding the server's (localized) message. Transport
// failures and 5xx responses are marked retryable, but the client makes a
// single attempt unless [WithRetries] asks for more.
package backend
