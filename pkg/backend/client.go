package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/fatwa/pkg/buildinfo"
	"github.com/matzehuels/fatwa/pkg/cache"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/httputil"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/observability"
)

// DefaultServer is where the backend listens when run locally.
const DefaultServer = "http://localhost:5001"

// DefaultCacheTTL is how long translations and sources stay cached.
const DefaultCacheTTL = 24 * time.Hour

// maxBodySize caps response bodies read into memory.
const maxBodySize = 4 << 20

// Cache keys.
const (
	keySources          = "sources"
	keyTranslationsPref = "translations:"
)

// Client talks to one backend server. It is safe for concurrent use.
type Client struct {
	base       *url.URL
	http       *http.Client
	cache      cache.Cache
	ttl        time.Duration
	attempts   int
	retryDelay time.Duration
	refresh    bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = httputil.NewHTTPClient(d) }
}

// WithCache caches translations and sources in cc for ttl. Keys are scoped
// to the server URL.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if cc == nil {
			return
		}
		c.cache = cc
		c.ttl = ttl
	}
}

// WithRetries makes each request try up to attempts times on transport
// errors and 5xx responses, starting with delay between tries.
func WithRetries(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.retryDelay = delay
	}
}

// WithRefresh bypasses cached entries on reads. Fresh responses are still
// written back.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// New returns a client for server, e.g. "http://localhost:5001".
func New(server string, opts ...Option) (*Client, error) {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if err := errors.ValidateServerURL(server); err != nil {
		return nil, err
	}
	base, err := url.Parse(server)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "parse server URL")
	}

	c := &Client{
		base:       base,
		http:       httputil.NewHTTPClient(0),
		cache:      cache.NewNullCache(),
		ttl:        DefaultCacheTTL,
		attempts:   1,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = cache.NewScoped(c.cache, c.base.String()+"|")
	return c, nil
}

// Server returns the base URL.
func (c *Client) Server() string { return c.base.String() }

// Ask sends a question. A nil Provider is sent as JSON null.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if err := errors.ValidateQuestion(req.Question); err != nil {
		return nil, err
	}
	if !req.Language.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", req.Language)
	}

	var resp AskResponse
	if err := c.do(ctx, http.MethodPost, "/ask", req, &resp); err != nil {
		return nil, err
	}
	if resp.Language == "" {
		resp.Language = req.Language
	}
	return &resp, nil
}

// Translations returns the UI strings for lang. Unknown languages are
// answered with English by the server.
func (c *Client) Translations(ctx context.Context, lang locale.Lang) (Translations, error) {
	if !lang.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", lang)
	}
	var t Translations
	err := c.cached(ctx, "translations", keyTranslationsPref+lang.String(), &t, func() error {
		return c.do(ctx, http.MethodGet, "/translations/"+url.PathEscape(lang.String()), nil, &t)
	})
	return t, err
}

// Sources returns the selectable providers for every language.
func (c *Client) Sources(ctx context.Context) (SourceCatalog, error) {
	var s SourceCatalog
	err := c.cached(ctx, "sources", keySources, &s, func() error {
		return c.do(ctx, http.MethodGet, "/sources", nil, &s)
	})
	return s, err
}

// ClearHistory drops the server-side conversation memory and returns the
// server's confirmation in lang.
func (c *Client) ClearHistory(ctx context.Context, lang locale.Lang) (string, error) {
	if !lang.Valid() {
		return "", errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", lang)
	}
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/clear-history", clearHistoryRequest{Language: lang}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Invalidate drops the cached translations and sources for this server.
func (c *Client) Invalidate(ctx context.Context) error {
	keys := []string{keySources}
	for _, l := range []locale.Lang{locale.English, locale.Arabic} {
		keys = append(keys, keyTranslationsPref+l.String())
	}
	for _, k := range keys {
		if err := c.cache.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// cached fills v from the cache or by calling fetch, then stores v. Cache
// failures are treated as misses.
func (c *Client) cached(ctx context.Context, keyType, key string, v any, fetch func() error) error {
	hooks := observability.Cache()
	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, keyType)
				return nil
			}
		}
	}
	hooks.OnCacheMiss(ctx, keyType)

	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode %s body", path)
		}
		payload = data
	}
	return httputil.Retry(ctx, c.attempts, c.retryDelay, func() error {
		return c.roundTrip(ctx, method, path, payload, out)
	})
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidURL, err, "build %s", op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	host := req.URL.Host
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return transportError(ctx, op, err)
	}

	// Bodies that are not a JSON object simply carry no error field.
	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	if err := statusError(op, resp.StatusCode, eb); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: decode response: %v", ErrNetwork, err), "%s", op)
	}
	return nil
}
