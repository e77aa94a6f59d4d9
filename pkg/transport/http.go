package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// maxErrorBody caps how much of a failed response body is kept on a
// StatusError.
const maxErrorBody = 4 << 10

// Option configures the HTTP source and submitter.
type Option func(*options)

type options struct {
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger
	header  http.Header
}

func newOptions(opts []Option) options {
	cfg := options{logger: zerolog.Nop(), header: http.Header{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = &http.Client{}
	}
	return cfg
}

// WithHTTPClient injects the client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger routes request logging to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header.Add(key, value)
	}
}

// FieldsURL builds the address of a field-definitions document:
// base + prefix + formID + ".json" with formId and portalId in the query.
func FieldsURL(base, formID, portalID, prefix string) string {
	query := url.Values{}
	query.Set("formId", formID)
	query.Set("portalId", portalID)

	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString(prefix)
	builder.WriteString(url.PathEscape(formID))
	builder.WriteString(".json?")
	builder.WriteString(query.Encode())
	return builder.String()
}

// HTTPSource fetches field definitions with a single GET.
type HTTPSource struct {
	url  string
	opts options
}

// NewHTTPSource returns a source for the document at rawURL.
func NewHTTPSource(rawURL string, opts ...Option) *HTTPSource {
	return &HTTPSource{url: rawURL, opts: newOptions(opts)}
}

// NewFormSource returns a source for the document of formID below base.
func NewFormSource(base, formID, portalID, prefix string, opts ...Option) *HTTPSource {
	return NewHTTPSource(FieldsURL(base, formID, portalID, prefix), opts...)
}

// URL returns the document address.
func (s *HTTPSource) URL() string {
	return s.url
}

// Load implements FieldSource. Transport failures, non-2xx responses and
// malformed documents are returned as *FetchError.
func (s *HTTPSource) Load(ctx context.Context) ([]model.Field, error) {
	data, err := s.fetch(ctx)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	fields, err := model.DecodeJSON(data)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	s.opts.logger.Debug().Str("url", s.url).Int("fields", len(fields)).Msg("fields fetched")
	return fields, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, errors.New("url is required")
	}
	resp, cancel, err := do(ctx, s.opts, http.MethodGet, s.url, nil, "")
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func do(ctx context.Context, o options, method, target string, body io.Reader, contentType string) (*http.Response, context.CancelFunc, error) {
	reqCtx, cancel := ctx, context.CancelFunc(func() {})
	if o.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, o.timeout)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	for key, values := range o.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		cancel()
		o.logger.Debug().Err(err).Str("method", method).Str("url", target).Msg("request failed")
		return nil, nil, err
	}
	o.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")
	return resp, cancel, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method: resp.Request.Method,
		URL:    resp.Request.URL.String(),
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   body,
	}
}
