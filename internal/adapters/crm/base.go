// internal/adapters/crm/base.go
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"groupstay_crm/internal/adapters/observability"
	"groupstay_crm/internal/domain"
)

// ErrDisabled is returned by Base.Do when the integration is switched off.
// It is not a failure of the remote system.
var ErrDisabled = domain.ErrCRMDisabled

const disabledMessage = "CRM integration disabled"

// Base carries the HTTP plumbing shared by provider adapters.
type Base struct {
	cfg          domain.CRMConfig
	service      string // metrics label
	secretHeader string
	hc           *http.Client
	rl           *rate.Limiter
}

type Option func(*Base)

// WithHTTPClient replaces the default client (20s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(b *Base) { b.hc = hc }
}

func newBase(cfg domain.CRMConfig, service, secretHeader string, opts ...Option) Base {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	b := Base{
		cfg:          cfg,
		service:      service,
		secretHeader: secretHeader,
		hc:           &http.Client{Timeout: 20 * time.Second},
		rl:           rate.NewLimiter(rate.Limit(rps), rps),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Do issues one authenticated JSON request against the configured base URL.
// There are no retries: transport errors, non-2xx statuses and undecodable
// bodies all come back as a plain error.
func (b *Base) Do(ctx context.Context, endpoint, method string, data any) (map[string]any, error) {
	if !b.cfg.Enabled {
		return nil, ErrDisabled
	}

	var body io.Reader
	if data != nil && hasBody(method) {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	// throttle only; a denied wait is an error like any other
	if err := b.rl.Wait(ctx); err != nil {
		return nil, err
	}

	url := strings.TrimRight(b.cfg.APIURL, "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	if b.cfg.APISecret != "" && b.secretHeader != "" {
		req.Header.Set(b.secretHeader, b.cfg.APISecret)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "groupstay-crm/1.0")

	start := time.Now()
	resp, err := b.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(b.service, metricEndpoint(endpoint), 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(b.service, metricEndpoint(endpoint), resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return out, nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// metricEndpoint drops the id segment so label cardinality stays bounded.
func metricEndpoint(endpoint string) string {
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(parts) > 3 {
		parts = append(parts[:3], "{id}")
	}
	return "/" + strings.Join(parts, "/")
}

// ---- result envelopes ----

func SuccessResult(id, message string) domain.SyncResult {
	return domain.SyncResult{Success: true, CRMID: id, Message: message, Timestamp: time.Now()}
}

func ErrorResult(err error) domain.SyncResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return domain.SyncResult{Success: false, Error: msg, Timestamp: time.Now()}
}

func DisabledResult() domain.SyncResult {
	return domain.SyncResult{Success: false, Message: disabledMessage, Error: ErrDisabled.Error(), Timestamp: time.Now()}
}

// Wrap is the one place adapter mutations turn errors into results. fn
// returns the external id and an optional message.
func Wrap(fn func() (string, string, error)) (res domain.SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ErrorResult(fmt.Errorf("panic: %v", r))
		}
	}()
	id, msg, err := fn()
	switch {
	case errors.Is(err, ErrDisabled):
		return DisabledResult()
	case err != nil:
		return ErrorResult(err)
	}
	return SuccessResult(id, msg)
}

// WrapGet is Wrap for read paths: any error yields nil.
func WrapGet[T any](fn func() (*T, error)) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()
	v, err := fn()
	if err != nil {
		return nil
	}
	return v
}
