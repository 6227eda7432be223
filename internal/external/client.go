// Package external holds the clients for the spot APIs and vendor storefronts.
package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kjannette/bullion-premium/internal/httputil"
	"github.com/kjannette/bullion-premium/internal/logging"
	"github.com/kjannette/bullion-premium/internal/metrics"
)

var (
	// ErrNotConfigured means a required credential or setting is missing.
	ErrNotConfigured = errors.New("connector not configured")
	// ErrNotImplemented is returned by connector modes that do not exist yet.
	ErrNotImplemented = errors.New("connector mode not implemented")
)

const (
	maxBody   = 4 << 20
	userAgent = "Mozilla/5.0 (compatible; bullion-premium/1)"
)

// vendorRetry is used for free storefront endpoints.
var vendorRetry = httputil.RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    4 * time.Second,
}

// Options shared by every client.
type Options struct {
	Timeout time.Duration
	Logger  logrus.FieldLogger
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
}

type base struct {
	name       string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        *logrus.Entry
}

func newBase(name string, o Options, retry httputil.RetryConfig) base {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return base{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		log:        logging.Component(o.Logger, name),
	}
}

// do runs one logical request and returns the 2xx body.
func (b *base) do(ctx context.Context, buildReq func() (*http.Request, error)) ([]byte, error) {
	start := time.Now()
	body, err := b.fetch(ctx, buildReq)
	metrics.RecordUpstream(b.name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.name, err)
	}
	return body, nil
}

func (b *base) fetch(ctx context.Context, buildReq func() (*http.Request, error)) ([]byte, error) {
	resp, err := httputil.Do(ctx, b.httpClient, b.retry, b.log, buildReq)
	if err != nil {
		return nil, err
	}
	return httputil.ReadBody(resp, maxBody)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
