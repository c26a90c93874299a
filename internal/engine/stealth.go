package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth types and functions for engine consumers.
type (
	BrowserClient = stealth.BrowserClient
	RetryConfig   = stealth.RetryConfig
)

var DefaultRetryConfig = stealth.DefaultRetryConfig

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }

// TransportRetry returns the retry policy for single HTTP exchanges.
// MaxRetries comes from HTTP_RETRIES and defaults to 0, so a failed call is
// reported as-is unless an operator opts in.
func TransportRetry() RetryConfig {
	rc := DefaultRetryConfig
	rc.MaxRetries = cfg.HTTPRetries
	return rc
}

func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}

// HTTPClient returns the configured client or a default one.
func HTTPClient() *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return http.DefaultClient
}
