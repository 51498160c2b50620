package ecommerce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// maxResponseSize is the maximum allowed response size from a marketplace API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultRequestTimeout bounds a single order-listing request
const defaultRequestTimeout = 30 * time.Second

// newHTTPClient builds the shared client used by all adapters
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doGet performs a bearer-authenticated GET against a marketplace API and
// returns the response body. HTTP errors and timeouts are mapped onto the
// adapter error sentinels so callers can translate them uniformly.
func doGet(ctx context.Context, client *http.Client, endpoint, bearer string, params url.Values) ([]byte, error) {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", marketplace.ErrAPIRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", marketplace.ErrAPITimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", marketplace.ErrAPIRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", marketplace.ErrAPIInvalidResponse, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", marketplace.ErrAPIRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// isTimeout reports whether the transport error was a deadline expiry
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// warnUnknownStatus logs the fallback applied when a marketplace sends a
// status string outside its documented vocabulary
func warnUnknownStatus(logger *zap.Logger, mp marketplace.Marketplace, orderID, status string) {
	logger.Warn("unknown marketplace order status, defaulting to pending",
		zap.String("marketplace", mp.String()),
		zap.String("order_id", orderID),
		zap.String("status", status),
	)
}
