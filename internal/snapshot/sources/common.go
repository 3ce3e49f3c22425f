package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/i474232898/city-snapshot/internal/snapshot"
	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errNoAPIKey     = errors.New("api key is not configured")
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 4 << 20

// fetch executes req once through the run's breaker for provider and returns
// the body of a 2xx response. Every failure is classified as SourceUnavailable.
func fetch(ctx context.Context, client *http.Client, provider string, req *http.Request) ([]byte, error) {
	if client == nil {
		return nil, snapshot.Unavailable(errNoHTTPClient)
	}
	cb := circuitFor(ctx, provider)

	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, snapshot.Unavailable(fmt.Errorf("%w: %v", errCircuitOpen, err))
		}
		return nil, snapshot.Unavailable(err)
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, snapshot.Unavailable(fmt.Errorf("unexpected result type from circuit breaker"))
	}
	return body, nil
}

// fetchJSON is fetch followed by decoding into v. Decode errors are SourceMalformed.
func fetchJSON(ctx context.Context, client *http.Client, provider string, req *http.Request, v any) ([]byte, error) {
	body, err := fetch(ctx, client, provider, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return body, snapshot.Malformed(err)
	}
	return body, nil
}
