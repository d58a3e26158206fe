package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// doRequestWithRetry performs req, retrying on transport errors, 429 and
// 5xx responses with exponential backoff. A Retry-After header from Spotify
// overrides the computed backoff. All catalog requests are GETs, so the
// request can be re-sent as-is.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		if err != nil {
			c.logger.Warn("spotify adapter: retrying request",
				zap.Int("attempt", attempt+1),
				zap.Int("maxRetries", c.maxRetries),
				zap.Error(err))
		} else {
			c.logger.Warn("spotify adapter: retrying request",
				zap.Int("attempt", attempt+1),
				zap.Int("maxRetries", c.maxRetries),
				zap.Int("status", resp.StatusCode))
			_ = resp.Body.Close()
		}

		if attempt == c.maxRetries-1 {
			if err != nil {
				return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", c.maxRetries, err)
			}
			return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: status %d", c.maxRetries, resp.StatusCode)
		}

		backoff := c.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("spotify adapter: request failed after %d attempts", c.maxRetries)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
