package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// AccountMetrics is the engagement summary for a posting account.
type AccountMetrics struct {
	FollowersCount    int     `json:"followers_count"`
	FriendsCount      int     `json:"friends_count"`
	StatusesCount     int     `json:"statuses_count"`
	TotalEngagement   int     `json:"total_engagement"`
	AverageEngagement float64 `json:"average_engagement"`
}

// AnalyticsClient fetches engagement summaries. Reads are idempotent,
// so transient failures are retried with exponential backoff and
// responses are served through a caching transport.
type AnalyticsClient struct {
	c *httpClient
}

// Summary fetches the engagement summary for a username.
func (a *AnalyticsClient) Summary(ctx context.Context, username string) (AccountMetrics, error) {
	if username == "" {
		return AccountMetrics{}, errors.New("username is required")
	}

	operation := func() (AccountMetrics, error) {
		var metrics AccountMetrics
		err := a.c.getJSON(ctx, "/analytics/"+url.PathEscape(username), &metrics)
		if err != nil {
			// Client-side and auth errors won't heal on retry.
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code < 500 {
				return AccountMetrics{}, backoff.Permanent(err)
			}
			if errors.Is(err, ErrUnauthorized) {
				return AccountMetrics{}, backoff.Permanent(err)
			}
			return AccountMetrics{}, err
		}
		return metrics, nil
	}

	metrics, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
	if err != nil {
		return AccountMetrics{}, fmt.Errorf("failed to fetch analytics for %s: %w", username, err)
	}

	return metrics, nil
}
