package api

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxTweetLength is the per-tweet character limit.
const MaxTweetLength = 280

// ErrSchedule is returned when scheduling a tweet fails.
var ErrSchedule = errors.New("failed to schedule tweet")

// ScheduleRequest schedules a tweet for a connected posting account.
type ScheduleRequest struct {
	AccountID   string    `json:"account_id"`
	Text        string    `json:"text"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// SchedulerClient talks to the tweet scheduling endpoint.
type SchedulerClient struct {
	c *httpClient
}

// ScheduleTweet submits a tweet for later posting. Validation happens
// before any network call; all failures wrap ErrSchedule except an
// invalid credential, which surfaces as ErrUnauthorized.
func (s *SchedulerClient) ScheduleTweet(ctx context.Context, req ScheduleRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("%w: an account must be selected", ErrSchedule)
	}
	if req.Text == "" {
		return fmt.Errorf("%w: tweet text must not be empty", ErrSchedule)
	}
	if utf8.RuneCountInString(req.Text) > MaxTweetLength {
		return fmt.Errorf("%w: tweet exceeds %d characters", ErrSchedule, MaxTweetLength)
	}

	if err := s.c.postJSON(ctx, "/tweets/schedule", req, nil); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSchedule, err)
	}

	return nil
}
