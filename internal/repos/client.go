package repos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	applog "lostpets/internal/log"
)

var (
	ErrNotFound     = errors.New("listing not found")
	ErrUnauthorized = errors.New("session not accepted by api")
	// ErrBadResponse covers bodies that are not the JSON the API promises.
	ErrBadResponse = errors.New("malformed api response")
	// ErrUnrecognized is a rejection whose body carries no message we can show.
	ErrUnrecognized = errors.New("unrecognized api error body")
)

// RejectionError is a non-200 answer from the create endpoint together with
// the messages the API reported.
type RejectionError struct {
	Status   int
	Messages []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("api rejected listing (status %d): %s", e.Status, strings.Join(e.Messages, "; "))
}

// NewClient builds the resty client shared by all repos. Every call made
// through it is logged with its status and latency.
func NewClient(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "lostpets/1.0").
		SetLogger(restyLogger{})

	c.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		applog.Info(nil, "api.call", map[string]any{
			"method": r.Request.Method,
			"url":    r.Request.URL,
			"status": r.StatusCode(),
			"ms":     r.Time().Milliseconds(),
		})
		return nil
	})
	return c
}

// restyLogger sends resty's own diagnostics to the JSON log.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) {
	applog.Error(nil, "api.client", fmt.Errorf(format, v...), nil)
}

func (restyLogger) Warnf(format string, v ...any) {
	applog.Warn(nil, "api.client", fmt.Errorf(format, v...), nil)
}

func (restyLogger) Debugf(format string, v ...any) {
	applog.Debug(nil, "api.client", map[string]any{"msg": fmt.Sprintf(format, v...)})
}
