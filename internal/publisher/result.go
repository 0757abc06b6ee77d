// Package publisher pushes approved post text to Twitter.
package publisher

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	AuthGuidance       = "Authentication failed. Your API keys may be invalid or expired."
	PermissionGuidance = "This is likely a permissions issue. Check that your Twitter developer account has paid access " +
		"(Basic tier minimum), that your app has 'Write' permissions enabled, and that your tokens carry the tweet.write scope."
)

var ErrPublishFailed = errors.New("publish failed")

// Result is what the caller shows after a publish attempt.
type Result struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Details    string `json:"details,omitempty"`
	Guidance   string `json:"guidance,omitempty"`
}

// PublishError carries the upstream status code and body. Code is 0 when
// the request never got a response.
type PublishError struct {
	Code int
	Body string
	Err  error
}

func (e *PublishError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("publish failed: %v", e.Err)
	}
	return fmt.Sprintf("publish failed with status %d: %s", e.Code, e.Body)
}

func (e *PublishError) Is(target error) bool { return target == ErrPublishFailed }

func (e *PublishError) Unwrap() error { return e.Err }

// Classify turns a response status and body into a Result.
func Classify(code int, body string) Result {
	if code == http.StatusCreated {
		return Result{Success: true, StatusCode: code, Details: body}
	}

	if body == "" {
		body = `{"message":"No response content"}`
	}
	res := Result{StatusCode: code, Details: body}
	switch code {
	case http.StatusUnauthorized:
		res.Guidance = AuthGuidance
	case http.StatusForbidden:
		res.Guidance = PermissionGuidance
	}
	return res
}
