package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

// NewClient returns a resty client for one upstream API. A nil httpClient
// uses resty's default transport.
func NewClient(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *resty.Client {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return client.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
}

// StatusError describes a non-success response.
func StatusError(resp *resty.Response) error {
	return fmt.Errorf("unexpected response: %s, %s", resp.Status(), strings.TrimSpace(resp.String()))
}
