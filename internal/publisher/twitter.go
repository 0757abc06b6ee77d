package publisher

import (
	"context"
	"time"

	"github.com/creatorstation/postdesk/pkg/web"
	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
)

const DefaultTwitterBaseURL = "https://api.twitter.com"

type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Twitter posts tweets through the v2 API with OAuth1 user-context signing.
type Twitter struct {
	client *resty.Client
}

func NewTwitter(creds Credentials, baseURL string, timeout time.Duration) *Twitter {
	if baseURL == "" {
		baseURL = DefaultTwitterBaseURL
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &Twitter{client: web.NewClient(httpClient, baseURL, "postdesk-publisher", timeout)}
}

type tweetRequest struct {
	Text string `json:"text"`
}

// Publish sends one tweet. A non-201 response returns the classified Result
// together with a *PublishError.
func (t *Twitter) Publish(ctx context.Context, text string) (Result, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(tweetRequest{Text: text}).
		Post("/2/tweets")
	if err != nil {
		return Result{Details: err.Error()}, &PublishError{Err: err}
	}

	res := Classify(resp.StatusCode(), resp.String())
	if !res.Success {
		return res, &PublishError{Code: res.StatusCode, Body: res.Details}
	}
	return res, nil
}
