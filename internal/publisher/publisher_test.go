package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTwitter(t *testing.T, status int, body string) *Twitter {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "OAuth "), "request is not OAuth1 signed")
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_consumer_key="key"`)
		assert.Contains(t, r.Header.Get("Authorization"), `oauth_token="token"`)

		var req tweetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	creds := Credentials{APIKey: "key", APISecret: "secret", AccessToken: "token", AccessTokenSecret: "token-secret"}
	return NewTwitter(creds, srv.URL, 5*time.Second)
}

func TestTwitter_Created(t *testing.T) {
	tw := newTestTwitter(t, http.StatusCreated, `{"data":{"id":"1","text":"hello world"}}`)

	res, err := tw.Publish(context.Background(), "hello world")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, res.Details, `"id":"1"`)
	assert.Empty(t, res.Guidance)
}

func TestTwitter_Forbidden(t *testing.T) {
	tw := newTestTwitter(t, http.StatusForbidden, `{"title":"Forbidden","detail":"You are not permitted to perform this action."}`)

	res, err := tw.Publish(context.Background(), "hello world")
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, PermissionGuidance, res.Guidance)
	assert.Contains(t, res.Details, "not permitted")

	var pe *PublishError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusForbidden, pe.Code)
	assert.ErrorIs(t, err, ErrPublishFailed)
}

func TestTwitter_Unauthorized(t *testing.T) {
	tw := newTestTwitter(t, http.StatusUnauthorized, `{"title":"Unauthorized"}`)

	res, err := tw.Publish(context.Background(), "hello world")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, AuthGuidance, res.Guidance)
}

func TestTwitter_OtherFailure(t *testing.T) {
	tw := newTestTwitter(t, http.StatusTooManyRequests, "")

	res, err := tw.Publish(context.Background(), "hello world")
	require.ErrorIs(t, err, ErrPublishFailed)
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Empty(t, res.Guidance)
	assert.Equal(t, `{"message":"No response content"}`, res.Details)
}

func TestTwitter_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tw := NewTwitter(Credentials{APIKey: "k", APISecret: "s", AccessToken: "t", AccessTokenSecret: "ts"}, url, time.Second)
	res, err := tw.Publish(context.Background(), "hello")
	require.ErrorIs(t, err, ErrPublishFailed)
	assert.False(t, res.Success)

	var pe *PublishError
	require.True(t, errors.As(err, &pe))
	assert.Zero(t, pe.Code)
}

func TestClassify(t *testing.T) {
	assert.True(t, Classify(http.StatusCreated, "{}").Success)
	assert.False(t, Classify(http.StatusOK, "{}").Success)
	assert.Equal(t, PermissionGuidance, Classify(http.StatusForbidden, "").Guidance)
	assert.Equal(t, AuthGuidance, Classify(http.StatusUnauthorized, "").Guidance)
	assert.Empty(t, Classify(http.StatusInternalServerError, "boom").Guidance)
}

func TestMock_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock_tweets.txt")
	m := NewMock(path)
	m.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }

	res, err := m.Publish(context.Background(), "first")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	_, err = m.Publish(context.Background(), "second")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2026-10-14 09:00:00] first\n[2026-10-14 09:00:00] second\n", string(data))
}

func TestMock_UnwritableFile(t *testing.T) {
	m := NewMock(filepath.Join(t.TempDir(), "missing-dir", "tweets.txt"))

	res, err := m.Publish(context.Background(), "x")
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.False(t, res.Success)
}
