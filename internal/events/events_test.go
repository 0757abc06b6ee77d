package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/creatorstation/postdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "post.scheduled", Event{Kind: PostScheduled}.Subject())
	assert.Equal(t, "post.approved", Event{Kind: PostApproved}.Subject())
	assert.Equal(t, "post.rejected", Event{Kind: PostRejected}.Subject())
	assert.Equal(t, "post.published", Event{Kind: PostPublished}.Subject())
}

func TestEventPayload(t *testing.T) {
	ev := Event{
		Kind:     PostApproved,
		PostID:   "abc",
		Platform: models.PlatformTwitter,
		Status:   models.StatusApproved,
		At:       time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"post_id":"abc","platform":"Twitter","status":"Approved","at":"2026-10-14T09:00:00Z"}`, string(data))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), Event{Kind: PostScheduled}))
}
