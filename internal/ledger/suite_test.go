package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/creatorstation/postdesk/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(text string) models.Post {
	return models.Post{
		ID:            uuid.NewString(),
		Platform:      models.PlatformTwitter,
		Type:          models.PostTypeTechnical,
		Text:          text,
		Status:        models.StatusPending,
		ScheduledTime: "09:00",
		CreatedAt:     time.Date(2026, 10, 14, 9, 30, 15, 0, time.Local),
	}
}

func assertSamePost(t *testing.T, want, got models.Post) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Platform, got.Platform)
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Text, got.Text)
	assert.Equal(t, want.Image, got.Image)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.ScheduledTime, got.ScheduledTime)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %s, got %s", want.CreatedAt, got.CreatedAt)
}

// runStoreSuite checks the behaviour every backend shares.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("InitializeIsIdempotent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, newPost("kept")))
		require.NoError(t, store.Initialize(ctx))

		posts, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		store := newStore(t)

		written := []models.Post{
			newPost("plain"),
			newPost("comma, \"quotes\" and\nnewline"),
			newPost("ünïcødé 🚀 #PythonTips"),
			newPost("line one\r\nline two\r\n"),
		}
		written[1].Platform = models.PlatformInstagram
		written[1].Type = models.PostTypeFunny
		for i := range written {
			written[i].CreatedAt = written[i].CreatedAt.Add(time.Duration(i) * time.Minute)
		}

		ref, err := store.SaveImage(ctx, written[2].ID, "launch.png", []byte("png"))
		require.NoError(t, err)
		written[2].Image = ref

		for _, p := range written {
			require.NoError(t, store.Append(ctx, p))
		}

		posts, err := store.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, len(written))
		for i := range written {
			want := written[i]
			want.Text = NormalizeText(want.Text)
			assertSamePost(t, want, posts[i])
		}
		assert.Equal(t, "line one\nline two\n", posts[3].Text)
	})

	t.Run("AppendRejectsDuplicateID", func(t *testing.T) {
		store := newStore(t)
		post := newPost("first")
		require.NoError(t, store.Append(ctx, post))

		err := store.Append(ctx, post)
		assert.ErrorIs(t, err, ErrDuplicateID)

		posts, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("AppendRequiresStoredImage", func(t *testing.T) {
		store := newStore(t)
		post := newPost("with image")
		post.Image = post.ID + "_missing.png"

		err := store.Append(ctx, post)
		assert.ErrorIs(t, err, ErrImageMissing)
	})

	t.Run("UpdateStatusTouchesOnlyTarget", func(t *testing.T) {
		store := newStore(t)
		var ids []string
		for i := 0; i < 3; i++ {
			p := newPost(fmt.Sprintf("post %d", i))
			p.CreatedAt = p.CreatedAt.Add(time.Duration(i) * time.Second)
			require.NoError(t, store.Append(ctx, p))
			ids = append(ids, p.ID)
		}

		require.NoError(t, store.UpdateStatus(ctx, ids[1], models.StatusApproved))

		posts, err := store.LoadAll(ctx)
		require.NoError(t, err)
		statuses := map[string]models.Status{}
		for _, p := range posts {
			statuses[p.ID] = p.Status
		}
		assert.Equal(t, models.StatusPending, statuses[ids[0]])
		assert.Equal(t, models.StatusApproved, statuses[ids[1]])
		assert.Equal(t, models.StatusPending, statuses[ids[2]])
	})

	t.Run("UpdateStatusUnknownID", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, newPost("only")))

		err := store.UpdateStatus(ctx, "non-existent-id", models.StatusApproved)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		err = store.UpdateStatus(ctx, "non-existent-id", models.StatusRejected)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("StatusNeverReverses", func(t *testing.T) {
		store := newStore(t)
		post := newPost("reviewed")
		require.NoError(t, store.Append(ctx, post))
		require.NoError(t, store.UpdateStatus(ctx, post.ID, models.StatusRejected))

		assert.ErrorIs(t, store.UpdateStatus(ctx, post.ID, models.StatusApproved), ErrStatusFinal)
		assert.ErrorIs(t, store.UpdateStatus(ctx, post.ID, models.StatusRejected), ErrStatusFinal)
		assert.Error(t, store.UpdateStatus(ctx, post.ID, models.StatusPending))

		posts, err := store.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, models.StatusRejected, posts[0].Status)
	})
}
