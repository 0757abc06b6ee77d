package posts

import (
	"time"

	"github.com/creatorstation/postdesk/internal/lifecycle"
	"github.com/creatorstation/postdesk/internal/models"
	"github.com/creatorstation/postdesk/internal/timeslot"
	v "github.com/go-ozzo/ozzo-validation/v4"
)

type DraftBody struct {
	Platform  models.Platform `json:"platform"`
	Type      models.PostType `json:"type"`
	Topic     string          `json:"topic"`
	WordLimit int             `json:"word_limit"`
}

func (b DraftBody) request() lifecycle.DraftRequest {
	limit := b.WordLimit
	if limit == 0 {
		limit = lifecycle.DefaultWordLimit
	}
	return lifecycle.DraftRequest{Platform: b.Platform, Type: b.Type, Topic: b.Topic, WordLimit: limit}
}

type ScheduleBody struct {
	Text          string          `json:"text" form:"text"`
	Platform      models.Platform `json:"platform" form:"platform"`
	Type          models.PostType `json:"type" form:"type"`
	ScheduledTime string          `json:"scheduled_time" form:"scheduled_time"`
}

type PublishBody struct {
	Text     string          `json:"text"`
	Platform models.Platform `json:"platform"`
}

func (b PublishBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Text, v.Required),
		v.Field(&b.Platform, v.Required),
	)
}

// PostView is a ledger post plus its advisory next occurrence.
type PostView struct {
	models.Post
	NextOccurrence *time.Time `json:"next_occurrence,omitempty"`
}

func newPostView(p models.Post, now time.Time) PostView {
	view := PostView{Post: p}
	if p.Status == models.StatusPending {
		if next, err := timeslot.NextOccurrence(p.ScheduledTime, now); err == nil {
			view.NextOccurrence = &next
		}
	}
	return view
}
