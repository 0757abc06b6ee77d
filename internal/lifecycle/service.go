// Package lifecycle moves posts from draft to Pending and through review.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/creatorstation/postdesk/internal/events"
	"github.com/creatorstation/postdesk/internal/generator"
	"github.com/creatorstation/postdesk/internal/ledger"
	"github.com/creatorstation/postdesk/internal/models"
	"github.com/creatorstation/postdesk/internal/publisher"
	"github.com/creatorstation/postdesk/internal/timeslot"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedPlatform = errors.New("publishing is only supported for Twitter")
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, text string) (publisher.Result, error)
}

// Draft is generated text that has not been written to the ledger. The
// caller keeps it between actions.
type Draft struct {
	Text      string          `json:"text"`
	Platform  models.Platform `json:"platform,omitempty"`
	Type      models.PostType `json:"type,omitempty"`
	Topic     string          `json:"topic,omitempty"`
	WordLimit int             `json:"word_limit,omitempty"`
}

func (d Draft) Empty() bool { return d.Text == "" }

type Service struct {
	store     ledger.Store
	generator Generator
	publisher Publisher
	notifier  events.Notifier

	now   func() time.Time
	newID func() string
}

func NewService(store ledger.Store, gen Generator, pub Publisher, notifier events.Notifier) *Service {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &Service{
		store:     store,
		generator: gen,
		publisher: pub,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// BuildPrompt is the instruction sent to the generator.
func BuildPrompt(req DraftRequest) string {
	return fmt.Sprintf("Write a %s style post for %s. Limit it to %d words. Topic: %s",
		strings.ToLower(string(req.Type)), req.Platform, req.WordLimit, strings.TrimSpace(req.Topic))
}

func (s *Service) GenerateDraft(ctx context.Context, req DraftRequest) (Draft, error) {
	if err := req.Validate(); err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	text, err := s.generator.Generate(ctx, BuildPrompt(req))
	if err != nil {
		log.Printf("Error generating draft for %s/%s: %v", req.Platform, req.Type, err)
		if !errors.Is(err, generator.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", generator.ErrGenerationFailed, err)
		}
		return Draft{}, err
	}

	return Draft{
		Text:      text,
		Platform:  req.Platform,
		Type:      req.Type,
		Topic:     req.Topic,
		WordLimit: req.WordLimit,
	}, nil
}

// Regenerate asks for a fresh draft with the same contract as GenerateDraft.
func (s *Service) Regenerate(ctx context.Context, req DraftRequest) (Draft, error) {
	return s.GenerateDraft(ctx, req)
}

// SchedulePost writes a new Pending post. On success the returned draft is
// empty; on failure the given draft is returned untouched.
func (s *Service) SchedulePost(ctx context.Context, draft Draft, req ScheduleRequest) (models.Post, Draft, error) {
	if err := req.Validate(); err != nil {
		return models.Post{}, draft, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slot, err := timeslot.Parse(req.ScheduledTime)
	if err != nil {
		return models.Post{}, draft, fmt.Errorf("%w: scheduled_time: %w", ErrInvalidInput, err)
	}

	post := models.Post{
		ID:            s.newID(),
		Platform:      req.Platform,
		Type:          req.Type,
		Text:          ledger.NormalizeText(req.Text),
		Status:        models.StatusPending,
		ScheduledTime: slot.String(),
		CreatedAt:     s.now().Truncate(time.Second),
	}

	if req.Image != nil {
		ref, err := s.store.SaveImage(ctx, post.ID, req.Image.Filename, req.Image.Data)
		if err != nil {
			return models.Post{}, draft, err
		}
		post.Image = ref
	}

	if err := s.store.Append(ctx, post); err != nil {
		if post.HasImage() {
			if derr := s.store.DeleteImage(ctx, post.Image); derr != nil {
				log.Printf("Error removing orphaned image %s: %v", post.Image, derr)
			}
		}
		return models.Post{}, draft, err
	}

	log.Printf("Scheduled post %s for %s at %s", post.ID, post.Platform, post.ScheduledTime)
	s.notify(ctx, events.Event{Kind: events.PostScheduled, PostID: post.ID, Platform: post.Platform, Status: post.Status})
	return post, Draft{}, nil
}

// PublishNow sends text straight to the platform. The ledger is not touched.
func (s *Service) PublishNow(ctx context.Context, text string, platform models.Platform) (publisher.Result, error) {
	if strings.TrimSpace(text) == "" {
		return publisher.Result{}, fmt.Errorf("%w: text: cannot be blank", ErrInvalidInput)
	}
	if platform != models.PlatformTwitter {
		return publisher.Result{}, fmt.Errorf("%w: got %q", ErrUnsupportedPlatform, platform)
	}

	res, err := s.publisher.Publish(ctx, text)
	if err != nil {
		log.Printf("Error publishing to %s: %v", platform, err)
		return res, err
	}

	s.notify(ctx, events.Event{Kind: events.PostPublished, Platform: platform})
	return res, nil
}

// Reject discards a draft. Nothing is persisted.
func (s *Service) Reject(draft Draft) Draft {
	if !draft.Empty() {
		log.Printf("Discarded %s draft", draft.Platform)
	}
	return Draft{}
}

func (s *Service) Approve(ctx context.Context, id string) error {
	return s.review(ctx, id, models.StatusApproved, events.PostApproved)
}

func (s *Service) RejectPending(ctx context.Context, id string) error {
	return s.review(ctx, id, models.StatusRejected, events.PostRejected)
}

func (s *Service) review(ctx context.Context, id string, status models.Status, kind events.Kind) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id: cannot be blank", ErrInvalidInput)
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	log.Printf("Post %s %s", id, strings.ToLower(string(status)))
	s.notify(ctx, events.Event{Kind: kind, PostID: id, Status: status})
	return nil
}

// Posts lists the ledger, optionally only the posts in one status.
func (s *Service) Posts(ctx context.Context, status *models.Status) ([]models.Post, error) {
	posts, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return posts, nil
	}

	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status == *status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// PendingPosts is the review list.
func (s *Service) PendingPosts(ctx context.Context) ([]models.Post, error) {
	pending := models.StatusPending
	return s.Posts(ctx, &pending)
}

func (s *Service) Image(ctx context.Context, ref string) ([]byte, error) {
	return s.store.ReadImage(ctx, ref)
}

func (s *Service) notify(ctx context.Context, ev events.Event) {
	ev.At = s.now().UTC()
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Printf("Error publishing %s event: %v", ev.Subject(), err)
	}
}
