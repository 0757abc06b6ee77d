// Package events announces post lifecycle changes to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/creatorstation/postdesk/internal/models"
	"github.com/nats-io/nats.go"
)

type Kind string

const (
	PostScheduled Kind = "scheduled"
	PostApproved  Kind = "approved"
	PostRejected  Kind = "rejected"
	PostPublished Kind = "published"
)

// Event is the JSON payload published for every lifecycle change.
type Event struct {
	Kind     Kind            `json:"-"`
	PostID   string          `json:"post_id,omitempty"`
	Platform models.Platform `json:"platform,omitempty"`
	Status   models.Status   `json:"status,omitempty"`
	At       time.Time       `json:"at"`
}

func (e Event) Subject() string {
	return "post." + string(e.Kind)
}

// Notifier delivers lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

type NatsNotifier struct {
	nc *nats.Conn
}

func NewNatsNotifier(nc *nats.Conn) *NatsNotifier {
	return &NatsNotifier{nc: nc}
}

func (n *NatsNotifier) Notify(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: ev.Subject(),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Content-Type", "application/json")

	log.Printf("Publishing event %s for post %s", msg.Subject, ev.PostID)
	return n.nc.PublishMsg(msg)
}
