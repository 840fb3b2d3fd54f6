// Package subscription stores saved searches ("watch this query and message
// me") so that the digest job can re-run them.
package subscription

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"power-team-radar/internal/pipeline"
)

// ErrNotFound is returned when a subscription id is unknown.
var ErrNotFound = errors.New("subscription not found")

// ErrMissingRecipient is returned when a subscription has no recipient.
var ErrMissingRecipient = errors.New("recipient is required")

// Subscription is a saved search plus the recipient of its digest.
type Subscription struct {
	ID        string                 `json:"id"`
	Recipient string                 `json:"recipient"`
	Request   pipeline.SearchRequest `json:"request"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store persists subscriptions. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, s Subscription) error
	Get(ctx context.Context, id string) (Subscription, error)
	List(ctx context.Context) ([]Subscription, error)
	Delete(ctx context.Context, id string) error
}

// New builds a subscription with a fresh id. The recipient is trimmed the same
// way the notifier trims it, so a blank recipient is rejected here.
func New(recipient string, req pipeline.SearchRequest, now time.Time) (Subscription, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return Subscription{}, ErrMissingRecipient
	}
	return Subscription{
		ID:        NewID(),
		Recipient: recipient,
		Request:   req,
		CreatedAt: now.UTC(),
	}, nil
}

// NewID returns a subscription id of the form "sub_<uuid>".
func NewID() string {
	return "sub_" + uuid.NewString()
}
