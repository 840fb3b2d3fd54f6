// Package notify sends opportunity digests to chapter members.
//
// Only a stub is provided: messages are logged and acknowledged, nothing is
// delivered to WhatsApp.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"power-team-radar/internal/logger"
)

// StatusSent is the status reported for every accepted message.
const StatusSent = "sent"

// ErrMissingRecipient is returned when the request names no recipient.
var ErrMissingRecipient = errors.New("recipient is required")

// Request is the body of POST /notify/whatsapp.
type Request struct {
	Items     []string `json:"items"` // opportunity ids
	Recipient string   `json:"recipient"`
	Template  string   `json:"template,omitempty"`
}

// Receipt acknowledges one item.
type Receipt struct {
	ItemID    string    `json:"item_id"`
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}

// Result is the response of a send.
type Result struct {
	Status    string    `json:"status"`
	Count     int       `json:"count"`
	Recipient string    `json:"recipient"`
	Receipts  []Receipt `json:"receipts"`
}

// Notifier sends a digest of opportunity ids to a recipient.
type Notifier interface {
	Send(ctx context.Context, req Request) (*Result, error)
}

// WhatsAppStub acknowledges every item without contacting any provider.
type WhatsAppStub struct {
	log logger.Logger
	now func() time.Time
}

// NewWhatsAppStub creates the stub notifier.
func NewWhatsAppStub(log logger.Logger) *WhatsAppStub {
	if log == nil {
		log = logger.NewNop()
	}
	return &WhatsAppStub{log: log, now: time.Now}
}

// Send logs the request and returns one "sent" receipt per item.
func (w *WhatsAppStub) Send(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		return nil, ErrMissingRecipient
	}

	sentAt := w.now().UTC()
	receipts := make([]Receipt, 0, len(req.Items))
	for _, id := range req.Items {
		receipts = append(receipts, Receipt{
			ItemID:    id,
			MessageID: "wamid." + uuid.NewString(),
			Status:    StatusSent,
			SentAt:    sentAt,
		})
	}

	w.log.Info("WhatsApp digest accepted (stub)",
		logger.String("recipient", recipient),
		logger.Int("count", len(receipts)),
		logger.String("template", req.Template),
	)
	return &Result{
		Status:    StatusSent,
		Count:     len(receipts),
		Recipient: recipient,
		Receipts:  receipts,
	}, nil
}
