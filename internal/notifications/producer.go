// Package notifications enqueues delivery of stored notification documents.
package notifications

import (
	"context"
	"encoding/json"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pressdesk/pressdesk/jobs"
)

var titleCaser = cases.Title(language.English)

// Producer turns created notification documents into delivery tasks.
type Producer struct {
	client *jobs.Client
}

// NewProducer constructs a Producer.
func NewProducer(client *jobs.Client) *Producer {
	return &Producer{client: client}
}

// NotifyCreated enqueues delivery for a freshly stored notification.
func (p *Producer) NotifyCreated(ctx context.Context, kind string, id int64, payload json.RawMessage) error {
	subject := subjectFromPayload(kind, payload)
	_, err := p.client.EnqueueNotificationDeliver(ctx, jobs.NotificationDeliverPayload{
		ResourceID: id,
		Subject:    subject,
		Body:       payload,
	})
	return err
}

// subjectFromPayload prefers an explicit "title" field, falling back to the
// display-cased kind name.
func subjectFromPayload(kind string, payload json.RawMessage) string {
	var doc struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(payload, &doc); err == nil && doc.Title != "" {
		return doc.Title
	}
	return titleCaser.String(kind)
}
