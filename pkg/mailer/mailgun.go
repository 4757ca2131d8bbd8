package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through one Mailgun domain. The client is built once and reused by the worker.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

// NewMailgun builds a sender for domain. apiBase selects the region endpoint,
// e.g. mg.APIBaseEU; empty keeps the US default.
func NewMailgun(domain, apiKey, sender, apiBase string) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	return &Mailgun{client: client, sender: sender}
}

// Send sends one message; html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m == nil || m.client == nil {
		return errors.New("mailgun not configured")
	}
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	msg.AddTag("task-manager")
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

var _ Sender = (*Mailgun)(nil)
