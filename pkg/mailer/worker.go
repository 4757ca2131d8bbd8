package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

// Outcome tells the queue consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // delivered
	Reject                 // drop, payload can never succeed
	Requeue                // transient send failure
)

var ErrEmptyJob = errors.New("email job has neither template nor subject with body")

// Process decodes one queued job, renders it and hands it to s.
func Process(ctx context.Context, s Sender, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Reject, fmt.Errorf("bad message: %w", err)
	}
	if strings.TrimSpace(job.To) == "" {
		return Reject, errors.New("bad message: missing recipient")
	}
	EnsureRecipient(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return Reject, fmt.Errorf("render %s: %w", job.Template, err)
		}
		subject, text, html = s, t, h
	} else if subject == "" || (text == "" && html == "") {
		return Reject, ErrEmptyJob
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := s.Send(c, job.To, strings.TrimSpace(subject), text, html); err != nil {
		return Requeue, fmt.Errorf("send: %w", err)
	}
	return Ack, nil
}
