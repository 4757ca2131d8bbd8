package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/pkg/mailer"
)

// notify publishes an email job. Failures are logged and never fail the caller.
func notify(ctx context.Context, n Notifier, logger *logrus.Logger, to, template string, data map[string]any) {
	if n == nil {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := n.PublishJSON(c, job); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{"template": template, "to": to}).Warn("publish email job failed")
	}
}
