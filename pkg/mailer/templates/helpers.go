package templates

import (
	"time"

	"github.com/oksasatya/go-task-manager/config"
)

// Brand carries the static identity printed in every email.
type Brand struct {
	AppName     string
	CompanyName string
	LogoURL     string
	SupportURL  string
	AppURL      string
}

func BrandFromConfig(cfg *config.Config) Brand {
	if cfg == nil {
		return Brand{}
	}
	return Brand{
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		LogoURL:     cfg.LogoURL,
		SupportURL:  cfg.SupportURL,
		AppURL:      cfg.AppURL,
	}
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

// TaskInfo is the subset of a task shown in notifications.
type TaskInfo struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
}

func WithTask(t TaskInfo) Option {
	return func(d *EmailData) {
		d.TaskTitle = t.Title
		d.TaskDescription = t.Description
		d.TaskPriority = t.Priority
		d.TaskStatus = t.Status
		d.TaskDueDate = t.DueDate
	}
}

// NewBaseEmailData fills branding and recipient fields, then applies opts.
func NewBaseEmailData(b Brand, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		LogoURL:     b.LogoURL,
		SupportURL:  b.SupportURL,
		AppURL:      b.AppURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, Welcome, name, email, opts...))
}

func NewTaskHighPriorityData(b Brand, name, email string, task TaskInfo, opts ...Option) map[string]any {
	opts = append([]Option{WithTask(task)}, opts...)
	return ToMap(NewBaseEmailData(b, TaskHighPriority, name, email, opts...))
}

func NewProfileUpdatedData(b Brand, name, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(b, ProfileUpdated, name, email, opts...))
}
