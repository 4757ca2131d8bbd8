package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brand = Brand{AppName: "Tasks", CompanyName: "Acme", AppURL: "https://tasks.example.com"}

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData(brand, "Alice", "alice@example.com")
	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Tasks", subject)
	assert.Contains(t, text, "Hi Alice,")
	assert.Contains(t, text, "alice@example.com")
	assert.Contains(t, text, "https://tasks.example.com")
	assert.Contains(t, html, "Alice")
}

func TestRender_TaskHighPriority(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	data := NewTaskHighPriorityData(brand, "Bob", "bob@example.com",
		TaskInfo{Title: "Fix <prod>", Status: "in_progress", Priority: "high"}, WithTime(at))

	subject, text, html, err := Render(TaskHighPriority, data)
	require.NoError(t, err)
	assert.Equal(t, "High priority task: Fix <prod>", subject)
	assert.Contains(t, text, "Status:   In progress")
	assert.Contains(t, text, "Due date: none")
	assert.Contains(t, text, "04 March 2026, 09:30")
	assert.NotContains(t, html, "<prod>", "html output is escaped")
}

func TestRender_ProfileUpdated(t *testing.T) {
	data := NewProfileUpdatedData(brand, "Carol", "carol@example.com", map[string]string{"name": "Caroline"})
	subject, text, _, err := Render(ProfileUpdated, data)
	require.NoError(t, err)
	assert.Equal(t, "Your Tasks profile was updated", subject)
	assert.Contains(t, text, "- name: Caroline")
}

func TestRender_DefaultsWhenBrandEmpty(t *testing.T) {
	subject, _, _, err := Render(Welcome, NewWelcomeData(Brand{}, "", "x@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Task Manager", subject)
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", map[string]any{})
	assert.Error(t, err)
	assert.False(t, Known("password_reset"))
}

func TestTitleFn(t *testing.T) {
	assert.Equal(t, "In progress", titleFn("in_progress"))
	assert.Equal(t, "", titleFn("  "))
}
