package apiclient

import "time"

type AccessToken struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Nickname     string    `json:"nickname,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProfileInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Gender   string `json:"gender,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Location string `json:"location,omitempty"`
}

type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	Status      string    `json:"status"`
	Priority    *string   `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskInput is sent whole on update; omitted optional fields are cleared.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
}

type TaskFilter struct {
	Status   string
	Priority string
	Page     int
	PerPage  int
}

type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}
