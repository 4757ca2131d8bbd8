package entity

import (
	"time"
)

// User is the principal that owns credentials and tasks.
// PasswordHash holds a bcrypt hash; the plain secret is never stored.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Gender       string
	ProfileImage string
	Bio          string
	Nickname     string
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
