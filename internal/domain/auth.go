// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User represents a registered user and their profile.
type User struct {
	ID           int64     `json:"UserID"`
	Username     string    `json:"Username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"Email"`
	Age          int       `json:"Age"`
	Weight       float64   `json:"Weight"`
	Gender       string    `json:"Gender"`
	CreatedAt    time.Time `json:"CreatedAt"`
}

// NewUser holds the fields required to create a user.
type NewUser struct {
	Username     string
	PasswordHash string
	Email        string
	Age          int
	Weight       float64
	Gender       string
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Age    *int
	Weight *float64
	Gender *string
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
	UpdateProfile(ctx context.Context, id int64, p ProfilePatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
