// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"nutritrack/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided password was incorrect.
	ErrInvalidCredentials = errors.New("authentication failed")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// DefaultSessionTTL is used when NewAuthService is given a zero TTL.
const DefaultSessionTTL = 24 * time.Hour

// Registration is the input of Register.
type Registration struct {
	Username string
	Password string
	Email    string
	Age      int
	Weight   float64
	Gender   string
}

// Validate checks required fields and numeric ranges.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" || strings.TrimSpace(r.Email) == "" {
		return domain.Invalid("", "username, password, and email are required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return domain.Invalid("email", "is not a valid address")
	}
	if r.Age <= 0 {
		return domain.Invalid("age", "must be a positive integer")
	}
	if r.Weight <= 0 {
		return domain.Invalid("weight", "must be a positive number")
	}
	return nil
}

// AuthService handles registration, authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SessionTTL returns the lifetime of newly created sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Register creates a user and opens a session for them.
func (s *AuthService) Register(ctx context.Context, r Registration, userAgent string) (*domain.User, string, error) {
	user, err := s.CreateUser(ctx, r)
	if err != nil {
		return nil, "", err
	}
	token, err := s.openSession(ctx, user.ID, userAgent)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CreateUser validates and persists a new user without opening a session.
func (s *AuthService) CreateUser(ctx context.Context, r Registration) (*domain.User, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, r.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username is already in use: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, domain.NewUser{
		Username:     r.Username,
		PasswordHash: string(hash),
		Email:        r.Email,
		Age:          r.Age,
		Weight:       r.Weight,
		Gender:       r.Gender,
	})
}

// Login authenticates a user and creates a session. Unknown usernames and
// wrong passwords are reported separately.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID, userAgent)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if !ConstantTimeCompare(session.UserAgent, userAgent) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, email, userAgent string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// SSO users have no local password.
		user, err = s.users.Create(ctx, domain.NewUser{Username: username, Email: email})
		if err != nil {
			// Lost a race on the unique username.
			user, err = s.users.GetByUsername(ctx, username)
			if err != nil || user == nil {
				return "", fmt.Errorf("provision sso user: %w", err)
			}
		}
	}
	return s.openSession(ctx, user.ID, userAgent)
}

// PruneExpired deletes expired sessions and returns how many were removed.
func (s *AuthService) PruneExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) openSession(ctx context.Context, userID int64, userAgent string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, userAgent, s.now().Add(s.ttl)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
