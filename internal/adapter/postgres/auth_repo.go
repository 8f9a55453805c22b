package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutritrack/internal/domain"
)

const userColumns = "id, username, password_hash, email, age, weight, gender, created_at"

type userRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Email        string    `db:"email"`
	Age          int       `db:"age"`
	Weight       float64   `db:"weight"`
	Gender       string    `db:"gender"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		Age:          r.Age,
		Weight:       r.Weight,
		Gender:       r.Gender,
		CreatedAt:    r.CreatedAt,
	}
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var r userRow
	err := d.db.GetContext(ctx, &r, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.toDomain(), nil
}

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// Create creates a new user. A taken username yields domain.ErrConflict.
func (d *DB) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	var r userRow
	err := d.db.GetContext(ctx, &r,
		"INSERT INTO users (username, password_hash, email, age, weight, gender, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "+userColumns,
		u.Username, u.PasswordHash, u.Email, u.Age, u.Weight, u.Gender, time.Now(),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return r.toDomain(), nil
}

// UpdateProfile sets the non-nil fields of p.
func (d *DB) UpdateProfile(ctx context.Context, id int64, p domain.ProfilePatch) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx,
		"UPDATE users SET age = COALESCE($2, age), weight = COALESCE($3, weight), gender = COALESCE($4, gender) WHERE id = $1",
		id, p.Age, p.Weight, p.Gender,
	))
}

// Delete removes a user. Sessions cascade; other rows are left in place.
func (d *DB) Delete(ctx context.Context, id int64) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id))
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type sessionRow struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	UserAgent string    `db:"user_agent"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error {
	_, err := r.db.db.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, user_agent, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)",
		userID, token, userAgent, expiresAt, time.Now(),
	)
	return err
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s sessionRow
	err := r.db.db.GetContext(ctx, &s,
		"SELECT token, user_id, user_agent, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     s.Token,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return rowsAffected(r.db.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", time.Now()))
}
