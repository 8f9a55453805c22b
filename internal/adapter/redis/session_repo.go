// Package redis stores sessions in Redis with native key expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nutritrack/internal/domain"

	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "nutritrack:session:"

// SessionRepo implements domain.SessionRepository on Redis.
type SessionRepo struct {
	client goredis.UniversalClient
	now    func() time.Time
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

// NewSessionRepo wraps a Redis client.
func NewSessionRepo(client goredis.UniversalClient) *SessionRepo {
	return &SessionRepo{client: client, now: time.Now}
}

// Dial parses a redis:// URL and pings the server.
func Dial(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	c := goredis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Create stores a session that expires at expiresAt.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: r.now().UTC(),
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+token, b, ttl).Err()
}

// GetByToken returns nil, nil when the session is missing or has expired.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	b, err := r.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, keyPrefix+token).Err()
}

// DeleteExpired is a no-op: Redis expires keys on its own.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
