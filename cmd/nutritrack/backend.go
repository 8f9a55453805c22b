package main

import (
	"context"
	"errors"
	"fmt"

	"nutritrack/internal/adapter/memory"
	"nutritrack/internal/adapter/postgres"
	redisadapter "nutritrack/internal/adapter/redis"
	"nutritrack/internal/app"
	"nutritrack/internal/config"
	"nutritrack/internal/domain"

	"go.uber.org/zap"
)

// repository is everything a storage backend provides.
type repository interface {
	domain.UserRepository
	domain.MealRepository
	domain.IntakeRepository
	domain.IngredientRepository
	domain.WaterRepository
	domain.ActivityRepository
	domain.BMRRepository
	domain.ReportRepository
	domain.OwnerLookup
}

type backend struct {
	repo     repository
	sessions domain.SessionRepository
	pingers  []func(ctx context.Context) error
	closers  []func() error
}

// openBackend connects the configured storage and session store.
func openBackend(ctx context.Context, c *config.Config, migrate bool) (*backend, error) {
	b := &backend{}

	switch c.Storage {
	case config.StorageMemory:
		db := memory.New()
		b.repo, b.sessions = db, db.NewSessionRepo()
		logger.Warn("using in-memory storage; data is lost on exit")
	default:
		db, err := postgres.Open(c.DatabaseURL, postgres.Options{
			MaxOpenConns:    c.DBMaxOpenConns,
			MaxIdleConns:    c.DBMaxIdleConns,
			ConnMaxIdleTime: c.DBConnMaxIdleTime,
			SkipMigrations:  !migrate,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b.repo, b.sessions = db, postgres.NewSessionRepo(db)
		b.pingers = append(b.pingers, db.Ping)
		b.closers = append(b.closers, db.Close)
	}

	if c.SessionStore == config.SessionStoreRedis {
		client, err := redisadapter.Dial(ctx, c.RedisURL)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		b.sessions = redisadapter.NewSessionRepo(client)
		b.pingers = append(b.pingers, func(ctx context.Context) error { return client.Ping(ctx).Err() })
		b.closers = append(b.closers, client.Close)
	}

	logger.Info("storage ready",
		zap.String("storage", c.Storage),
		zap.String("sessions", c.SessionStore),
	)
	return b, nil
}

func (b *backend) Ping(ctx context.Context) error {
	for _, p := range b.pingers {
		if err := p(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

func (b *backend) authService(c *config.Config) *app.AuthService {
	return app.NewAuthService(b.repo, b.sessions, c.SessionTTL)
}
