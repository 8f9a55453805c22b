package app

import (
	"context"

	"nutritrack/internal/domain"
)

// UserService encapsulates profile use cases. Every operation is limited to
// the caller's own profile.
type UserService struct {
	users  domain.UserRepository
	policy *domain.OwnershipPolicy
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, policy *domain.OwnershipPolicy) *UserService {
	return &UserService{users: users, policy: policy}
}

// Details returns the profile of user id.
func (s *UserService) Details(ctx context.Context, caller, id int64) (*domain.User, error) {
	if err := s.policy.Authorize(ctx, caller, domain.KindUser, id); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// UpdateProfile changes age, weight and gender of user id.
func (s *UserService) UpdateProfile(ctx context.Context, caller, id int64, p domain.ProfilePatch) error {
	if p.Age != nil && *p.Age <= 0 {
		return domain.Invalid("age", "must be a positive integer")
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return domain.Invalid("weight", "must be a positive number")
	}
	if err := s.policy.Authorize(ctx, caller, domain.KindUser, id); err != nil {
		return err
	}
	n, err := s.users.UpdateProfile(ctx, id, p)
	return affected(n, err)
}

// Delete removes user id. Rows owned by the user are not cascaded.
func (s *UserService) Delete(ctx context.Context, caller, id int64) error {
	if err := s.policy.Authorize(ctx, caller, domain.KindUser, id); err != nil {
		return err
	}
	n, err := s.users.Delete(ctx, id)
	return affected(n, err)
}

// affected maps a zero row count to ErrNotFound.
func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
