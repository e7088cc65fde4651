// Package user provides the user credential domain models and behaviors.
package user

import (
	"context"
	"time"
)

// User models a stored credential record. Password holds the caller-supplied
// pre-encoded value verbatim; the gateway performs no hashing (the upstream
// UI encodes before submission, and validation is an exact string match).
type User struct {
	Username  string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines storage operations for users. Find returns (nil, nil)
// when no record matches; Create fails with a CONFLICT platform error when
// the username is taken; Delete fails with NOT_FOUND when absent.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, usr *User) (*User, error)
	Update(ctx context.Context, usr *User) (*User, error)
	Delete(ctx context.Context, username string) error
}

// Service exposes the user credential operations backed by a Repository.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add creates a new user record. The password is stored as supplied.
func (s *Service) Add(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	return s.repo.Create(ctx, &User{
		Username: username,
		Password: password,
		IsAdmin:  isAdmin,
	})
}

// Delete removes the user with the given username.
func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// Update applies a partial update: only non-nil fields are changed.
// Field-presence validation (at least one field set) is a handler concern.
func (s *Service) Update(ctx context.Context, username string, password *string, isAdmin *bool) (*User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if password != nil {
		existing.Password = *password
	}
	if isAdmin != nil {
		existing.IsAdmin = *isAdmin
	}

	return s.repo.Update(ctx, existing)
}

// Validate checks the supplied credentials against the stored record.
// It returns (nil, nil) for an unknown user or a password mismatch; an
// error is returned only for infrastructure failures.
func (s *Service) Validate(ctx context.Context, username, password string) (*User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if existing.Password != password {
		return nil, nil
	}
	return existing, nil
}
