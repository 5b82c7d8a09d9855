// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, never a concrete store, and return
// apperror values. They know nothing about HTTP status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

// UserService handles business logic for users.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Create validates and stores a new user. A duplicate email surfaces as
// apperror.ErrConstraint from the store.
func (s *UserService) Create(ctx context.Context, name, email string) (*model.User, error) {
	name, err := required("name", name)
	if err != nil {
		return nil, err
	}
	email, err = required("email", email)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email}
	if err := s.users.Create(ctx, user); err != nil {
		s.logStorageError("failed to create user", err, slog.String("email", email))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", slog.Int64("id", user.ID))
	return user, nil
}

// GetByID returns apperror.ErrNotFound if the user doesn't exist.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logStorageError("failed to get user", err, slog.Int64("id", id))
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Update applies a partial update. An empty patch is rejected before the
// store is touched, so it is a 400 even for an unknown id.
func (s *UserService) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	if patch.IsEmpty() {
		return nil, errNoFields()
	}

	var err error
	var clean model.UserPatch
	if clean.Name, err = patchText("name", patch.Name); err != nil {
		return nil, err
	}
	if clean.Email, err = patchText("email", patch.Email); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, id, clean)
	if err != nil {
		s.logStorageError("failed to update user", err, slog.Int64("id", id))
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", slog.Int64("id", id))
	return user, nil
}

// Delete removes the user together with every post it owns. The store runs
// both deletes in one transaction; on NotFound nothing has changed.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.DeleteWithPosts(ctx, id); err != nil {
		s.logStorageError("failed to delete user", err, slog.Int64("id", id))
		return err
	}

	s.logger.Info("user deleted with posts", slog.Int64("id", id))
	return nil
}

// logStorageError logs err at Error level unless it is an expected domain
// outcome (not found, validation, constraint).
func (s *UserService) logStorageError(msg string, err error, attrs ...any) {
	logStorageError(s.logger, msg, err, attrs...)
}

func logStorageError(logger *slog.Logger, msg string, err error, attrs ...any) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return
	}
	logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
}
