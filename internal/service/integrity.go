package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/repository"
)

// IntegrityGuard keeps posts from pointing at users that do not exist.
//
// It runs before every post create, and before every post update that sets
// user_id. A missing user is a validation failure (400), never a storage
// failure; only an error from the lookup itself is reported as one.
type IntegrityGuard struct {
	users repository.UserRepository
}

func NewIntegrityGuard(users repository.UserRepository) *IntegrityGuard {
	return &IntegrityGuard{users: users}
}

// UserExists is a point lookup by primary key. Ids below 1 are never issued
// by the store, so they are reported as absent without a query.
func (g *IntegrityGuard) UserExists(ctx context.Context, userID int64) (bool, error) {
	if userID < 1 {
		return false, nil
	}

	if _, err := g.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("looking up user %d: %w", userID, err)
	}
	return true, nil
}

// RequireUser returns nil only when userID references a live user. An absent
// (nil) user_id is treated the same as an unknown one.
func (g *IntegrityGuard) RequireUser(ctx context.Context, userID *int64) error {
	if userID == nil {
		return invalidUserID()
	}

	ok, err := g.UserExists(ctx, *userID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidUserID()
	}
	return nil
}

func invalidUserID() error {
	return apperror.ValidationFailed("user_id", "Invalid user_id")
}
