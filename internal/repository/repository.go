package repository

import (
	"context"

	"github.com/sakif/postboard/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	// DeleteWithPosts removes the user and every post it owns as one atomic
	// unit. It returns apperror.ErrNotFound, with nothing removed, when the
	// user does not exist.
	DeleteWithPosts(ctx context.Context, id int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
}

// Store is an opened Entity Store. Whoever opens it owns Close.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Ping(ctx context.Context) error
	Close() error
}
