package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

// PostService handles business logic for posts. Every write that names a
// user_id goes through the IntegrityGuard first.
type PostService struct {
	posts  repository.PostRepository
	guard  *IntegrityGuard
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		guard:  NewIntegrityGuard(users),
		logger: logger,
	}
}

// Create validates and stores a new post. userID is nil when the request
// carried no usable user_id.
func (s *PostService) Create(ctx context.Context, title, content string, userID *int64) (*model.Post, error) {
	title, err := required("title", title)
	if err != nil {
		return nil, err
	}
	content, err = required("content", content)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireUser(ctx, userID); err != nil {
		logStorageError(s.logger, "failed to check post owner", err)
		return nil, err
	}

	post := &model.Post{Title: title, Content: content, UserID: *userID}
	if err := s.posts.Create(ctx, post); err != nil {
		logStorageError(s.logger, "failed to create post", err, slog.Int64("userID", *userID))
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("id", post.ID),
		slog.Int64("userID", post.UserID),
	)
	return post, nil
}

func (s *PostService) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		logStorageError(s.logger, "failed to get post", err, slog.Int64("id", id))
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Update applies a partial update. Order of checks: empty patch, blank text
// fields, then the owner check when user_id is being set, then the write
// (which reports NotFound for an unknown post).
func (s *PostService) Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	if patch.IsEmpty() {
		return nil, errNoFields()
	}

	var err error
	clean := model.PostPatch{UserID: patch.UserID}
	if clean.Title, err = patchText("title", patch.Title); err != nil {
		return nil, err
	}
	if clean.Content, err = patchText("content", patch.Content); err != nil {
		return nil, err
	}
	if clean.UserID != nil {
		if err := s.guard.RequireUser(ctx, clean.UserID); err != nil {
			logStorageError(s.logger, "failed to check post owner", err)
			return nil, err
		}
	}

	post, err := s.posts.Update(ctx, id, clean)
	if err != nil {
		logStorageError(s.logger, "failed to update post", err, slog.Int64("id", id))
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.Int64("id", id))
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		logStorageError(s.logger, "failed to delete post", err, slog.Int64("id", id))
		return err
	}

	s.logger.Info("post deleted", slog.Int64("id", id))
	return nil
}
