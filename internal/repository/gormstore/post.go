package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

var _ repository.PostRepository = (*PostStore)(nil)

type PostStore struct {
	db *gorm.DB
}

func toPost(r postRow) model.Post {
	return model.Post{ID: r.ID, Title: r.Title, Content: r.Content, UserID: r.UserID}
}

func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	row := postRow{Title: post.Title, Content: post.Content, UserID: post.UserID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateWriteError(err, "creating post")
	}
	post.ID = row.ID
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return getPost(s.db.WithContext(ctx), id)
}

func getPost(db *gorm.DB, id int64) (*model.Post, error) {
	var row postRow
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Post")
		}
		return nil, fmt.Errorf("gorm: getting post %d: %w", id, err)
	}
	p := toPost(row)
	return &p, nil
}

func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	var rows []postRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gorm: listing posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, toPost(r))
	}
	return posts, nil
}

func (s *PostStore) Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	changes := map[string]any{}
	if patch.Title != nil {
		changes["title"] = *patch.Title
	}
	if patch.Content != nil {
		changes["content"] = *patch.Content
	}
	if patch.UserID != nil {
		changes["user_id"] = *patch.UserID
	}

	var updated *model.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postRow{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return translateWriteError(res.Error, fmt.Sprintf("updating post %d", id))
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("Post")
		}

		var err error
		updated, err = getPost(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&postRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("gorm: deleting post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Post")
	}
	return nil
}
