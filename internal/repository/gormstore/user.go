package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	row := userRow{Name: user.Name, Email: user.Email}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateWriteError(err, "creating user")
	}
	user.ID = row.ID
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getUser(s.db.WithContext(ctx), id)
}

func getUser(db *gorm.DB, id int64) (*model.User, error) {
	var row userRow
	if err := db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("gorm: getting user %d: %w", id, err)
	}
	return &model.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

// List matches filters case-insensitively on both SQLite and PostgreSQL by
// lowering both sides.
func (s *UserStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	q := s.db.WithContext(ctx).Model(&userRow{})
	if filter.Name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Name))
	}
	if filter.Email != "" {
		q = q.Where(`LOWER(email) LIKE ? ESCAPE '\'`, likePattern(filter.Email))
	}

	var rows []userRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gorm: listing users: %w", err)
	}

	users := make([]model.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, model.User{ID: r.ID, Name: r.Name, Email: r.Email})
	}
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	changes := map[string]any{}
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Email != nil {
		changes["email"] = *patch.Email
	}

	var updated *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRow{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return translateWriteError(res.Error, fmt.Sprintf("updating user %d", id))
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("User")
		}

		var err error
		updated, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteWithPosts removes the user's posts, then the user, in one transaction.
// Only the user delete's RowsAffected decides success.
func (s *UserStore) DeleteWithPosts(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&postRow{}).Error; err != nil {
			return fmt.Errorf("gorm: deleting posts of user %d: %w", id, err)
		}

		res := tx.Delete(&userRow{}, id)
		if res.Error != nil {
			return fmt.Errorf("gorm: deleting user %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("User")
		}
		return nil
	})
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
