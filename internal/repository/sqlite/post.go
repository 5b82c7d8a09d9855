package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

var _ repository.PostRepository = (*PostStore)(nil)

// PostStore reads and writes the posts table.
type PostStore struct {
	db *DB
}

// Create inserts a new post and fills in the generated ID.
//
// The service checks user_id before calling this. The foreign key is the
// backstop for a user deleted in between: it surfaces as the same
// "Invalid user_id" validation error.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, user_id) VALUES (?, ?, ?)`,
		post.Title,
		post.Content,
		post.UserID,
	)
	if err != nil {
		return translateWriteError(err, "creating post")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a single post.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	return getPost(ctx, s.db.conn, id)
}

func getPost(ctx context.Context, q querier, id int64) (*model.Post, error) {
	var p model.Post

	err := q.QueryRowContext(ctx,
		`SELECT id, title, content, user_id FROM posts WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Post")
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &p, nil
}

// List returns every post ordered by id.
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, title, content, user_id FROM posts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update applies the populated fields of patch. Same COALESCE technique as
// UserStore.Update; an absent UserID binds as NULL and keeps the current owner.
func (s *PostStore) Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	var updated *model.Post

	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE posts
			 SET title   = COALESCE(?, title),
			     content = COALESCE(?, content),
			     user_id = COALESCE(?, user_id)
			 WHERE id = ?`,
			nullable(patch.Title),
			nullable(patch.Content),
			nullable(patch.UserID),
			id,
		)
		if err != nil {
			return translateWriteError(err, fmt.Sprintf("updating post %d", id))
		}

		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("Post")
		}

		updated, err = getPost(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a post by its ID.
// Same pattern as Update: zero rows affected means "not found".
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("Post")
	}

	return nil
}
