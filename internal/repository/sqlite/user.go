package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
	"github.com/sakif/postboard/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore reads and writes the users table.
type UserStore struct {
	db *DB
}

// Create inserts a new user and fills in the generated ID.
// A duplicate email comes back as apperror.ErrConstraint.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		user.Name,
		user.Email,
	)
	if err != nil {
		return translateWriteError(err, "creating user")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByID retrieves a user by primary key.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getUser(ctx, s.db.conn, id)
}

func getUser(ctx context.Context, q querier, id int64) (*model.User, error) {
	var u model.User

	err := q.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User")
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// List returns users ordered by id. Non-empty filter fields are
// case-insensitive substring matches (SQLite LIKE semantics for ASCII).
func (s *UserStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, email
		 FROM users
		 WHERE (? = '' OR name LIKE ? ESCAPE '\')
		   AND (? = '' OR email LIKE ? ESCAPE '\')
		 ORDER BY id`,
		filter.Name, likePattern(filter.Name),
		filter.Email, likePattern(filter.Email),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Update applies the populated fields of patch and returns the stored row.
//
// COALESCE(?, column) keeps the current value when the bound argument is NULL,
// and nullable binds an absent field as NULL. That way one fixed statement
// covers every combination of present and absent fields.
func (s *UserStore) Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	var updated *model.User

	err := s.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users
			 SET name = COALESCE(?, name), email = COALESCE(?, email)
			 WHERE id = ?`,
			nullable(patch.Name),
			nullable(patch.Email),
			id,
		)
		if err != nil {
			return translateWriteError(err, fmt.Sprintf("updating user %d", id))
		}

		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("User")
		}

		updated, err = getUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteWithPosts is the cascading delete: the user's posts and then the user
// row, in that order, inside one transaction.
//
// Only the user delete decides the outcome. Zero posts removed is fine; zero
// users removed means the user never existed, and returning NotFound from the
// callback rolls back the post deletes that were already staged.
func (s *UserStore) DeleteWithPosts(ctx context.Context, id int64) error {
	return s.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM posts WHERE user_id = ?`, id,
		); err != nil {
			return fmt.Errorf("sqlite: deleting posts of user %d: %w", id, err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
		}

		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperror.NotFound("User")
		}

		return nil
	})
}
