// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go translation
// of the SQLite C code. It registers itself with database/sql as "sqlite".
//
// TRANSACTIONS:
// Every multi-statement write goes through inTx, which begins a sql.Tx, hands it
// to a callback and commits only if the callback returns nil. Any other exit
// (error, not-found, panic) rolls back, so no other connection ever observes a
// half-applied write.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/repository"
)

const memoryPath = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out the user and post stores.
type DB struct {
	conn *sql.DB
}

// querier is the subset of *sql.DB and *sql.Tx the stores need, so the same
// read helpers work inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/postboard.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to ":memory:" is its own private database. Pinning the
	// pool to one connection keeps every query looking at the same data.
	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The DSN pragma turns them on
	// for every pooled connection; this covers drivers that ignore it.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn appends per-connection pragmas. modernc applies every _pragma query
// parameter to each new connection the pool opens.
func dsn(dbPath string) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	if dbPath != memoryPath {
		// WAL lets readers proceed while a writer holds the lock.
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	return dbPath + "?" + strings.Join(pragmas, "&")
}

// Users returns the user store backed by this database.
func (db *DB) Users() repository.UserRepository {
	return &UserStore{db: db}
}

// Posts returns the post store backed by this database.
func (db *DB) Posts() repository.PostRepository {
	return &PostStore{db: db}
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// inTx runs fn inside a single transaction.
//
// The deferred Rollback is what makes this safe: after a successful Commit it
// is a no-op (it returns sql.ErrTxDone, which we ignore), and on every other
// path it undoes whatever fn already staged.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// migrate creates the schema. CREATE ... IF NOT EXISTS makes it idempotent.
//
// posts.user_id has no ON DELETE CASCADE: removing a user that still owns
// posts fails the foreign key, so UserStore.DeleteWithPosts must delete the
// posts first.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			title   TEXT NOT NULL,
			content TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}

// translateWriteError turns SQLite constraint failures into domain errors.
// Anything that is not a constraint failure is wrapped as a storage error.
func translateWriteError(err error, op string) error {
	var sqliteErr *sqlitedrv.Error
	if !errors.As(err, &sqliteErr) {
		return fmt.Errorf("sqlite: %s: %w", op, err)
	}

	code := sqliteErr.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("sqlite: %s: %w", op, err)
	}

	msg := sqliteErr.Error()
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY"):
		return apperror.ValidationFailed("user_id", "Invalid user_id")
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(msg, "UNIQUE"):
		// users.email is the only UNIQUE column in the schema.
		return apperror.ConstraintViolation("email", "email already in use")
	case code == sqlite3.SQLITE_CONSTRAINT_NOTNULL || strings.Contains(msg, "NOT NULL"):
		return apperror.ConstraintViolation("", "required field is missing")
	default:
		return apperror.ConstraintViolation("", "constraint violation")
	}
}

// likePattern builds a substring LIKE pattern, escaping the wildcard
// characters so user input matches literally. Use with ESCAPE '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// nullable turns an absent patch field into a NULL bind argument.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// rowsAffected returns RowsAffected or a wrapped storage error.
func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}
