// Package gormstore implements the repository interfaces on top of GORM, so the
// service can run against PostgreSQL (or SQLite through GORM's own driver).
//
// GORM's db.Transaction is the atomic scope here: the callback's return value
// decides commit or rollback, and a panic inside it also rolls back.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// userRow and postRow are the table mappings. They stay private so GORM tags
// never leak into the JSON models.
type userRow struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;uniqueIndex"`
}

func (userRow) TableName() string { return "users" }

type postRow struct {
	ID      int64    `gorm:"primaryKey;autoIncrement"`
	Title   string   `gorm:"not null"`
	Content string   `gorm:"not null"`
	UserID  int64    `gorm:"not null;index"`
	Owner   *userRow `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (postRow) TableName() string { return "posts" }

// Store is a GORM-backed Entity Store.
type Store struct {
	db *gorm.DB
}

// Postgres returns a dialector for a PostgreSQL DSN such as
// "host=localhost user=postboard dbname=postboard sslmode=disable".
func Postgres(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

// SQLite returns a dialector for GORM's SQLite driver with foreign keys on.
func SQLite(path string) gorm.Dialector {
	return sqlite.Open(path + "?_foreign_keys=on")
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slogWriter{log}, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm: opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm: getting sql.DB: %w", err)
	}
	// An in-memory SQLite database is private to one connection.
	if dialector.Name() == "sqlite" && strings.HasPrefix(dialectorDSN(dialector), ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&userRow{}, &postRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gorm: migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

func dialectorDSN(d gorm.Dialector) string {
	if s, ok := d.(*sqlite.Dialector); ok {
		return s.DSN
	}
	return ""
}

func (s *Store) Users() repository.UserRepository {
	return &UserStore{db: s.db}
}

func (s *Store) Posts() repository.PostRepository {
	return &PostStore{db: s.db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gorm: ping: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("gorm: ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateWriteError relies on TranslateError: the drivers report unique and
// foreign key failures as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func translateWriteError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.ValidationFailed("user_id", "Invalid user_id")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.ConstraintViolation("email", "email already in use")
	default:
		return fmt.Errorf("gorm: %s: %w", op, err)
	}
}

// slogWriter routes GORM's logger through slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}
