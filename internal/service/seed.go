package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/postboard/internal/model"
)

// Demo records inserted by SeedDemoData.
const (
	DemoUserName    = "John Doe"
	DemoUserEmail   = "john@example.com"
	DemoPostTitle   = "First Post"
	DemoPostContent = "Hello World!"
)

// SeedDemoData inserts one demo user and one post it owns, but only into an
// empty store. It reports whether anything was inserted.
func SeedDemoData(ctx context.Context, users *UserService, posts *PostService) (bool, error) {
	existing, err := users.List(ctx, model.UserFilter{})
	if err != nil {
		return false, fmt.Errorf("seeding: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	user, err := users.Create(ctx, DemoUserName, DemoUserEmail)
	if err != nil {
		return false, fmt.Errorf("seeding user: %w", err)
	}
	if _, err := posts.Create(ctx, DemoPostTitle, DemoPostContent, &user.ID); err != nil {
		return false, fmt.Errorf("seeding post: %w", err)
	}

	users.logger.Info("demo data seeded", slog.Int64("userID", user.ID))
	return true, nil
}
