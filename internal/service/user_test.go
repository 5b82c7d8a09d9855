package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
)

func TestUserCreate_Success(t *testing.T) {
	users, _, _ := newTestServices(t)

	user, err := users.Create(context.Background(), "  A  ", " a@x.com ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user to have an ID")
	}
	if user.Name != "A" || user.Email != "a@x.com" {
		t.Errorf("Create() = %+v, want trimmed name and email", *user)
	}

	found, err := users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *found != *user {
		t.Errorf("GetByID() = %+v, want %+v", *found, *user)
	}
}

func TestUserCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		uname   string
		email   string
		wantMsg string
	}{
		{"missing name", "", "a@x.com", "name is required"},
		{"blank name", "   ", "a@x.com", "name is required"},
		{"missing email", "A", "", "email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, store := newTestServices(t)

			_, err := users.Create(context.Background(), tt.uname, tt.email)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if len(store.users) != 0 {
				t.Errorf("store has %d users, want 0", len(store.users))
			}
		})
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	users, _, _ := newTestServices(t)
	if _, err := users.Create(context.Background(), "A", "a@x.com"); err != nil {
		t.Fatal(err)
	}

	_, err := users.Create(context.Background(), "B", "a@x.com")
	if !errors.Is(err, apperror.ErrConstraint) {
		t.Errorf("error = %v, want ErrConstraint", err)
	}
}

func TestUserUpdate(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		patch   model.UserPatch
		wantErr error
		want    *model.User
	}{
		{
			name:    "empty patch",
			id:      1,
			patch:   model.UserPatch{},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "empty patch on unknown id is still a validation error",
			id:      999,
			patch:   model.UserPatch{},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "blank name",
			id:      1,
			patch:   model.UserPatch{Name: strPtr("  ")},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "unknown user",
			id:      999,
			patch:   model.UserPatch{Email: strPtr("z@z.com")},
			wantErr: apperror.ErrNotFound,
		},
		{
			name:  "email only",
			id:    1,
			patch: model.UserPatch{Email: strPtr(" new@x.com ")},
			want:  &model.User{ID: 1, Name: "A", Email: "new@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, _ := newTestServices(t)
			if _, err := users.Create(context.Background(), "A", "a@x.com"); err != nil {
				t.Fatal(err)
			}

			got, err := users.Update(context.Background(), tt.id, tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if *got != *tt.want {
				t.Errorf("Update() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestUserUpdate_NoFieldsMessage(t *testing.T) {
	users, _, _ := newTestServices(t)

	_, err := users.Update(context.Background(), 1, model.UserPatch{})
	if err == nil || err.Error() != "No fields to update" {
		t.Errorf("error = %v, want %q", err, "No fields to update")
	}
}

func TestUserDelete_CascadesPosts(t *testing.T) {
	users, posts, store := newTestServices(t)
	ctx := context.Background()

	owner, _ := users.Create(ctx, "A", "a@x.com")
	other, _ := users.Create(ctx, "B", "b@x.com")
	for _, title := range []string{"p1", "p2", "p3"} {
		if _, err := posts.Create(ctx, title, "c", &owner.ID); err != nil {
			t.Fatal(err)
		}
	}
	kept, _ := posts.Create(ctx, "kept", "c", &other.ID)

	if err := users.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := users.GetByID(ctx, owner.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if len(store.posts) != 1 {
		t.Fatalf("store has %d posts, want 1", len(store.posts))
	}
	if _, ok := store.posts[kept.ID]; !ok {
		t.Error("other user's post was deleted")
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	users, _, _ := newTestServices(t)

	if err := users.Delete(context.Background(), 42); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_StorageFailureKeepsPosts(t *testing.T) {
	users, posts, store := newTestServices(t)
	ctx := context.Background()
	owner, _ := users.Create(ctx, "A", "a@x.com")
	posts.Create(ctx, "p1", "c", &owner.ID)

	store.failWrite = true
	err := users.Delete(ctx, owner.ID)
	if err == nil || errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Delete() error = %v, want storage error", err)
	}
	if len(store.posts) != 1 || len(store.users) != 1 {
		t.Errorf("store changed after failed delete: %d users, %d posts", len(store.users), len(store.posts))
	}
}

func TestUserList_StorageFailure(t *testing.T) {
	users, _, store := newTestServices(t)
	store.failGet = true

	_, err := users.List(context.Background(), model.UserFilter{})
	if !errors.Is(err, errStorage) {
		t.Errorf("List() error = %v, want wrapped storage error", err)
	}
}
