package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/sakif/postboard/internal/apperror"
	"github.com/sakif/postboard/internal/model"
)

// errStorage stands in for any unexpected database failure.
var errStorage = errors.New("disk I/O error")

// memStore is an in-memory fake of both repositories. The failGet / failWrite
// switches simulate storage failures.
type memStore struct {
	users     map[int64]model.User
	posts     map[int64]model.Post
	nextUser  int64
	nextPost  int64
	failGet   bool
	failWrite bool
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[int64]model.User),
		posts: make(map[int64]model.Post),
	}
}

type mockUserRepo struct{ s *memStore }
type mockPostRepo struct{ s *memStore }

func (m mockUserRepo) Create(_ context.Context, u *model.User) error {
	if m.s.failWrite {
		return errStorage
	}
	for _, existing := range m.s.users {
		if existing.Email == u.Email {
			return apperror.ConstraintViolation("email", "email already in use")
		}
	}
	m.s.nextUser++
	u.ID = m.s.nextUser
	m.s.users[u.ID] = *u
	return nil
}

func (m mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.s.failGet {
		return nil, errStorage
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return &u, nil
}

func (m mockUserRepo) List(_ context.Context, f model.UserFilter) ([]model.User, error) {
	if m.s.failGet {
		return nil, errStorage
	}
	out := []model.User{}
	for _, u := range m.s.users {
		if strings.Contains(u.Name, f.Name) && strings.Contains(u.Email, f.Email) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockUserRepo) Update(_ context.Context, id int64, p model.UserPatch) (*model.User, error) {
	if m.s.failWrite {
		return nil, errStorage
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	m.s.users[id] = u
	return &u, nil
}

// DeleteWithPosts stages the post deletes on a copy and only publishes them
// once the user delete succeeded, like the real transaction.
func (m mockUserRepo) DeleteWithPosts(_ context.Context, id int64) error {
	staged := make(map[int64]model.Post, len(m.s.posts))
	for pid, p := range m.s.posts {
		if p.UserID != id {
			staged[pid] = p
		}
	}
	if m.s.failWrite {
		return errStorage
	}
	if _, ok := m.s.users[id]; !ok {
		return apperror.NotFound("User")
	}
	delete(m.s.users, id)
	m.s.posts = staged
	return nil
}

func (m mockPostRepo) Create(_ context.Context, p *model.Post) error {
	if m.s.failWrite {
		return errStorage
	}
	m.s.nextPost++
	p.ID = m.s.nextPost
	m.s.posts[p.ID] = *p
	return nil
}

func (m mockPostRepo) GetByID(_ context.Context, id int64) (*model.Post, error) {
	p, ok := m.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("Post")
	}
	return &p, nil
}

func (m mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range m.s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m mockPostRepo) Update(_ context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	p, ok := m.s.posts[id]
	if !ok {
		return nil, apperror.NotFound("Post")
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.UserID != nil {
		p.UserID = *patch.UserID
	}
	m.s.posts[id] = p
	return &p, nil
}

func (m mockPostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.s.posts[id]; !ok {
		return apperror.NotFound("Post")
	}
	delete(m.s.posts, id)
	return nil
}

// newTestServices wires both services to one shared in-memory store.
func newTestServices(t *testing.T) (*UserService, *PostService, *memStore) {
	t.Helper()
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	users := NewUserService(mockUserRepo{store}, logger)
	posts := NewPostService(mockPostRepo{store}, mockUserRepo{store}, logger)
	return users, posts, store
}

func strPtr(s string) *string   { return &s }
func int64Ptr(v int64) *int64 { return &v }
