package httpserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/model"
	"github.com/todoapp/todo-server/internal/repository"
	"github.com/todoapp/todo-server/internal/service"
	"github.com/todoapp/todo-server/internal/token"
)

// In-memory repositories backing the handler tests; they mirror the postgres
// implementations' contracts (unique email, compound-key ownership).

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	cpy.CreatedAt = time.Now()
	m.byEmail[u.Email] = &cpy
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

type memTodos struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Todo
}

var _ repository.TodoRepository = (*memTodos)(nil)

func newMemTodos() *memTodos { return &memTodos{byID: map[uuid.UUID]*model.Todo{}} }

func (m *memTodos) owned(ownerID, id uuid.UUID) *model.Todo {
	t, ok := m.byID[id]
	if !ok || t.UserID != ownerID {
		return nil
	}
	return t
}

func (m *memTodos) Create(_ context.Context, t *model.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cpy := *t
	cpy.CreatedAt = time.Now()
	m.byID[t.ID] = &cpy
	return nil
}

func (m *memTodos) GetOwned(_ context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.owned(ownerID, id)
	if t == nil {
		return nil, errs.ErrAccessDenied
	}
	c := *t
	return &c, nil
}

func (m *memTodos) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Todo
	for _, t := range m.byID {
		if t.UserID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTodos) UpdateOwned(_ context.Context, ownerID, id uuid.UUID, upd model.TodoUpdate) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.owned(ownerID, id)
	if t == nil {
		return nil, errs.ErrAccessDenied
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	c := *t
	return &c, nil
}

func (m *memTodos) CompleteOwned(_ context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.owned(ownerID, id)
	if t == nil {
		return nil, errs.ErrAccessDenied
	}
	t.Completed = true
	c := *t
	return &c, nil
}

func (m *memTodos) DeleteOwned(_ context.Context, ownerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned(ownerID, id) == nil {
		return errs.ErrAccessDenied
	}
	delete(m.byID, id)
	return nil
}

// noopLimiter always allows; limiter behavior has its own tests.
type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return true, 0, nil
}
func (noopLimiter) Success(context.Context, string, []byte) error { return nil }
func (noopLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}

func newTestManager(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager([]byte("http-test-signing-key-32-bytes!!"), time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}
	return m
}

// newUser builds a persisted-shape user with a placeholder hash; tests that
// exercise login go through the real registration path instead.
func newUser(t *testing.T, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:      uuid.Must(uuid.NewV4()),
		Email:   email,
		PwdHash: []byte("$2a$10$placeholder"),
		Name:    "Test User",
		Phone:   "010-0000-0000",
	}
}

// newTestServer wires real services over in-memory repositories.
func newTestServer(t *testing.T) (*Server, *memUsers, *memTodos, *token.Manager) {
	t.Helper()
	users := newMemUsers()
	todos := newMemTodos()
	tokens := newTestManager(t)
	auth := service.NewAuthService(users, tokens, noopLimiter{})
	todoSvc := service.NewTodoService(todos)
	return New(auth, todoSvc, tokens, users), users, todos, tokens
}
