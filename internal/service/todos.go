package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/model"
	"github.com/todoapp/todo-server/internal/repository"
)

const titleMaxLen = 200

// TodoService defines owner-scoped operations over todos. Every call takes
// the resolved owner explicitly; there is no ambient current-user state.
type TodoService interface {
	// Create inserts a new todo owned by ownerID with Completed=false.
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (model.Todo, error)
	// Get returns a single todo if ownerID owns it.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error)
	// List returns all todos of ownerID.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error)
	// Update applies a partial title/description change.
	Update(ctx context.Context, ownerID, id uuid.UUID, upd model.TodoUpdate) (*model.Todo, error)
	// Complete flips the completed flag to true.
	Complete(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error)
	// Delete removes the todo.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type TodoServiceImpl struct {
	repo repository.TodoRepository
}

// NewTodoService constructs TodoService.
func NewTodoService(repo repository.TodoRepository) *TodoServiceImpl {
	return &TodoServiceImpl{repo: repo}
}

// Create validates the title and inserts the todo with its owner fixed.
func (s *TodoServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (model.Todo, error) {
	if ownerID == uuid.Nil {
		return model.Todo{}, errs.ErrAuthRequired
	}
	title = strings.TrimSpace(title)
	if verr := validateTitle(title); verr != nil {
		return model.Todo{}, verr
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Todo{}, err
	}
	t := model.Todo{ID: id, UserID: ownerID, Title: title, Description: description}
	if err := s.repo.Create(ctx, &t); err != nil {
		return model.Todo{}, err
	}
	return t, nil
}

// Get fetches a single todo by the compound (id, owner) key.
func (s *TodoServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errs.ErrAccessDenied
	}
	return s.repo.GetOwned(ctx, ownerID, id)
}

// List returns the owner's todos only; no unscoped listing exists.
func (s *TodoServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error) {
	if ownerID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update applies a partial change; absent fields keep their stored values.
func (s *TodoServiceImpl) Update(ctx context.Context, ownerID, id uuid.UUID, upd model.TodoUpdate) (*model.Todo, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errs.ErrAccessDenied
	}
	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		if verr := validateTitle(trimmed); verr != nil {
			return nil, verr
		}
		upd.Title = &trimmed
	}
	if upd.Title == nil && upd.Description == nil {
		return s.repo.GetOwned(ctx, ownerID, id)
	}
	return s.repo.UpdateOwned(ctx, ownerID, id, upd)
}

// Complete marks the todo done.
func (s *TodoServiceImpl) Complete(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, errs.ErrAccessDenied
	}
	return s.repo.CompleteOwned(ctx, ownerID, id)
}

// Delete removes the todo if owned by the caller.
func (s *TodoServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return errs.ErrAccessDenied
	}
	return s.repo.DeleteOwned(ctx, ownerID, id)
}

func validateTitle(title string) *ValidationError {
	switch {
	case title == "":
		return &ValidationError{Fields: []FieldError{{"title", "is required"}}}
	case len([]rune(title)) > titleMaxLen:
		return &ValidationError{Fields: []FieldError{{"title", "must be at most 200 characters"}}}
	}
	return nil
}
