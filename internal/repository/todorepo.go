package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/todoapp/todo-server/internal/model"
)

// TodoRepository provides owner-scoped access to todos. Every single-item
// operation filters by (id, owner) in one statement; "does not exist" and
// "owned by someone else" are both reported as errs.ErrAccessDenied.
type TodoRepository interface {
	// Create inserts a new todo with its owner fixed at insertion.
	Create(ctx context.Context, t *model.Todo) error
	// GetOwned returns the todo only if it belongs to ownerID.
	GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error)
	// ListByOwner returns all todos of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error)
	// UpdateOwned applies a partial update scoped to ownerID and returns the row.
	UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, upd model.TodoUpdate) (*model.Todo, error)
	// CompleteOwned sets the completed flag scoped to ownerID and returns the row.
	CompleteOwned(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error)
	// DeleteOwned removes the todo scoped to ownerID.
	DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error
}
