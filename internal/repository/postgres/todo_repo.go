package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/model"
)

// TodoRepo implements TodoRepository using PostgreSQL. All single-item
// statements are keyed (id, user_id) so an unauthorized read is impossible
// even transiently; zero matched rows collapses to ErrAccessDenied.
type TodoRepo struct{ db *DB }

// NewTodoRepo constructs a todo repository.
func NewTodoRepo(db *DB) *TodoRepo { return &TodoRepo{db: db} }

const todoColumns = `id, user_id, title, description, completed, created_at`

// Create inserts a new todo row owned by t.UserID.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	const q = `
INSERT INTO todos (id, user_id, title, description, completed)
VALUES ($1, $2, $3, $4, false)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.UserID, t.Title, t.Description)
	return err
}

// GetOwned selects a todo by the compound key (id, owner).
func (r *TodoRepo) GetOwned(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	const q = `
SELECT ` + todoColumns + `
FROM todos WHERE id=$1 AND user_id=$2`
	return scanTodo(r.db.Pool.QueryRow(ctx, q, id, ownerID))
}

// ListByOwner returns all todos of the owner, newest first.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error) {
	const q = `
SELECT ` + todoColumns + `
FROM todos WHERE user_id=$1
ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Todo
	for rows.Next() {
		var t model.Todo
		if err = rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateOwned applies a partial update; nil fields keep their stored value.
func (r *TodoRepo) UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, upd model.TodoUpdate) (*model.Todo, error) {
	const q = `
UPDATE todos
SET title = COALESCE($3, title), description = COALESCE($4, description)
WHERE id=$1 AND user_id=$2
RETURNING ` + todoColumns
	return scanTodo(r.db.Pool.QueryRow(ctx, q, id, ownerID, upd.Title, upd.Description))
}

// CompleteOwned flips the completed flag to true.
func (r *TodoRepo) CompleteOwned(ctx context.Context, ownerID, id uuid.UUID) (*model.Todo, error) {
	const q = `
UPDATE todos SET completed = true
WHERE id=$1 AND user_id=$2
RETURNING ` + todoColumns
	return scanTodo(r.db.Pool.QueryRow(ctx, q, id, ownerID))
}

// DeleteOwned removes the todo if the caller owns it.
func (r *TodoRepo) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM todos WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAccessDenied
	}
	return nil
}

func scanTodo(row pgx.Row) (*model.Todo, error) {
	var t model.Todo
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrAccessDenied
		}
		return nil, err
	}
	return &t, nil
}
