package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/model"
)

const selectTodoRe = `SELECT id, user_id, title, description, completed, created_at FROM todos WHERE id=\$1 AND user_id=\$2`

func todoRows(id, ownerID uuid.UUID, title, desc string, completed bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "user_id", "title", "description", "completed", "created_at"}).
		AddRow(id, ownerID, title, desc, completed, time.Now())
}

func TestTodoRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)

	todo := &model.Todo{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      uuid.Must(uuid.NewV4()),
		Title:       "Buy milk",
		Description: "2 liters",
	}
	mock.ExpectExec(`INSERT INTO todos \(id, user_id, title, description, completed\) VALUES \(\$1, \$2, \$3, \$4, false\)`).
		WithArgs(todo.ID, todo.UserID, todo.Title, todo.Description).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(context.Background(), todo))
}

func TestTodoRepo_GetOwned_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(selectTodoRe).
		WithArgs(id, ownerID).
		WillReturnRows(todoRows(id, ownerID, "Buy milk", "", false))
	got, err := r.GetOwned(context.Background(), ownerID, id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, ownerID, got.UserID)
	require.False(t, got.Completed)
}

func TestTodoRepo_GetOwned_MissingAndForeignAreIdentical(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	// Nonexistent id and foreign-owned id both come back as zero rows; the
	// repo must not distinguish them.
	mock.ExpectQuery(selectTodoRe).
		WithArgs(id, ownerID).
		WillReturnError(pgx.ErrNoRows)
	_, errMissing := r.GetOwned(context.Background(), ownerID, id)
	require.ErrorIs(t, errMissing, errs.ErrAccessDenied)

	mock.ExpectQuery(selectTodoRe).
		WithArgs(id, ownerID).
		WillReturnError(pgx.ErrNoRows)
	_, errForeign := r.GetOwned(context.Background(), ownerID, id)
	require.Equal(t, errMissing, errForeign)
}

func TestTodoRepo_ListByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	a := uuid.Must(uuid.NewV4())
	b := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, user_id, title, description, completed, created_at FROM todos WHERE user_id=\$1 ORDER BY created_at DESC, id`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "description", "completed", "created_at"}).
			AddRow(a, ownerID, "Buy milk", "", false, time.Now()).
			AddRow(b, ownerID, "Walk dog", "before dark", true, time.Now()))
	out, err := r.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Buy milk", out[0].Title)

	// Empty list is not an error.
	mock.ExpectQuery(`SELECT id, user_id, title, description, completed, created_at FROM todos WHERE user_id=\$1 ORDER BY created_at DESC, id`).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "description", "completed", "created_at"}))
	out, err = r.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestTodoRepo_UpdateOwned(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	title := "Buy oat milk"

	mock.ExpectQuery(`UPDATE todos SET title = COALESCE\(\$3, title\), description = COALESCE\(\$4, description\) WHERE id=\$1 AND user_id=\$2 RETURNING id, user_id, title, description, completed, created_at`).
		WithArgs(id, ownerID, &title, (*string)(nil)).
		WillReturnRows(todoRows(id, ownerID, title, "", false))
	got, err := r.UpdateOwned(context.Background(), ownerID, id, model.TodoUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)

	mock.ExpectQuery(`UPDATE todos SET title = COALESCE\(\$3, title\), description = COALESCE\(\$4, description\) WHERE id=\$1 AND user_id=\$2 RETURNING id, user_id, title, description, completed, created_at`).
		WithArgs(id, ownerID, &title, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.UpdateOwned(context.Background(), ownerID, id, model.TodoUpdate{Title: &title})
	require.ErrorIs(t, err, errs.ErrAccessDenied)
}

func TestTodoRepo_CompleteOwned(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`UPDATE todos SET completed = true WHERE id=\$1 AND user_id=\$2 RETURNING id, user_id, title, description, completed, created_at`).
		WithArgs(id, ownerID).
		WillReturnRows(todoRows(id, ownerID, "Buy milk", "", true))
	got, err := r.CompleteOwned(context.Background(), ownerID, id)
	require.NoError(t, err)
	require.True(t, got.Completed)

	mock.ExpectQuery(`UPDATE todos SET completed = true WHERE id=\$1 AND user_id=\$2 RETURNING id, user_id, title, description, completed, created_at`).
		WithArgs(id, ownerID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.CompleteOwned(context.Background(), ownerID, id)
	require.ErrorIs(t, err, errs.ErrAccessDenied)
}

func TestTodoRepo_DeleteOwned(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTodoRepo(db)
	ownerID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM todos WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.DeleteOwned(context.Background(), ownerID, id))

	mock.ExpectExec(`DELETE FROM todos WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	err := r.DeleteOwned(context.Background(), ownerID, id)
	require.ErrorIs(t, err, errs.ErrAccessDenied)
}
