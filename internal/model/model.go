// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. The password hash is a bcrypt digest; the raw
// password is never stored.
type User struct {
	ID        uuid.UUID // PK
	Email     string    // unique, trimmed at registration, compared case-sensitively
	PwdHash   []byte    // bcrypt(password), salt embedded in the digest
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Todo is a single task owned by exactly one user. The owner is set at
// creation and never reassigned.
type Todo struct {
	ID          uuid.UUID // PK
	UserID      uuid.UUID // FK -> users.id
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// TodoUpdate is a partial change intent; nil fields are left unchanged.
type TodoUpdate struct {
	Title       *string
	Description *string
}

// Tokens collects issued access/refresh tokens.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry (for diagnostics)
}

// Principal is the request-scoped identity of the caller. It lives only in a
// request context and is never persisted or shared across requests.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string // single implicit role for now
}

// RoleUser is the only role assigned to authenticated accounts.
const RoleUser = "user"
