// Package service contains application services for authentication and todos.
package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	pkgcrypto "github.com/todoapp/todo-server/internal/crypto"
	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/limiter"
	"github.com/todoapp/todo-server/internal/model"
	"github.com/todoapp/todo-server/internal/repository"
	"github.com/todoapp/todo-server/internal/token"
)

// RegisterInput carries the registration boundary contract.
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	Name            string
	PhoneNumber     string
}

// AuthService defines registration and login operations.
type AuthService interface {
	// Register validates input and creates a new user with a bcrypt password hash.
	Register(ctx context.Context, in RegisterInput) (model.User, error)
	// Login applies rate limiting, verifies credentials, and issues tokens.
	// Unknown email and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Manager
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

// Register creates a new user record. The email is trimmed at registration
// and stored as-is otherwise; the users.email unique constraint is the
// authoritative duplicate check under concurrent sign-ups.
func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if verr := validateRegister(in); verr != nil {
		return model.User{}, verr
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	hash, err := pkgcrypto.HashPassword([]byte(in.Password))
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		ID:      uid,
		Email:   strings.TrimSpace(in.Email),
		PwdHash: hash,
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.PhoneNumber),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Tokens{}, model.User{}, errs.ErrInvalidCredentials
	}

	ipHash := limiter.HashIP(ip)
	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.PwdHash) {
		// Record failure; threshold crossing reports rate-limited instead.
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// missing user, wrong password, and store errors collapse into one outcome
		return model.Tokens{}, model.User{}, errs.ErrInvalidCredentials
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.tokens.IssueAccessToken(u.Email)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	refresh, _, err := s.tokens.IssueRefreshToken(u.Email)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, *u, nil
}
