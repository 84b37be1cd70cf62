package httpserver

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/todoapp/todo-server/internal/model"
	"github.com/todoapp/todo-server/internal/repository"
	"github.com/todoapp/todo-server/internal/token"
)

// RequireAuth resolves the bearer token into a request-scoped principal, or
// rejects the request before any handler runs. Public routes are simply not
// wrapped with it; the allowlist is the route table itself.
func RequireAuth(tokens *token.Manager, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return authRequired()
			}
			sub, err := tokens.Subject(raw)
			if err != nil {
				return authRequired()
			}
			u, err := users.GetByEmail(c.Request().Context(), sub)
			if err != nil {
				// valid signature but no matching account (e.g. stale token)
				return authRequired()
			}
			p := model.Principal{UserID: u.ID, Email: u.Email, Role: model.RoleUser}
			ctx := WithPrincipal(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// A missing Bearer prefix counts as no credential supplied.
func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(header[7:])
	return t, t != ""
}

func authRequired() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errorBody{
		Code:    codeAuthRequired,
		Message: "authentication required",
	})
}

// RequestLogger returns middleware for structured request logging.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			// metadata only, never request bodies
			log.Info("http",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", c.RealIP()),
			)
			return err
		}
	}
}

// Recover returns middleware that converts handler panics into a plain 500
// without leaking internals to the client.
func Recover(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					log.Error("panic",
						zap.Any("reason", r),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", c.Request().URL.Path),
					)
					err = echo.NewHTTPError(http.StatusInternalServerError, errorBody{
						Code:    codeInternal,
						Message: "internal error",
					})
				}
			}()
			return next(c)
		}
	}
}
