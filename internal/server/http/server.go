// Package httpserver exposes the todo JSON API handlers.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/todoapp/todo-server/internal/errs"
	"github.com/todoapp/todo-server/internal/model"
	"github.com/todoapp/todo-server/internal/repository"
	"github.com/todoapp/todo-server/internal/service"
	"github.com/todoapp/todo-server/internal/token"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth   service.AuthService
	todos  service.TodoService
	tokens *token.Manager
	users  repository.UserRepository
}

// New constructs a server with injected services.
func New(auth service.AuthService, todos service.TodoService, tokens *token.Manager, users repository.UserRepository) *Server {
	return &Server{auth: auth, todos: todos, tokens: tokens, users: users}
}

// Register mounts all routes on e. Signup, login, and the health probe are
// the complete public surface; everything else sits behind RequireAuth.
func (s *Server) Register(e *echo.Echo, log *zap.Logger) {
	e.Use(Recover(log), RequestLogger(log))
	e.HTTPErrorHandler = errorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.POST("/api/auth/signup", s.signUp)
	e.POST("/api/auth/login", s.login)

	protected := e.Group("/api/todos", RequireAuth(s.tokens, s.users))
	protected.POST("", s.createTodo)
	protected.GET("", s.listTodos)
	protected.GET("/:id", s.getTodo)
	protected.PUT("/:id", s.updateTodo)
	protected.PATCH("/:id/complete", s.completeTodo)
	protected.DELETE("/:id", s.deleteTodo)
}

// --- Auth ---

func (s *Server) signUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	u, err := s.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Name:            req.Name,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, signUpResponse{
		ID:      u.ID.String(),
		Email:   u.Email,
		Name:    u.Name,
		Message: "registration complete",
	})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	tokens, u, err := s.auth.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Message:      "login successful",
	})
}

// --- Todos ---

func (s *Server) createTodo(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	t, err := s.todos.Create(c.Request().Context(), p.UserID, req.Title, req.Description)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, toTodoResponse(t))
}

func (s *Server) listTodos(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ts, err := s.todos.List(c.Request().Context(), p.UserID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTodoResponses(ts))
}

func (s *Server) getTodo(c echo.Context) error {
	p, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	t, err := s.todos.Get(c.Request().Context(), p.UserID, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTodoResponse(*t))
}

func (s *Server) updateTodo(c echo.Context) error {
	p, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	t, err := s.todos.Update(c.Request().Context(), p.UserID, id, model.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTodoResponse(*t))
}

func (s *Server) completeTodo(c echo.Context) error {
	p, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	t, err := s.todos.Complete(c.Request().Context(), p.UserID, id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toTodoResponse(*t))
}

func (s *Server) deleteTodo(c echo.Context) error {
	p, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	if err := s.todos.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- helpers ---

func principal(c echo.Context) (model.Principal, error) {
	p, ok := PrincipalFromCtx(c.Request().Context())
	if !ok {
		// handler mounted without RequireAuth; treat as unauthenticated
		return model.Principal{}, authRequired()
	}
	return p, nil
}

func principalAndID(c echo.Context) (model.Principal, uuid.UUID, error) {
	p, err := principal(c)
	if err != nil {
		return model.Principal{}, uuid.Nil, err
	}
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return model.Principal{}, uuid.Nil, badRequest("malformed id")
	}
	return p, id, nil
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errorBody{Code: codeBadRequest, Message: msg})
}

// mapError translates service/repo sentinels into the uniform error envelope.
// Collapsed outcomes stay collapsed here: AccessDenied covers both missing
// and foreign resources, bad credentials covers unknown email and wrong
// password.
func mapError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]fieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, fieldError{Field: f.Field, Message: f.Message})
		}
		return echo.NewHTTPError(http.StatusBadRequest, errorBody{
			Code: codeValidation, Message: "invalid input", Fields: fields,
		})
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, errorBody{
			Code: codeBadCreds, Message: "invalid email or password",
		})
	case errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, errorBody{
			Code: codeDuplicate, Message: "email already in use",
		})
	case errors.Is(err, errs.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, errorBody{
			Code: codeAccessDenied, Message: "access denied",
		})
	case errors.Is(err, errs.ErrAuthRequired):
		return authRequired()
	case errors.Is(err, errs.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, errorBody{
			Code: codeRateLimited, Message: "too many attempts, try again later",
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, errorBody{
			Code: codeInternal, Message: "internal error",
		})
	}
}

// errorHandler renders every error through the uniform envelope, including
// echo's own routing errors.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			log.Error("unhandled", zap.Error(err), zap.String("path", c.Request().URL.Path))
			he = echo.NewHTTPError(http.StatusInternalServerError, errorBody{
				Code: codeInternal, Message: "internal error",
			})
		}
		body, ok := he.Message.(errorBody)
		if !ok {
			// echo routing errors (404/405) carry string messages
			msg, _ := he.Message.(string)
			if msg == "" {
				msg = http.StatusText(he.Code)
			}
			body = errorBody{Code: codeBadRequest, Message: msg}
			if he.Code >= http.StatusInternalServerError {
				body = errorBody{Code: codeInternal, Message: "internal error"}
			}
		}
		if err := c.JSON(he.Code, body); err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
