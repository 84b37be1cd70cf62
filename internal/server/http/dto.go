package httpserver

import (
	"time"

	"github.com/todoapp/todo-server/internal/model"
)

// Request/response bodies for the JSON API. Raw passwords are accepted on the
// way in and never echoed back.

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phoneNumber"`
}

type signUpResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// errorBody is the uniform error envelope; codes are stable for clients,
// messages are human-readable and free of internal detail.
type errorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Stable machine codes for the error envelope.
const (
	codeValidation   = "E001"
	codeDuplicate    = "E002"
	codeBadRequest   = "E003"
	codeInternal     = "E999"
	codeBadCreds     = "A001"
	codeAuthRequired = "A002"
	codeRateLimited  = "A003"
	codeAccessDenied = "T001"
)

func toTodoResponse(t model.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

func toTodoResponses(ts []model.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTodoResponse(t))
	}
	return out
}
