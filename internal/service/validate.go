package service

import (
	"net/mail"
	"strings"
	"unicode"
)

// FieldError pairs an input field with a human-readable problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports structurally invalid input, per field. It is
// produced before any store interaction.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

const (
	passwordMinLen = 8
	passwordMaxLen = 20
	nameMinLen     = 2
	nameMaxLen     = 50
	specialRunes   = `!@#$%^&*(),.?":{}|<>`
)

// validateRegister checks the registration input shape. The raw password is
// inspected in memory only; it never appears in the returned messages.
func validateRegister(in RegisterInput) *ValidationError {
	var fields []FieldError

	email := strings.TrimSpace(in.Email)
	if email == "" {
		fields = append(fields, FieldError{"email", "is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, FieldError{"email", "is not a valid email address"})
	}

	if msg := passwordPolicy(in.Password); msg != "" {
		fields = append(fields, FieldError{"password", msg})
	}
	if in.Password != in.PasswordConfirm {
		fields = append(fields, FieldError{"passwordConfirm", "does not match password"})
	}

	name := strings.TrimSpace(in.Name)
	if n := len([]rune(name)); n < nameMinLen || n > nameMaxLen {
		fields = append(fields, FieldError{"name", "must be 2-50 characters"})
	}

	if strings.TrimSpace(in.PhoneNumber) == "" {
		fields = append(fields, FieldError{"phoneNumber", "is required"})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// passwordPolicy enforces 8-20 characters with at least one letter, one
// digit, and one special character.
func passwordPolicy(pw string) string {
	if n := len(pw); n < passwordMinLen || n > passwordMaxLen {
		return "must be 8-20 characters"
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit || !strings.ContainsAny(pw, specialRunes) {
		return "must contain a letter, a digit, and a special character"
	}
	return ""
}
