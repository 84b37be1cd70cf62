package httpserver

import (
	"context"

	"github.com/todoapp/todo-server/internal/model"
)

type ctxKey string

const principalKey ctxKey = "todo.principal"

// WithPrincipal stores the authenticated principal in the request context.
// The principal lives only for one request; it is never cached process-wide.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the authenticated principal from context.
func PrincipalFromCtx(ctx context.Context) (model.Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
