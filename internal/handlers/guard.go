package handlers

import (
	"Inkwell/internal/access"
	"Inkwell/internal/auth"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"net/http"
	"strings"
)

// guard собирает access.Request из контекста запроса и применяет access.Decide.
// Субъект уже сверен с БД в middleware.WithCurrentUser; здесь читается только автор ресурса.
type guard struct {
	failer
}

// denial переводит код отказа в ответ с нужным статусом.
func denial(reason string) *model.AppError {
	switch reason {
	case model.CodeNoToken:
		return model.NewUnauthorizedError(reason, "authentication required")
	case model.CodeInvalidToken:
		return model.NewUnauthorizedError(reason, "invalid or expired token")
	case model.CodeUserNotFound:
		return model.NewUnauthorizedError(reason, "user no longer exists")
	case model.CodeCannotChangeOwnRole:
		return model.NewForbiddenError(reason, "cannot change your own role")
	}
	if strings.HasSuffix(reason, "_NOT_FOUND") {
		return model.NewNotFoundError(reason, strings.ToLower(strings.TrimSuffix(reason, "_NOT_FOUND"))+" not found")
	}
	return model.NewForbiddenError(model.CodeForbidden, "insufficient permissions")
}

// authorize возвращает субъекта, если решение ALLOW; иначе пишет отказ и возвращает false.
func (g guard) authorize(w http.ResponseWriter, r *http.Request, req access.Request) (*auth.Principal, bool) {
	ctx := r.Context()
	p, _ := middleware.PrincipalFromContext(ctx)
	req.Principal = p
	req.HeaderPresent = middleware.AuthHeaderPresent(ctx)

	if p != nil && req.Requirement != access.Public {
		exists, err := middleware.SubjectExists(ctx)
		if err != nil {
			g.fail(w, r, err, "AUTHORIZATION_ERROR")
			return nil, false
		}
		req.UserExists = exists
	}

	d := access.Decide(req)
	if !d.Allowed {
		response.Error(w, denial(d.Reason))
		return nil, false
	}
	return p, true
}

// require - проверка без ресурса: Authenticated или OwnerOnly.
func (g guard) require(w http.ResponseWriter, r *http.Request, requirement access.Requirement) (*auth.Principal, bool) {
	return g.authorize(w, r, access.Request{Requirement: requirement})
}

// owns - автор ресурса или OWNER. Автор читается только для действующего токена,
// чтобы анонимный запрос получал NO_TOKEN, а не 404.
func (g guard) owns(w http.ResponseWriter, r *http.Request, kind access.ResourceKind, id string) (*auth.Principal, bool) {
	req := access.Request{Requirement: access.OwnershipOrOwner}
	if _, ok := middleware.PrincipalFromContext(r.Context()); ok {
		state, err := access.Resolve(r.Context(), kind, id)
		if err != nil {
			g.fail(w, r, err, "AUTHORIZATION_ERROR")
			return nil, false
		}
		req.Resource = state
	}
	return g.authorize(w, r, req)
}
