package middleware

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/model"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Тест: валидный Bearer-токен - принципал попадает в контекст
func TestWithAuth_ValidBearerSetsPrincipal(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue("user-77", model.RoleOwner)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || p.SubjectID != "user-77" || !p.IsOwner() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// без сверки с БД OWNER из токена ещё не действующий
		if IsOwner(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	WithAuth(tokens)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rr.Code)
	}
}

// Тест: отсутствие заголовка - анонимный запрос, заголовок не отмечен
func TestWithAuth_NoHeaderLeavesAnonymous(t *testing.T) {
	h := WithAuth(auth.NewTokenManager("any-secret", time.Hour))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			t.Fatalf("principal must not be set without header")
		}
		if AuthHeaderPresent(r.Context()) {
			t.Fatalf("header must not be reported as present")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// Тест: невалидный токен - принципала нет, но заголовок отмечен (INVALID_TOKEN, а не NO_TOKEN)
func TestWithAuth_InvalidToken(t *testing.T) {
	token, _ := auth.NewTokenManager("secret-A", time.Hour).Issue("u", model.RoleVisitor)

	h := WithAuth(auth.NewTokenManager("secret-B", time.Hour))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			t.Fatalf("principal must not be set with invalid token")
		}
		if !AuthHeaderPresent(r.Context()) {
			t.Fatalf("header must be reported as present")
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"Bearer " + token, "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %q, got %d", header, rr.Code)
		}
	}
}

// lookupFunc - UserLookup поверх функции
type lookupFunc func(ctx context.Context, id string) (*model.User, error)

func (f lookupFunc) Lookup(ctx context.Context, id string) (*model.User, error) { return f(ctx, id) }

// Тест: роль берётся из БД, а не из токена
func TestWithCurrentUser_RoleFromStore(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := map[string]*model.User{
		"demoted":  {ID: "demoted", Role: model.RoleVisitor},
		"promoted": {ID: "promoted", Role: model.RoleOwner},
	}
	lookup := lookupFunc(func(_ context.Context, id string) (*model.User, error) {
		if id == "broken" {
			return nil, errors.New("db down")
		}
		return users[id], nil
	})

	type seen struct {
		role   model.Role
		owner  bool
		exists bool
		err    error
	}
	run := func(subject string, tokenRole model.Role) seen {
		t.Helper()
		token, err := tokens.Issue(subject, tokenRole)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		var got seen
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := PrincipalFromContext(r.Context()); ok {
				got.role = p.Role
			}
			got.owner = IsOwner(r)
			got.exists, got.err = SubjectExists(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		WithAuth(tokens)(WithCurrentUser(lookup)(next)).ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	if got := run("demoted", model.RoleOwner); got.role != model.RoleVisitor || got.owner || !got.exists {
		t.Fatalf("demoted owner token must act as visitor, got %+v", got)
	}
	if got := run("promoted", model.RoleVisitor); got.role != model.RoleOwner || !got.owner || !got.exists {
		t.Fatalf("promoted visitor token must act as owner, got %+v", got)
	}
	if got := run("gone", model.RoleOwner); got.owner || got.exists || got.err != nil {
		t.Fatalf("deleted subject must not exist, got %+v", got)
	}
	if got := run("broken", model.RoleOwner); got.owner || got.err == nil {
		t.Fatalf("lookup error must be reported, got %+v", got)
	}
}
