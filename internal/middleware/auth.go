package middleware

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/model"
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	headerPresentKey
	subjectKey
)

// WithAuth разбирает заголовок Authorization: Bearer <token>.
// Запрос никогда не отклоняется здесь: отказ решают guard'ы маршрутов.
// В контекст кладутся принципал (если токен валиден) и признак наличия заголовка.
func WithAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), headerPresentKey, true)
			scheme, token, ok := strings.Cut(header, " ")
			if ok && strings.EqualFold(scheme, "Bearer") {
				if p, err := tokens.Verify(strings.TrimSpace(token)); err == nil {
					ctx = context.WithValue(ctx, principalKey, p)
				} else {
					sugar.Debugw("token rejected", "error", err, "path", r.URL.Path)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext возвращает принципала, если токен был валиден.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	if !ok {
		return nil, false
	}
	return &p, true
}

// AuthHeaderPresent сообщает, прислал ли клиент заголовок Authorization.
func AuthHeaderPresent(ctx context.Context) bool {
	v, _ := ctx.Value(headerPresentKey).(bool)
	return v
}

// UserLookup - чтение пользователя по id; nil без ошибки, если его нет.
type UserLookup interface {
	Lookup(ctx context.Context, id string) (*model.User, error)
}

// subjectState - результат сверки субъекта токена с БД.
type subjectState struct {
	exists bool
	err    error
}

// WithCurrentUser сверяет субъекта токена с БД после WithAuth.
// Роль в принципале заменяется ролью из хранилища, поэтому смена роли действует
// сразу, без перевыпуска токена. Ошибка чтения не прерывает запрос: её увидит guard.
func WithCurrentUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			u, err := users.Lookup(ctx, p.SubjectID)
			switch {
			case err != nil:
				sugar.Warnw("subject lookup failed", "user_id", p.SubjectID, "error", err)
				ctx = context.WithValue(ctx, subjectKey, subjectState{err: err})
			case u == nil:
				ctx = context.WithValue(ctx, subjectKey, subjectState{})
			default:
				if u.Role != p.Role {
					sugar.Debugw("token role is stale", "user_id", u.ID, "token_role", p.Role, "role", u.Role)
				}
				ctx = context.WithValue(ctx, principalKey, auth.Principal{SubjectID: u.ID, Role: u.Role})
				ctx = context.WithValue(ctx, subjectKey, subjectState{exists: true})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectExists сообщает, найден ли субъект токена в БД.
// Без WithCurrentUser в цепочке субъект считается ненайденным.
func SubjectExists(ctx context.Context) (bool, error) {
	st, ok := ctx.Value(subjectKey).(subjectState)
	if !ok {
		return false, nil
	}
	return st.exists, st.err
}

// IsOwner - действующий OWNER: роль сверена с БД, пользователь существует.
// Используется ключами кеша и видимостью черновиков.
func IsOwner(r *http.Request) bool {
	p, ok := PrincipalFromContext(r.Context())
	if !ok || !p.IsOwner() {
		return false
	}
	exists, err := SubjectExists(r.Context())
	return err == nil && exists
}
