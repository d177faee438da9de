package handlers_test

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/cache"
	"Inkwell/internal/config"
	"Inkwell/internal/handlers"
	"Inkwell/internal/model"
	"Inkwell/internal/repo"
	"Inkwell/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testSecret     = "test-secret"
	testOwnerEmail = "owner@example.com"
	testPassword   = "passw0rd"
)

type testEnv struct {
	t      *testing.T
	router http.Handler
	db     *gorm.DB
	mr     *miniredis.Miniredis
	tokens *auth.TokenManager
}

// newTestEnv собирает роутер на реальных репозиториях: in-memory SQLite и miniredis.
// Модификаторы cfg применяются до сборки роутера.
func newTestEnv(t *testing.T, mods ...func(*config.Config)) *testEnv {
	t.Helper()
	db, err := repo.InitDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	store := cache.NewRedisStore("redis://" + mr.Addr() + "/0")
	require.NoError(t, store.Connect(context.Background()))
	t.Cleanup(func() { _ = store.Disconnect() })

	cfg := &config.Config{
		AuthSecret:          testSecret,
		OwnerEmail:          testOwnerEmail,
		CORSOrigin:          "http://localhost:5173",
		RateLimitPerMin:     10000,
		AuthRateLimitPerMin: 10000,
	}
	for _, mod := range mods {
		mod(cfg)
	}
	tokens := auth.NewTokenManager(cfg.AuthSecret, time.Hour)
	logger := zap.NewNop().Sugar()

	categoryRepo := repo.NewCategoryRepository(db)
	tagRepo := repo.NewTagRepository(db)
	users := service.NewUserService(repo.NewUserRepository(db), tokens, cfg.OwnerEmail)
	notes := service.NewNoteService(repo.NewNoteRepository(db), categoryRepo, tagRepo)

	h := handlers.NewHandler(handlers.Deps{
		Users:      users,
		Notes:      notes,
		Comments:   service.NewCommentService(repo.NewCommentRepository(db), notes),
		Categories: service.NewCategoryService(categoryRepo),
		Tags:       service.NewTagService(tagRepo),
		Tokens:     tokens,
		Cache:      store,
		DB:         handlers.PingFunc(func(context.Context) error { return repo.Ping(db) }),
	}, logger, cfg)
	t.Cleanup(h.Close)

	return &testEnv{t: t, router: h.Router, db: db, mr: mr, tokens: tokens}
}

type apiError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []model.FieldError `json:"details"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type reqOpt func(*http.Request)

func withToken(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func fromIP(ip string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Real-IP", ip) }
}

func (e *testEnv) do(method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode разбирает конверт; data раскладывается в dst, если он не nil.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	if dst != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env
}

// errorCode - код ошибки из конверта.
func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rr, nil)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "body: %s", rr.Body.String())
	return env.Error.Code
}

// register создаёт пользователя через API и возвращает токен и профиль.
func (e *testEnv) register(email string) (string, handlers.UserView) {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": testPassword})
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var v handlers.AuthView
	decode(e.t, rr, &v)
	return v.Token, v.User
}

func (e *testEnv) createNote(token string, body map[string]any) handlers.NoteView {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/notes", body, withToken(token))
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var n handlers.NoteView
	decode(e.t, rr, &n)
	return n
}

func (e *testEnv) createTag(token, name string) handlers.TagView {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/tags", map[string]string{"name": name}, withToken(token))
	require.Equal(e.t, http.StatusCreated, rr.Code, rr.Body.String())
	var tag handlers.TagView
	decode(e.t, rr, &tag)
	return tag
}
