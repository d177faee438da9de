package middleware

import (
	"Inkwell/internal/cache"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := cache.NewRedisStore("redis://" + mr.Addr() + "/0")
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() { _ = s.Disconnect() })
	return s, mr
}

func countingHandler(calls *int, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func staticKey(key string) func(*http.Request) (string, bool) {
	return func(*http.Request) (string, bool) { return key, true }
}

func TestCache_MissThenHit(t *testing.T) {
	store, mr := newStore(t)
	calls := 0
	h := Cache(store, CacheRoute{Namespace: "notes:list", TTL: cache.TTLMedium, Key: staticKey("notes:list:page=1")}, nil)(
		countingHandler(&calls, http.StatusOK, `{"success":true}`))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `{"success":true}`, rr.Body.String())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	}
	assert.Equal(t, 1, calls, "second request served from cache")
	assert.True(t, mr.Exists("notes:list:page=1"))
	assert.Equal(t, cache.TTLMedium, mr.TTL("notes:list:page=1"))
}

func TestCache_OnlySuccessStored(t *testing.T) {
	store, mr := newStore(t)
	calls := 0
	h := Cache(store, CacheRoute{Namespace: "note:detail", TTL: cache.TTLMedium, Key: staticKey("note:x:detail")}, nil)(
		countingHandler(&calls, http.StatusNotFound, `{"success":false}`))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notes/x", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	}
	assert.Equal(t, 2, calls)
	assert.False(t, mr.Exists("note:x:detail"))
}

func TestCache_KeyDeclined(t *testing.T) {
	store, mr := newStore(t)
	calls := 0
	decline := func(*http.Request) (string, bool) { return "", false }
	h := Cache(store, CacheRoute{Namespace: "note:detail", TTL: cache.TTLMedium, Key: decline}, nil)(
		countingHandler(&calls, http.StatusOK, `{}`))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestCache_StoreDownFallsThrough(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	calls := 0
	h := Cache(store, CacheRoute{Namespace: "notes:list", TTL: cache.TTLMedium, Key: staticKey("k")}, nil)(
		countingHandler(&calls, http.StatusOK, `{"ok":1}`))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"ok":1}`, rr.Body.String())
	assert.Equal(t, 1, calls)
}

func TestInvalidate_OnlyAfterSuccess(t *testing.T) {
	store, mr := newStore(t)
	seed := func() {
		require.NoError(t, mr.Set("notes:list:page=1", "x"))
		require.NoError(t, mr.Set("note:n1:detail", "x"))
		require.NoError(t, mr.Set("note:n1:comments", "x"))
		require.NoError(t, mr.Set("categories:list", "x"))
	}
	seed()
	patterns := []string{"notes:*", "note:*:detail"}

	calls := 0
	failing := Invalidate(store, patterns, nil)(countingHandler(&calls, http.StatusForbidden, `{}`))
	rr := httptest.NewRecorder()
	failing.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Len(t, mr.Keys(), 4, "failed write keeps cache")

	ok := Invalidate(store, patterns, nil)(countingHandler(&calls, http.StatusCreated, `{"id":1}`))
	rr = httptest.NewRecorder()
	ok.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, `{"id":1}`, rr.Body.String())
	assert.ElementsMatch(t, []string{"note:n1:comments", "categories:list"}, mr.Keys())
}

func TestInvalidate_StoreDownDoesNotFailWrite(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	calls := 0
	h := Invalidate(store, []string{"notes:*"}, nil)(countingHandler(&calls, http.StatusOK, `{}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, calls)
}
