package commands

import (
	"Inkwell/internal/config"
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// newTestConfig направляет файл токена во временный каталог.
func newTestConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenFile: filepath.Join(t.TempDir(), "Inkwell", "auth_token"),
	}
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// respond - сервер, отвечающий фиксированным статусом и телом.
func respond(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

const authBody = `{"success":true,"data":{"user":{"id":"u1","email":"alice@example.com","name":"alice","role":"VISITOR"},"token":"tok-123"}}`
