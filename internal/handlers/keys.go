package handlers

import (
	"Inkwell/internal/cache"
	"Inkwell/internal/middleware"
	"Inkwell/internal/query"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Шаблоны инвалидации по видам записи.
var (
	noteWritePatterns = []string{
		"notes:*", "note:*:detail", "note:*:comments", "filters:*", "search:*", "stats:*",
	}
	likePatterns     = []string{"notes:*", "note:*:detail", "stats:*"}
	commentPatterns  = []string{"note:*:comments", "note:*:detail", "stats:*"}
	categoryPatterns = []string{"categories:*", "filters:*", "notes:*", "note:*:detail", "stats:*"}
	tagPatterns      = []string{"tags:*", "filters:*", "notes:*", "note:*:detail", "stats:*"}
	// имя автора встроено в карточки заметок и комментарии
	profilePatterns = []string{"notes:*", "note:*:detail", "note:*:comments"}
)

// keyPart экранирует значение из пути, чтобы оно не сломало glob-шаблоны.
func keyPart(s string) string {
	return url.PathEscape(s)
}

func staticKey(key string) func(*http.Request) (string, bool) {
	return func(*http.Request) (string, bool) { return key, true }
}

// noteListKey - notes:list:<canon>. OWNER видит черновики, поэтому его запросы не кешируются.
func noteListKey(r *http.Request) (string, bool) {
	if middleware.IsOwner(r) {
		return "", false
	}
	p, errs := query.ParseListParams(r.URL.Query())
	if len(errs) > 0 {
		return "", false
	}
	return cache.Key("notes:list", p.Values()), true
}

// noteDetailKey - note:<idOrSlug>:detail.
func noteDetailKey(r *http.Request) (string, bool) {
	if middleware.IsOwner(r) {
		return "", false
	}
	return "note:" + keyPart(chi.URLParam(r, "id")) + ":detail", true
}

// noteCommentsKey - note:<id>:comments.
func noteCommentsKey(r *http.Request) (string, bool) {
	if middleware.IsOwner(r) {
		return "", false
	}
	return "note:" + keyPart(chi.URLParam(r, "id")) + ":comments", true
}

// suggestKey - search:suggest:<canon>; запрос приводится к нижнему регистру.
func suggestKey(r *http.Request) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	return cache.Key("search:suggest", url.Values{"q": {q}}), true
}

func tagListKey(r *http.Request) (string, bool) {
	p, errs := query.ParseTagListParams(r.URL.Query())
	if len(errs) > 0 {
		return "", false
	}
	return cache.Key("tags:list", p.Values()), true
}

func idKey(prefix string) func(*http.Request) (string, bool) {
	return func(r *http.Request) (string, bool) {
		return prefix + ":" + keyPart(chi.URLParam(r, "id")), true
	}
}
