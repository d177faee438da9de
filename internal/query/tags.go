package query

import (
	"net/url"
	"strconv"
	"strings"

	"Inkwell/internal/model"
)

// TagListParams - параметры листинга меток: поиск по имени и пагинация.
type TagListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p TagListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Values - канонические параметры для ключа кеша; поиск в нижнем регистре.
func (p TagListParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		v.Set("search", strings.ToLower(p.Search))
	}
	return v
}

// ParseTagListParams разбирает параметры листинга меток.
func ParseTagListParams(q url.Values) (TagListParams, []model.FieldError) {
	var errs []model.FieldError
	p := TagListParams{}
	p.Page, errs = parseBoundedInt(q, "page", DefaultPage, 1, MaxPage, errs)
	p.Limit, errs = parseBoundedInt(q, "limit", DefaultLimit, 1, MaxLimit, errs)
	p.Search = truncateRunes(strings.TrimSpace(q.Get("search")), MaxSearchLength)
	return p, errs
}
