// Package query строит параметры выборок: фильтры, сортировку, пагинацию,
// а также slug и excerpt заметок. Пакет не знает о конкретном хранилище.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"Inkwell/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage держит смещение (page-1)*limit в пределах int32 для любого драйвера.
	MaxPage = math.MaxInt32 / MaxLimit
	// MaxSearchLength ограничивает поисковую строку.
	MaxSearchLength = 100
)

// Поля сортировки заметок.
const (
	SortCreatedAt = "createdAt"
	SortTitle     = "title"
	SortLikeCount = "likeCount"
	SortUpdatedAt = "updatedAt"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// sortColumns - белый список сортировки: имя в API → колонка.
var sortColumns = map[string]string{
	SortCreatedAt: "created_at",
	SortTitle:     "title",
	SortLikeCount: "like_count",
	SortUpdatedAt: "updated_at",
}

// ListParams - разобранные параметры листинга.
type ListParams struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	TagIDs     []string
	SortBy     string
	SortOrder  string
	// Published - фильтр по статусу; учитывается только для OWNER.
	Published *bool
}

// Offset - смещение для текущей страницы.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SortColumn возвращает колонку сортировки из белого списка.
func (p ListParams) SortColumn() string {
	if col, ok := sortColumns[p.SortBy]; ok {
		return col
	}
	return sortColumns[SortCreatedAt]
}

// Values - каноническое представление параметров для ключа кеша.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("sortBy", p.SortBy)
	v.Set("sortOrder", p.SortOrder)
	if p.Search != "" {
		v.Set("search", strings.ToLower(p.Search))
	}
	if p.CategoryID != "" {
		v.Set("categoryId", p.CategoryID)
	}
	for _, id := range p.TagIDs {
		v.Add("tagIds", id)
	}
	if p.Published != nil {
		v.Set("published", strconv.FormatBool(*p.Published))
	}
	return v
}

// ParseListParams разбирает query-параметры листинга. Все ошибки полей собираются вместе.
// Неизвестные sortBy/sortOrder заменяются значениями по умолчанию.
func ParseListParams(q url.Values) (ListParams, []model.FieldError) {
	var errs []model.FieldError
	p := ListParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortCreatedAt,
		SortOrder: OrderDesc,
	}

	p.Page, errs = parseBoundedInt(q, "page", DefaultPage, 1, MaxPage, errs)
	p.Limit, errs = parseBoundedInt(q, "limit", DefaultLimit, 1, MaxLimit, errs)

	p.Search = truncateRunes(strings.Join(strings.Fields(q.Get("search")), " "), MaxSearchLength)
	p.CategoryID = strings.TrimSpace(q.Get("categoryId"))
	p.TagIDs = splitIDs(q["tagIds"])

	if _, ok := sortColumns[q.Get("sortBy")]; ok {
		p.SortBy = q.Get("sortBy")
	}
	if o := strings.ToLower(q.Get("sortOrder")); o == OrderAsc || o == OrderDesc {
		p.SortOrder = o
	}

	if raw := strings.TrimSpace(q.Get("published")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, model.FieldError{Field: "published", Message: "must be true or false"})
		} else {
			p.Published = &b
		}
	}

	return p, errs
}

// ParsePage разбирает только page и limit.
func ParsePage(q url.Values) (page, limit int, errs []model.FieldError) {
	page, errs = parseBoundedInt(q, "page", DefaultPage, 1, MaxPage, errs)
	limit, errs = parseBoundedInt(q, "limit", DefaultLimit, 1, MaxLimit, errs)
	return page, limit, errs
}

// parseBoundedInt читает целое в [lo, hi]; hi == 0 - без верхней границы.
func parseBoundedInt(q url.Values, name string, def, lo, hi int, errs []model.FieldError) (int, []model.FieldError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, errs
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, append(errs, model.FieldError{Field: name, Message: "must be an integer"})
	}
	if n < lo {
		return def, append(errs, model.FieldError{Field: name, Message: "must be at least " + strconv.Itoa(lo)})
	}
	if hi > 0 && n > hi {
		return def, append(errs, model.FieldError{Field: name, Message: "must be at most " + strconv.Itoa(hi)})
	}
	return n, errs
}

// splitIDs принимает и повторяющиеся параметры, и значения через запятую; убирает дубли.
func splitIDs(raw []string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range raw {
		for _, id := range strings.Split(r, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
