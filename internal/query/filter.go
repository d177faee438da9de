package query

import "strings"

// ClauseKind - вид условия фильтра.
type ClauseKind int

const (
	// ClauseSearch - каждый термин встречается в title, content или excerpt.
	ClauseSearch ClauseKind = iota
	// ClauseCategory - равенство рубрики.
	ClauseCategory
	// ClauseTagsAll - у заметки есть ВСЕ перечисленные метки.
	ClauseTagsAll
	// ClausePublished - статус публикации.
	ClausePublished
)

// Clause - одно именованное условие.
type Clause struct {
	Kind   ClauseKind
	Terms  []string
	Value  string
	Values []string
	Bool   bool
}

// Filter - конъюнкция условий; пустой фильтр пропускает всё.
type Filter struct {
	Clauses []Clause
}

// Has сообщает, есть ли условие указанного вида.
func (f Filter) Has(kind ClauseKind) bool {
	_, ok := f.Find(kind)
	return ok
}

// Find возвращает первое условие указанного вида.
func (f Filter) Find(kind ClauseKind) (Clause, bool) {
	for _, c := range f.Clauses {
		if c.Kind == kind {
			return c, true
		}
	}
	return Clause{}, false
}

// SearchTerms разбивает поисковую строку на термины в нижнем регистре.
func SearchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// NoteFilter строит фильтр листинга заметок. Без includeDrafts видны только
// опубликованные заметки, и параметр Published игнорируется.
func NoteFilter(p ListParams, includeDrafts bool) Filter {
	var f Filter
	if terms := SearchTerms(p.Search); len(terms) > 0 {
		f.Clauses = append(f.Clauses, Clause{Kind: ClauseSearch, Terms: terms})
	}
	if p.CategoryID != "" {
		f.Clauses = append(f.Clauses, Clause{Kind: ClauseCategory, Value: p.CategoryID})
	}
	if len(p.TagIDs) > 0 {
		f.Clauses = append(f.Clauses, Clause{Kind: ClauseTagsAll, Values: p.TagIDs})
	}
	switch {
	case !includeDrafts:
		f.Clauses = append(f.Clauses, Clause{Kind: ClausePublished, Bool: true})
	case p.Published != nil:
		f.Clauses = append(f.Clauses, Clause{Kind: ClausePublished, Bool: *p.Published})
	}
	return f
}
