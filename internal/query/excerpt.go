package query

import (
	"regexp"
	"strings"
)

// ExcerptLength - длина автоматического excerpt по умолчанию.
const ExcerptLength = 200

var (
	reFenced     = regexp.MustCompile("(?s)```.*?```")
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reInlineCode = regexp.MustCompile("`([^`]*)`")
	reHeader     = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]*`)
	reQuote      = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	reListMarker = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+\.)[ \t]+`)
	// выделение снимается только с парных маркеров: 2*3 и snake_case остаются как есть
	reStarEmphasis  = regexp.MustCompile(`(^|[^\p{L}\p{N}*])\*{1,3}([^*\s](?:[^*\n]*[^*\s])?)\*{1,3}($|[^\p{L}\p{N}*])`)
	reUnderEmphasis = regexp.MustCompile(`(^|[^\p{L}\p{N}_])_{1,3}([^_\s](?:[^_\n]*[^_\s])?)_{1,3}($|[^\p{L}\p{N}_])`)
	reStrike        = regexp.MustCompile(`~~([^~\n]+)~~`)
)

// stripEmphasis снимает парные маркеры выделения, сохраняя текст внутри.
func stripEmphasis(s string) string {
	// соседние *a* *b* делят разделитель, поэтому второй проход
	for i := 0; i < 2; i++ {
		s = reStarEmphasis.ReplaceAllString(s, "$1$2$3")
		s = reUnderEmphasis.ReplaceAllString(s, "$1$2$3")
	}
	return reStrike.ReplaceAllString(s, "$1")
}

// Excerpt строит текстовую выжимку из markdown: убирает разметку, схлопывает
// пробелы и обрезает по последней границе слова до limit, добавляя "...".
func Excerpt(markdown string, limit int) string {
	if limit <= 0 {
		limit = ExcerptLength
	}
	s := reFenced.ReplaceAllString(markdown, " ")
	s = reImage.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reHeader.ReplaceAllString(s, "")
	s = reQuote.ReplaceAllString(s, "")
	s = reListMarker.ReplaceAllString(s, "")
	s = stripEmphasis(s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:!?-") + "..."
}
