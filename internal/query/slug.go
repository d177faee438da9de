package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Slugify приводит строку к виду slug: нижний регистр, любые серии символов
// вне [a-z0-9] заменяются одним дефисом, дефисы по краям обрезаются.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugExists сообщает, занят ли slug.
type SlugExists func(ctx context.Context, slug string) (bool, error)

// UniqueSlug возвращает первый свободный вариант: base, base-1, base-2, ...
// Пустой base заменяется на fallback.
func UniqueSlug(ctx context.Context, base, fallback string, exists SlugExists) (string, error) {
	base = Slugify(base)
	if base == "" {
		base = Slugify(fallback)
	}
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
