package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"React Basics":      "react-basics",
		"  Hello, World! ":  "hello-world",
		"C++ & Go":          "c-go",
		"already-a-slug":    "already-a-slug",
		"Привет":            "",
		"--multi---dash--":  "multi-dash",
		"Version 2.0 Notes": "version-2-0-notes",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug_Sequence(t *testing.T) {
	taken := map[string]bool{}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	var got []string
	for i := 0; i < 3; i++ {
		s, err := UniqueSlug(context.Background(), "React Basics", "note", exists)
		require.NoError(t, err)
		taken[s] = true
		got = append(got, s)
	}
	assert.Equal(t, []string{"react-basics", "react-basics-1", "react-basics-2"}, got)
}

func TestUniqueSlug_Fallback(t *testing.T) {
	exists := func(context.Context, string) (bool, error) { return false, nil }
	s, err := UniqueSlug(context.Background(), "Привет", "note", exists)
	require.NoError(t, err)
	assert.Equal(t, "note", s)
}

func TestUniqueSlug_LookupError(t *testing.T) {
	boom := errors.New("boom")
	exists := func(context.Context, string) (bool, error) { return false, boom }
	_, err := UniqueSlug(context.Background(), "x", "note", exists)
	assert.ErrorIs(t, err, boom)
}

func TestUniqueSlug_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exists := func(context.Context, string) (bool, error) { return true, nil }
	_, err := UniqueSlug(ctx, "x", "note", exists)
	assert.ErrorIs(t, err, context.Canceled)
}
