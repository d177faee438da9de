package access

import (
	"context"
	"errors"

	"Inkwell/internal/model"
)

// ErrResourceNotFound возвращается AuthorLookup, если ресурса нет.
var ErrResourceNotFound = errors.New("resource not found")

// AuthorLookup возвращает автора ресурса по id.
type AuthorLookup func(ctx context.Context, id string) (authorID string, err error)

// ResourceKind - закрытый набор видов ресурсов с автором.
// Реализации есть только в этом пакете: NoteResource и CommentResource.
type ResourceKind interface {
	Name() string
	NotFoundCode() string
	AuthorOf(ctx context.Context, id string) (string, error)
	sealed()
}

type noteResource struct{ lookup AuthorLookup }

func (noteResource) Name() string         { return "note" }
func (noteResource) NotFoundCode() string { return model.CodeNoteNotFound }
func (noteResource) sealed()              {}
func (r noteResource) AuthorOf(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, id)
}

type commentResource struct{ lookup AuthorLookup }

func (commentResource) Name() string         { return "comment" }
func (commentResource) NotFoundCode() string { return model.CodeCommentNotFound }
func (commentResource) sealed()              {}
func (r commentResource) AuthorOf(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, id)
}

// NoteResource связывает вид "заметка" с функцией поиска автора.
func NoteResource(lookup AuthorLookup) ResourceKind {
	return noteResource{lookup: lookup}
}

// CommentResource связывает вид "комментарий" с функцией поиска автора.
func CommentResource(lookup AuthorLookup) ResourceKind {
	return commentResource{lookup: lookup}
}

// Resolve читает автора ресурса. ErrResourceNotFound превращается в Found=false,
// прочие ошибки возвращаются вызывающему.
func Resolve(ctx context.Context, kind ResourceKind, id string) (*ResourceState, error) {
	authorID, err := kind.AuthorOf(ctx, id)
	if errors.Is(err, ErrResourceNotFound) {
		return &ResourceState{Kind: kind, Found: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ResourceState{Kind: kind, Found: true, AuthorID: authorID}, nil
}
