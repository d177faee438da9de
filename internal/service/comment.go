package service

import (
	"Inkwell/internal/access"
	"Inkwell/internal/model"
	"Inkwell/internal/repo"
	"context"
	"fmt"
	"unicode/utf8"
)

// MaxCommentLength - предел длины комментария.
const MaxCommentLength = 2000

// CommentNode - комментарий с вложенными ответами.
type CommentNode struct {
	Comment model.Comment
	Replies []*CommentNode
}

// CommentService - комментарии к заметкам.
type CommentService struct {
	comments repo.CommentRepository
	notes    *NoteService
}

func NewCommentService(comments repo.CommentRepository, notes *NoteService) *CommentService {
	return &CommentService{comments: comments, notes: notes}
}

func validateComment(content string) error {
	var errs fieldErrors
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		errs.add("content", "is required")
	case n > MaxCommentLength:
		errs.add("content", fmt.Sprintf("must be at most %d characters", MaxCommentLength))
	}
	return errs.err()
}

// ListForNote возвращает дерево комментариев заметки, от старых к новым.
func (s *CommentService) ListForNote(ctx context.Context, noteID string, includeDrafts bool) ([]*CommentNode, error) {
	note, err := s.notes.Get(ctx, noteID, includeDrafts)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByNote(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree раскладывает плоский список по ParentID с сохранением порядка.
// Ответ, чей родитель не найден, поднимается на верхний уровень.
func BuildCommentTree(comments []model.Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
	}
	roots := []*CommentNode{}
	for i := range comments {
		node := nodes[comments[i].ID]
		if pid := comments[i].ParentID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Create добавляет комментарий; родитель должен принадлежать той же заметке.
func (s *CommentService) Create(ctx context.Context, noteID, authorID, content string, parentID *string) (*model.Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}
	note, err := s.notes.Get(ctx, noteID, false)
	if err != nil {
		return nil, err
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil && !repo.IsNotFound(err) {
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent == nil || parent.NoteID != note.ID {
			return nil, model.NewValidationError([]model.FieldError{{Field: "parentId", Message: "parent comment does not belong to this note"}})
		}
	}
	c, err := s.comments.Create(ctx, &model.Comment{
		NoteID:   note.ID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// Update меняет текст комментария.
func (s *CommentService) Update(ctx context.Context, id, content string) (*model.Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}
	c, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, notFound(err, model.ErrCommentNotFound(), "update comment")
	}
	return c, nil
}

// Delete удаляет комментарий и все ответы на него.
func (s *CommentService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.comments.Delete(ctx, id)
	if err != nil {
		return 0, notFound(err, model.ErrCommentNotFound(), "delete comment")
	}
	return n, nil
}

// AuthorOf - lookup для access.CommentResource.
func (s *CommentService) AuthorOf(ctx context.Context, id string) (string, error) {
	authorID, err := s.comments.AuthorOf(ctx, id)
	if repo.IsNotFound(err) {
		return "", access.ErrResourceNotFound
	}
	return authorID, err
}
