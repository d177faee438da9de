package repo

import (
	"Inkwell/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository - доступ к комментариям.
type CommentRepository interface {
	ListByNote(ctx context.Context, noteID string) ([]model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Comment, error)
	// Delete удаляет комментарий и все ответы на него (рекурсивно); возвращает число удалённых.
	Delete(ctx context.Context, id string) (int64, error)
	AuthorOf(ctx context.Context, id string) (string, error)
}

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) ListByNote(ctx context.Context, noteID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("note_id = ?", noteID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepo) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Omit("Author").Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, c.ID)
}

func (r *commentRepo) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepo) Delete(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root model.Comment
		if err := tx.Select("id").Where("id = ?", id).First(&root).Error; err != nil {
			return err
		}
		// обходим дерево ответов по уровням
		ids := []string{id}
		frontier := []string{id}
		for len(frontier) > 0 {
			var children []string
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		res := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *commentRepo) AuthorOf(ctx context.Context, id string) (string, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Select("author_id").Where("id = ?", id).First(&c).Error; err != nil {
		return "", err
	}
	return c.AuthorID, nil
}
