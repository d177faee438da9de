package repo

import (
	"Inkwell/internal/model"
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacetCount - рубрика или метка с числом опубликованных заметок.
type FacetCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Color     string `json:"color,omitempty"`
	NoteCount int64  `json:"noteCount"`
}

// CategoryRepository - доступ к рубрикам.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Update(ctx context.Context, id string, fields map[string]any) (*model.Category, error)
	// Delete удаляет рубрику; у заметок category_id становится NULL.
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) ([]FacetCount, error)
}

// TagRepository - доступ к меткам.
type TagRepository interface {
	List(ctx context.Context, search string, offset, limit int) ([]model.Tag, int64, error)
	GetByID(ctx context.Context, id string) (*model.Tag, error)
	// CountExisting считает, сколько из ids существует (для проверки входных tagIds).
	CountExisting(ctx context.Context, ids []string) (int64, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, t *model.Tag) (*model.Tag, error)
	Update(ctx context.Context, id string, fields map[string]any) (*model.Tag, error)
	// Delete удаляет метку и её связи с заметками.
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) ([]FacetCount, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(r.db.WithContext(ctx).Model(&model.Category{}), slug, excludeID)
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *categoryRepo) Update(ctx context.Context, id string, fields map[string]any) (*model.Category, error) {
	if err := updateByID(r.db.WithContext(ctx).Model(&model.Category{}), id, fields); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Note{}).Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *categoryRepo) Counts(ctx context.Context) ([]FacetCount, error) {
	var out []FacetCount
	err := r.db.WithContext(ctx).Table("categories").
		Select("categories.id, categories.name, categories.slug, categories.color, COUNT(notes.id) AS note_count").
		Joins("LEFT JOIN notes ON notes.category_id = categories.id AND notes.published = ?", true).
		Group("categories.id, categories.name, categories.slug, categories.color").
		Order("categories.name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type tagRepo struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) List(ctx context.Context, search string, offset, limit int) ([]model.Tag, int64, error) {
	scope := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&model.Tag{})
		if search != "" {
			tx = tx.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
		}
		return tx
	}
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tags []model.Tag
	if err := scope().Order("name ASC").Offset(offset).Limit(limit).Find(&tags).Error; err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) CountExisting(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *tagRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(r.db.WithContext(ctx).Model(&model.Tag{}), slug, excludeID)
}

func (r *tagRepo) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (r *tagRepo) Update(ctx context.Context, id string, fields map[string]any) (*model.Tag, error) {
	if err := updateByID(r.db.WithContext(ctx).Model(&model.Tag{}), id, fields); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *tagRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM note_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *tagRepo) Counts(ctx context.Context) ([]FacetCount, error) {
	var out []FacetCount
	err := r.db.WithContext(ctx).Table("tags").
		Select("tags.id, tags.name, tags.slug, COUNT(notes.id) AS note_count").
		Joins("LEFT JOIN note_tags ON note_tags.tag_id = tags.id").
		Joins("LEFT JOIN notes ON notes.id = note_tags.note_id AND notes.published = ?", true).
		Group("tags.id, tags.name, tags.slug").
		Order("tags.name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func slugExists(tx *gorm.DB, slug, excludeID string) (bool, error) {
	tx = tx.Where("slug = ?", slug)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func updateByID(tx *gorm.DB, id string, fields map[string]any) error {
	if len(fields) == 0 {
		var n int64
		if err := tx.Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	res := tx.Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
