package repo

import (
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteStats - агрегаты для /api/stats.
type NoteStats struct {
	TotalNotes      int64 `json:"totalNotes"`
	PublishedNotes  int64 `json:"publishedNotes"`
	DraftNotes      int64 `json:"draftNotes"`
	TotalComments   int64 `json:"totalComments"`
	TotalLikes      int64 `json:"totalLikes"`
	TotalCategories int64 `json:"totalCategories"`
	TotalTags       int64 `json:"totalTags"`
}

// NoteRepository - доступ к заметкам и лайкам.
type NoteRepository interface {
	List(ctx context.Context, f query.Filter, p query.ListParams) ([]model.Note, int64, error)
	GetByID(ctx context.Context, id string) (*model.Note, error)
	GetBySlug(ctx context.Context, slug string) (*model.Note, error)
	// SlugExists проверяет занятость slug; excludeID позволяет не считать саму заметку.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, note *model.Note, tagIDs []string) (*model.Note, error)
	// Update меняет поля и, если tagIDs != nil, заменяет набор меток; всё в одной транзакции.
	Update(ctx context.Context, id string, fields map[string]any, tagIDs *[]string) (*model.Note, error)
	// Delete удаляет заметку вместе с комментариями, лайками и связями с метками.
	Delete(ctx context.Context, id string) error
	AuthorOf(ctx context.Context, id string) (string, error)

	// AddLike добавляет лайк и атомарно увеличивает like_count.
	// ErrDuplicate, если с этого IP лайк уже есть.
	AddLike(ctx context.Context, noteID, ip string) (int64, error)
	HasLike(ctx context.Context, noteID, ip string) (bool, error)

	Suggest(ctx context.Context, terms []string, limit int) ([]model.Note, error)
	Stats(ctx context.Context) (NoteStats, error)
}

type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository создаёт реализацию репозитория заметок.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Category").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	})
}

// applyNoteFilter - единственное место, где query.Filter превращается в SQL.
func applyNoteFilter(tx *gorm.DB, f query.Filter) *gorm.DB {
	for _, c := range f.Clauses {
		switch c.Kind {
		case query.ClauseSearch:
			for _, term := range c.Terms {
				like := "%" + escapeLike(term) + "%"
				tx = tx.Where(
					"(LOWER(notes.title) LIKE ? ESCAPE '\\' OR LOWER(notes.content) LIKE ? ESCAPE '\\' OR LOWER(notes.excerpt) LIKE ? ESCAPE '\\')",
					like, like, like,
				)
			}
		case query.ClauseCategory:
			tx = tx.Where("notes.category_id = ?", c.Value)
		case query.ClauseTagsAll:
			sub := tx.Session(&gorm.Session{NewDB: true}).
				Table("note_tags").
				Select("note_id").
				Where("tag_id IN ?", c.Values).
				Group("note_id").
				Having("COUNT(DISTINCT tag_id) = ?", len(c.Values))
			tx = tx.Where("notes.id IN (?)", sub)
		case query.ClausePublished:
			tx = tx.Where("notes.published = ?", c.Bool)
		}
	}
	return tx
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *noteRepo) List(ctx context.Context, f query.Filter, p query.ListParams) ([]model.Note, int64, error) {
	var total int64
	if err := applyNoteFilter(r.db.WithContext(ctx).Model(&model.Note{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []model.Note
	err := withRelations(applyNoteFilter(r.db.WithContext(ctx).Model(&model.Note{}), f)).
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: "notes", Name: p.SortColumn()},
			Desc:   p.SortOrder == query.OrderDesc,
		}).
		Order("notes.id ASC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (*model.Note, error) {
	return r.getBy(r.db.WithContext(ctx), "notes.id = ?", id)
}

func (r *noteRepo) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	return r.getBy(r.db.WithContext(ctx), "notes.slug = ?", slug)
}

func (r *noteRepo) getBy(tx *gorm.DB, cond string, arg any) (*model.Note, error) {
	var n model.Note
	if err := withRelations(tx).Where(cond, arg).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Note{}).Where("slug = ?", slug)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *noteRepo) Create(ctx context.Context, note *model.Note, tagIDs []string) (*model.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(note).Error; err != nil {
			return translate(err)
		}
		return replaceTags(tx, note, tagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, note.ID)
}

func (r *noteRepo) Update(ctx context.Context, id string, fields map[string]any, tagIDs *[]string) (*model.Note, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note model.Note
		if err := tx.Where("id = ?", id).First(&note).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&note).Omit(clause.Associations).Updates(fields).Error; err != nil {
				return translate(err)
			}
		}
		if tagIDs != nil {
			return replaceTags(tx, &note, *tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func replaceTags(tx *gorm.DB, note *model.Note, tagIDs []string) error {
	tags := make([]model.Tag, 0, len(tagIDs))
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return tx.Model(note).Association("Tags").Replace(tags)
}

func (r *noteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *noteRepo) AuthorOf(ctx context.Context, id string) (string, error) {
	var n model.Note
	if err := r.db.WithContext(ctx).Select("author_id").Where("id = ?", id).First(&n).Error; err != nil {
		return "", err
	}
	return n.AuthorID, nil
}

func (r *noteRepo) AddLike(ctx context.Context, noteID, ip string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &model.Like{ID: uuid.NewString(), NoteID: noteID, IPAddress: ip}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "ip_address"}},
			DoNothing: true,
		}).Create(like)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDuplicate
		}
		upd := tx.Model(&model.Note{}).Where("id = ?", noteID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var n model.Note
		if err := tx.Select("like_count").Where("id = ?", noteID).First(&n).Error; err != nil {
			return err
		}
		count = n.LikeCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *noteRepo) HasLike(ctx context.Context, noteID, ip string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("note_id = ? AND ip_address = ?", noteID, ip).
		Count(&n).Error
	return n > 0, err
}

func (r *noteRepo) Suggest(ctx context.Context, terms []string, limit int) ([]model.Note, error) {
	tx := r.db.WithContext(ctx).Model(&model.Note{}).Select("id", "title", "slug").
		Where("published = ?", true)
	for _, term := range terms {
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(term)+"%")
	}
	var notes []model.Note
	if err := tx.Order("like_count DESC").Order("created_at DESC").Limit(limit).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepo) Stats(ctx context.Context) (NoteStats, error) {
	var s NoteStats
	db := r.db.WithContext(ctx)
	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&s.TotalNotes, db.Model(&model.Note{})},
		{&s.PublishedNotes, db.Model(&model.Note{}).Where("published = ?", true)},
		{&s.TotalComments, db.Model(&model.Comment{})},
		{&s.TotalCategories, db.Model(&model.Category{})},
		{&s.TotalTags, db.Model(&model.Tag{})},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return NoteStats{}, err
		}
	}
	s.DraftNotes = s.TotalNotes - s.PublishedNotes

	var likes struct{ Total int64 }
	if err := db.Model(&model.Note{}).Select("COALESCE(SUM(like_count), 0) AS total").Scan(&likes).Error; err != nil {
		return NoteStats{}, err
	}
	s.TotalLikes = likes.Total
	return s, nil
}
