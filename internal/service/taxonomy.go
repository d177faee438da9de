package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"Inkwell/internal/repo"
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	MaxCategoryNameLength = 50
	MaxDescriptionLength  = 500
	MaxTagNameLength      = 30
)

var reColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryInput - поля рубрики; nil означает "не менять" при обновлении.
type CategoryInput struct {
	Name        *string
	Description *string
	Color       *string
}

func categoryExists() *model.AppError {
	return model.NewConflictError(model.CodeCategoryExists, "category with this name already exists")
}

func tagExists() *model.AppError {
	return model.NewConflictError(model.CodeTagExists, "tag with this name already exists")
}

func validateLength(errs *fieldErrors, field, v string, limit int, required bool) {
	n := utf8.RuneCountInString(v)
	if required && n == 0 {
		errs.add(field, "is required")
		return
	}
	if n > limit {
		errs.add(field, fmt.Sprintf("must be at most %d characters", limit))
	}
}

// CategoryService - глобальные рубрики.
type CategoryService struct {
	repo repo.CategoryRepository
}

func NewCategoryService(r repo.CategoryRepository) *CategoryService {
	return &CategoryService{repo: r}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, model.ErrCategoryNotFound(), "get category")
	}
	return c, nil
}

func (s *CategoryService) validate(in CategoryInput, creating bool) error {
	var errs fieldErrors
	if in.Name != nil || creating {
		name := ""
		if in.Name != nil {
			name = *in.Name
		}
		validateLength(&errs, "name", name, MaxCategoryNameLength, true)
	}
	if in.Description != nil {
		validateLength(&errs, "description", *in.Description, MaxDescriptionLength, false)
	}
	if in.Color != nil && *in.Color != "" && !reColor.MatchString(*in.Color) {
		errs.add("color", "must be a hex color like #1a2b3c")
	}
	return errs.err()
}

func (s *CategoryService) slug(ctx context.Context, name, excludeID string) (string, error) {
	return query.UniqueSlug(ctx, name, "category", func(ctx context.Context, slug string) (bool, error) {
		return s.repo.SlugExists(ctx, slug, excludeID)
	})
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := s.validate(in, true); err != nil {
		return nil, err
	}
	slug, err := s.slug(ctx, *in.Name, "")
	if err != nil {
		return nil, err
	}
	c := &model.Category{Name: *in.Name, Slug: slug}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, conflict(err, categoryExists(), "create category")
	}
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	if err := s.validate(in, false); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		slug, err := s.slug(ctx, *in.Name, id)
		if err != nil {
			return nil, err
		}
		fields["name"] = *in.Name
		fields["slug"] = slug
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Color != nil {
		fields["color"] = *in.Color
	}
	c, err := s.repo.Update(ctx, id, fields)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, categoryExists()
	}
	if err != nil {
		return nil, notFound(err, model.ErrCategoryNotFound(), "update category")
	}
	return c, nil
}

// Delete удаляет рубрику; заметки остаются без рубрики.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, model.ErrCategoryNotFound(), "delete category")
	}
	return nil
}

// TagService - глобальные метки.
type TagService struct {
	repo repo.TagRepository
}

func NewTagService(r repo.TagRepository) *TagService {
	return &TagService{repo: r}
}

func (s *TagService) List(ctx context.Context, p query.TagListParams) (query.Page[model.Tag], error) {
	tags, total, err := s.repo.List(ctx, p.Search, p.Offset(), p.Limit)
	if err != nil {
		return query.Page[model.Tag]{}, fmt.Errorf("list tags: %w", err)
	}
	return query.NewPage(tags, p.Page, p.Limit, total), nil
}

func (s *TagService) Get(ctx context.Context, id string) (*model.Tag, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, model.ErrTagNotFound(), "get tag")
	}
	return t, nil
}

func (s *TagService) slug(ctx context.Context, name, excludeID string) (string, error) {
	return query.UniqueSlug(ctx, name, "tag", func(ctx context.Context, slug string) (bool, error) {
		return s.repo.SlugExists(ctx, slug, excludeID)
	})
}

func validateTagName(name string) error {
	var errs fieldErrors
	validateLength(&errs, "name", name, MaxTagNameLength, true)
	return errs.err()
}

func (s *TagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	slug, err := s.slug(ctx, name, "")
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Create(ctx, &model.Tag{Name: name, Slug: slug})
	if err != nil {
		return nil, conflict(err, tagExists(), "create tag")
	}
	return t, nil
}

func (s *TagService) Update(ctx context.Context, id, name string) (*model.Tag, error) {
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	slug, err := s.slug(ctx, name, id)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Update(ctx, id, map[string]any{"name": name, "slug": slug})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, tagExists()
	}
	if err != nil {
		return nil, notFound(err, model.ErrTagNotFound(), "update tag")
	}
	return t, nil
}

// Delete удаляет метку; связи с заметками снимаются.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, model.ErrTagNotFound(), "delete tag")
	}
	return nil
}
