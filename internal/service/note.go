package service

import (
	"Inkwell/internal/access"
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"Inkwell/internal/repo"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 100_000
	MaxExcerptLength = 500
	MaxURLLength     = 500
	// SuggestLimit - сколько подсказок возвращает поиск по заголовкам.
	SuggestLimit = 5
	// slugRetries - повторы при гонке за slug между запросами.
	slugRetries = 3
)

var reURL = regexp.MustCompile(`^https?://\S+$`)

// NoteInput - поля новой заметки.
type NoteInput struct {
	Title      string
	Content    string
	Excerpt    string
	CoverImage string
	Published  bool
	CategoryID *string
	TagIDs     []string
}

// NoteUpdate - частичное обновление; nil означает "не менять".
type NoteUpdate struct {
	Title      *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	Published  *bool
	// CategoryID: указатель на пустую строку снимает рубрику.
	CategoryID *string
	TagIDs     *[]string
}

// LikeResult - состояние лайка для IP.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// Filters - доступные фасеты для листинга.
type Filters struct {
	Categories []repo.FacetCount `json:"categories"`
	Tags       []repo.FacetCount `json:"tags"`
}

// Suggestion - подсказка поиска.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NoteService - бизнес-логика заметок и лайков.
type NoteService struct {
	notes      repo.NoteRepository
	categories repo.CategoryRepository
	tags       repo.TagRepository
}

func NewNoteService(notes repo.NoteRepository, categories repo.CategoryRepository, tags repo.TagRepository) *NoteService {
	return &NoteService{notes: notes, categories: categories, tags: tags}
}

// List возвращает страницу заметок. Черновики видны только при includeDrafts.
func (s *NoteService) List(ctx context.Context, p query.ListParams, includeDrafts bool) (query.Page[model.Note], error) {
	notes, total, err := s.notes.List(ctx, query.NoteFilter(p, includeDrafts), p)
	if err != nil {
		return query.Page[model.Note]{}, fmt.Errorf("list notes: %w", err)
	}
	return query.NewPage(notes, p.Page, p.Limit, total), nil
}

// Get ищет заметку по id, затем по slug.
func (s *NoteService) Get(ctx context.Context, idOrSlug string, includeDrafts bool) (*model.Note, error) {
	n, err := s.notes.GetByID(ctx, idOrSlug)
	if repo.IsNotFound(err) {
		n, err = s.notes.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, notFound(err, model.ErrNoteNotFound(), "get note")
	}
	if !n.Published && !includeDrafts {
		return nil, model.ErrNoteNotFound()
	}
	return n, nil
}

func validateNoteText(errs *fieldErrors, title, content, excerpt, cover *string) {
	if title != nil {
		switch n := utf8.RuneCountInString(*title); {
		case n == 0:
			errs.add("title", "is required")
		case n > MaxTitleLength:
			errs.add("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
		}
	}
	if content != nil {
		switch n := utf8.RuneCountInString(*content); {
		case n == 0:
			errs.add("content", "is required")
		case n > MaxContentLength:
			errs.add("content", fmt.Sprintf("must be at most %d characters", MaxContentLength))
		}
	}
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > MaxExcerptLength {
		errs.add("excerpt", fmt.Sprintf("must be at most %d characters", MaxExcerptLength))
	}
	if cover != nil && *cover != "" {
		if len(*cover) > MaxURLLength || !reURL.MatchString(*cover) {
			errs.add("coverImage", "must be an http(s) URL")
		}
	}
}

// checkRefs проверяет, что рубрика и метки существуют.
func (s *NoteService) checkRefs(ctx context.Context, errs *fieldErrors, categoryID *string, tagIDs []string) error {
	if categoryID != nil && *categoryID != "" {
		_, err := s.categories.GetByID(ctx, *categoryID)
		if repo.IsNotFound(err) {
			errs.add("categoryId", "category does not exist")
		} else if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
	}
	if len(tagIDs) > 0 {
		n, err := s.tags.CountExisting(ctx, tagIDs)
		if err != nil {
			return fmt.Errorf("check tags: %w", err)
		}
		if n != int64(len(tagIDs)) {
			errs.add("tagIds", "one or more tags do not exist")
		}
	}
	return nil
}

func (s *NoteService) slug(ctx context.Context, title, excludeID string) (string, error) {
	return query.UniqueSlug(ctx, title, "note", func(ctx context.Context, slug string) (bool, error) {
		return s.notes.SlugExists(ctx, slug, excludeID)
	})
}

// Create создаёт заметку от имени автора.
func (s *NoteService) Create(ctx context.Context, authorID string, in NoteInput) (*model.Note, error) {
	var errs fieldErrors
	validateNoteText(&errs, &in.Title, &in.Content, &in.Excerpt, &in.CoverImage)
	in.TagIDs = dedupe(in.TagIDs)
	if err := s.checkRefs(ctx, &errs, in.CategoryID, in.TagIDs); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = query.Excerpt(in.Content, query.ExcerptLength)
	}
	var categoryID *string
	if in.CategoryID != nil && *in.CategoryID != "" {
		categoryID = in.CategoryID
	}

	for attempt := 0; ; attempt++ {
		slug, err := s.slug(ctx, in.Title, "")
		if err != nil {
			return nil, err
		}
		note, err := s.notes.Create(ctx, &model.Note{
			Title:      in.Title,
			Slug:       slug,
			Content:    in.Content,
			Excerpt:    excerpt,
			CoverImage: in.CoverImage,
			Published:  in.Published,
			AuthorID:   authorID,
			CategoryID: categoryID,
		}, in.TagIDs)
		if errors.Is(err, repo.ErrDuplicate) && attempt < slugRetries {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create note: %w", err)
		}
		return note, nil
	}
}

// Update меняет заметку; смена заголовка пересчитывает slug.
func (s *NoteService) Update(ctx context.Context, id string, in NoteUpdate) (*model.Note, error) {
	current, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, model.ErrNoteNotFound(), "get note")
	}

	var errs fieldErrors
	validateNoteText(&errs, in.Title, in.Content, in.Excerpt, in.CoverImage)
	var tagIDs []string
	if in.TagIDs != nil {
		tagIDs = dedupe(*in.TagIDs)
		in.TagIDs = &tagIDs
	}
	if err := s.checkRefs(ctx, &errs, in.CategoryID, tagIDs); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil && *in.Title != current.Title {
		fields["title"] = *in.Title
		slug, err := s.slug(ctx, *in.Title, id)
		if err != nil {
			return nil, err
		}
		fields["slug"] = slug
	}
	if in.Content != nil {
		fields["content"] = *in.Content
		if in.Excerpt == nil {
			fields["excerpt"] = query.Excerpt(*in.Content, query.ExcerptLength)
		}
	}
	if in.Excerpt != nil {
		excerpt := *in.Excerpt
		if excerpt == "" {
			content := current.Content
			if in.Content != nil {
				content = *in.Content
			}
			excerpt = query.Excerpt(content, query.ExcerptLength)
		}
		fields["excerpt"] = excerpt
	}
	if in.CoverImage != nil {
		fields["cover_image"] = *in.CoverImage
	}
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			fields["category_id"] = nil
		} else {
			fields["category_id"] = *in.CategoryID
		}
	}

	note, err := s.notes.Update(ctx, id, fields, in.TagIDs)
	if errors.Is(err, repo.ErrDuplicate) {
		// slug занят параллельным запросом
		return nil, model.NewConflictError(model.CodeSlugExists, "slug is already taken, retry")
	}
	if err != nil {
		return nil, notFound(err, model.ErrNoteNotFound(), "update note")
	}
	return note, nil
}

// Delete удаляет заметку с комментариями и лайками.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return notFound(err, model.ErrNoteNotFound(), "delete note")
	}
	return nil
}

// Like ставит анонимный лайк опубликованной заметке, один на IP.
func (s *NoteService) Like(ctx context.Context, id, ip string) (LikeResult, error) {
	note, err := s.Get(ctx, id, false)
	if err != nil {
		return LikeResult{}, err
	}
	count, err := s.notes.AddLike(ctx, note.ID, ip)
	if errors.Is(err, repo.ErrDuplicate) {
		return LikeResult{}, model.NewConflictError(model.CodeDuplicateLike, "note already liked from this address")
	}
	if err != nil {
		return LikeResult{}, notFound(err, model.ErrNoteNotFound(), "like note")
	}
	return LikeResult{Liked: true, LikeCount: count}, nil
}

// LikeStatus сообщает, лайкал ли IP заметку.
func (s *NoteService) LikeStatus(ctx context.Context, id, ip string) (LikeResult, error) {
	note, err := s.Get(ctx, id, false)
	if err != nil {
		return LikeResult{}, err
	}
	liked, err := s.notes.HasLike(ctx, note.ID, ip)
	if err != nil {
		return LikeResult{}, fmt.Errorf("like status: %w", err)
	}
	return LikeResult{Liked: liked, LikeCount: note.LikeCount}, nil
}

// Filters возвращает рубрики и метки с числом опубликованных заметок.
func (s *NoteService) Filters(ctx context.Context) (Filters, error) {
	cats, err := s.categories.Counts(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("category counts: %w", err)
	}
	tags, err := s.tags.Counts(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("tag counts: %w", err)
	}
	if cats == nil {
		cats = []repo.FacetCount{}
	}
	if tags == nil {
		tags = []repo.FacetCount{}
	}
	return Filters{Categories: cats, Tags: tags}, nil
}

// Suggest ищет опубликованные заметки по заголовку.
func (s *NoteService) Suggest(ctx context.Context, q string) ([]Suggestion, error) {
	terms := query.SearchTerms(q)
	out := []Suggestion{}
	if len(terms) == 0 {
		return out, nil
	}
	notes, err := s.notes.Suggest(ctx, terms, SuggestLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	for _, n := range notes {
		out = append(out, Suggestion{ID: n.ID, Title: n.Title, Slug: n.Slug})
	}
	return out, nil
}

// Stats - сводные счётчики.
func (s *NoteService) Stats(ctx context.Context) (repo.NoteStats, error) {
	st, err := s.notes.Stats(ctx)
	if err != nil {
		return repo.NoteStats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// AuthorOf - lookup для access.NoteResource.
func (s *NoteService) AuthorOf(ctx context.Context, id string) (string, error) {
	authorID, err := s.notes.AuthorOf(ctx, id)
	if repo.IsNotFound(err) {
		return "", access.ErrResourceNotFound
	}
	return authorID, err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
