package handlers

import (
	"Inkwell/internal/access"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"Inkwell/internal/response"
	"Inkwell/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteHandler - заметки, лайки, фасеты, подсказки и статистика.
type NoteHandler struct {
	guard
	Notes  *service.NoteService
	Logger *zap.SugaredLogger
}

// NewNoteHandler создаёт хендлер заметок
func NewNoteHandler(notes *service.NoteService, logger *zap.SugaredLogger) *NoteHandler {
	return &NoteHandler{
		guard:  guard{failer: failer{log: logger}},
		Notes:  notes,
		Logger: logger,
	}
}

// noteRequest - тело создания и обновления; отсутствующее поле не меняется.
type noteRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Published  *bool     `json:"published"`
	CategoryID *string   `json:"categoryId"`
	TagIDs     *[]string `json:"tagIds"`
}

func (req noteRequest) update() service.NoteUpdate {
	return service.NoteUpdate{
		Title:      plainPtr(req.Title),
		Content:    trimPtr(req.Content),
		Excerpt:    plainPtr(req.Excerpt),
		CoverImage: trimPtr(req.CoverImage),
		Published:  req.Published,
		CategoryID: trimPtr(req.CategoryID),
		TagIDs:     req.TagIDs,
	}
}

func (req noteRequest) input() service.NoteInput {
	u := req.update()
	in := service.NoteInput{CategoryID: u.CategoryID}
	if u.Title != nil {
		in.Title = *u.Title
	}
	if u.Content != nil {
		in.Content = *u.Content
	}
	if u.Excerpt != nil {
		in.Excerpt = *u.Excerpt
	}
	if u.CoverImage != nil {
		in.CoverImage = *u.CoverImage
	}
	if u.Published != nil {
		in.Published = *u.Published
	}
	if u.TagIDs != nil {
		in.TagIDs = *u.TagIDs
	}
	return in
}

func (h *NoteHandler) noteResource() access.ResourceKind {
	return access.NoteResource(h.Notes.AuthorOf)
}

// viewerIsOwner - черновики видит только действующий OWNER (роль сверена с БД).
func (h *NoteHandler) viewerIsOwner(r *http.Request) bool {
	return middleware.IsOwner(r)
}

// List листинг заметок с фильтрами и пагинацией
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	p, errs := query.ParseListParams(r.URL.Query())
	if len(errs) > 0 {
		response.Error(w, model.NewValidationError(errs))
		return
	}
	page, err := h.Notes.List(r.Context(), p, h.viewerIsOwner(r))
	if err != nil {
		h.fail(w, r, err, "FETCH_NOTES_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, query.MapPage(page, noteListView))
}

// Get заметка по id или slug
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.Notes.Get(r.Context(), chi.URLParam(r, "id"), h.viewerIsOwner(r))
	if err != nil {
		h.fail(w, r, err, "FETCH_NOTE_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, noteView(*n, true))
}

// Create новая заметка (OWNER)
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.require(w, r, access.OwnerOnly)
	if !ok {
		return
	}
	var req noteRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	n, err := h.Notes.Create(r.Context(), p.SubjectID, req.input())
	if err != nil {
		h.fail(w, r, err, "CREATE_NOTE_ERROR")
		return
	}
	h.Logger.Infow("note created", "note_id", n.ID, "slug", n.Slug, "author_id", p.SubjectID)
	response.JSON(w, http.StatusCreated, noteView(*n, true))
}

// Update изменение заметки (автор или OWNER)
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.owns(w, r, h.noteResource(), id); !ok {
		return
	}
	var req noteRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	n, err := h.Notes.Update(r.Context(), id, req.update())
	if err != nil {
		h.fail(w, r, err, "UPDATE_NOTE_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, noteView(*n, true))
}

// Delete удаление заметки вместе с комментариями и лайками
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.owns(w, r, h.noteResource(), id)
	if !ok {
		return
	}
	if err := h.Notes.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "DELETE_NOTE_ERROR")
		return
	}
	h.Logger.Infow("note deleted", "note_id", id, "actor_id", p.SubjectID)
	response.JSON(w, http.StatusOK, map[string]string{"id": id})
}

// Like анонимный лайк, один на IP
func (h *NoteHandler) Like(w http.ResponseWriter, r *http.Request) {
	res, err := h.Notes.Like(r.Context(), chi.URLParam(r, "id"), middleware.ClientIP(r))
	if err != nil {
		h.fail(w, r, err, "LIKE_NOTE_ERROR")
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

// LikeStatus лайкал ли текущий IP
func (h *NoteHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	res, err := h.Notes.LikeStatus(r.Context(), chi.URLParam(r, "id"), middleware.ClientIP(r))
	if err != nil {
		h.fail(w, r, err, "LIKE_STATUS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Filters рубрики и метки с числом опубликованных заметок
func (h *NoteHandler) Filters(w http.ResponseWriter, r *http.Request) {
	f, err := h.Notes.Filters(r.Context())
	if err != nil {
		h.fail(w, r, err, "FETCH_FILTERS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, f)
}

// Suggestions подсказки по заголовкам
func (h *NoteHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	s, err := h.Notes.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err, "SEARCH_SUGGESTIONS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, s)
}

// Stats сводная статистика
func (h *NoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Notes.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, "FETCH_STATS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, st)
}
