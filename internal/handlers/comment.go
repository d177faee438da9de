package handlers

import (
	"Inkwell/internal/access"
	"Inkwell/internal/response"
	"Inkwell/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommentHandler - комментарии к заметкам.
type CommentHandler struct {
	guard
	Comments *service.CommentService
	notes    *NoteHandler
	Logger   *zap.SugaredLogger
}

// NewCommentHandler создаёт хендлер комментариев
func NewCommentHandler(comments *service.CommentService, notes *NoteHandler, logger *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{
		guard:    guard{failer: failer{log: logger}},
		Comments: comments,
		notes:    notes,
		Logger:   logger,
	}
}

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

type commentUpdateRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) commentResource() access.ResourceKind {
	return access.CommentResource(h.Comments.AuthorOf)
}

// List дерево комментариев заметки
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Comments.ListForNote(r.Context(), chi.URLParam(r, "id"), h.notes.viewerIsOwner(r))
	if err != nil {
		h.fail(w, r, err, "FETCH_COMMENTS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, commentTreeView(tree))
}

// Create новый комментарий (любой аутентифицированный)
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.require(w, r, access.Authenticated)
	if !ok {
		return
	}
	var req commentRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	c, err := h.Comments.Create(r.Context(), chi.URLParam(r, "id"), p.SubjectID, plain(req.Content), trimPtr(req.ParentID))
	if err != nil {
		h.fail(w, r, err, "CREATE_COMMENT_ERROR")
		return
	}
	h.Logger.Infow("comment created", "comment_id", c.ID, "note_id", c.NoteID, "author_id", p.SubjectID)
	response.JSON(w, http.StatusCreated, commentView(*c))
}

// Update изменение комментария (автор или OWNER)
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.owns(w, r, h.commentResource(), id); !ok {
		return
	}
	var req commentUpdateRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	c, err := h.Comments.Update(r.Context(), id, plain(req.Content))
	if err != nil {
		h.fail(w, r, err, "UPDATE_COMMENT_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, commentView(*c))
}

// Delete удаление комментария с ответами
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.owns(w, r, h.commentResource(), id)
	if !ok {
		return
	}
	n, err := h.Comments.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "DELETE_COMMENT_ERROR")
		return
	}
	h.Logger.Infow("comment deleted", "comment_id", id, "deleted", n, "actor_id", p.SubjectID)
	response.JSON(w, http.StatusOK, map[string]any{"id": id, "deleted": n})
}
