package handlers

import (
	"Inkwell/internal/access"
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"Inkwell/internal/response"
	"Inkwell/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaxonomyHandler - рубрики и метки. Запись только для OWNER.
type TaxonomyHandler struct {
	guard
	Categories *service.CategoryService
	Tags       *service.TagService
	Logger     *zap.SugaredLogger
}

// NewTaxonomyHandler создаёт хендлер рубрик и меток
func NewTaxonomyHandler(categories *service.CategoryService, tags *service.TagService, logger *zap.SugaredLogger) *TaxonomyHandler {
	return &TaxonomyHandler{
		guard:      guard{failer: failer{log: logger}},
		Categories: categories,
		Tags:       tags,
		Logger:     logger,
	}
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (req categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        plainPtr(req.Name),
		Description: plainPtr(req.Description),
		Color:       trimPtr(req.Color),
	}
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "FETCH_CATEGORIES_ERROR")
		return
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView(c))
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *TaxonomyHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "FETCH_CATEGORY_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, categoryView(*c))
}

func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	var req categoryRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	c, err := h.Categories.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, r, err, "CREATE_CATEGORY_ERROR")
		return
	}
	response.JSON(w, http.StatusCreated, categoryView(*c))
}

func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	var req categoryRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	c, err := h.Categories.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		h.fail(w, r, err, "UPDATE_CATEGORY_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, categoryView(*c))
}

func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "DELETE_CATEGORY_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	p, errs := query.ParseTagListParams(r.URL.Query())
	if len(errs) > 0 {
		response.Error(w, model.NewValidationError(errs))
		return
	}
	page, err := h.Tags.List(r.Context(), p)
	if err != nil {
		h.fail(w, r, err, "FETCH_TAGS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, query.MapPage(page, tagView))
}

func (h *TaxonomyHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tags.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "FETCH_TAG_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, tagView(*t))
}

func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	var req tagRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	t, err := h.Tags.Create(r.Context(), plain(req.Name))
	if err != nil {
		h.fail(w, r, err, "CREATE_TAG_ERROR")
		return
	}
	response.JSON(w, http.StatusCreated, tagView(*t))
}

func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	var req tagRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	t, err := h.Tags.Update(r.Context(), chi.URLParam(r, "id"), plain(req.Name))
	if err != nil {
		h.fail(w, r, err, "UPDATE_TAG_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, tagView(*t))
}

func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Tags.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, "DELETE_TAG_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"id": id})
}
