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

// UserHandler - регистрация, вход, профиль и управление ролями.
type UserHandler struct {
	guard
	Users  *service.UserService
	Logger *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(users *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		guard:  guard{failer: failer{log: logger}},
		Users:  users,
		Logger: logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name string `json:"name"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

// Register регистрация пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}

	res, err := h.Users.Register(r.Context(), req.Email, req.Password, plain(req.Name))
	if err != nil {
		h.fail(w, r, err, "REGISTER_ERROR")
		return
	}
	h.Logger.Infow("user registered", "user_id", res.User.ID, "role", res.User.Role)
	response.JSON(w, http.StatusCreated, AuthView{User: userView(*res.User), Token: res.Token})
}

// Login вход пользователя
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}

	res, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "LOGIN_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, AuthView{User: userView(*res.User), Token: res.Token})
}

// Me текущий пользователь
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.require(w, r, access.Authenticated)
	if !ok {
		return
	}
	u, err := h.Users.Me(r.Context(), p.SubjectID)
	if err != nil {
		h.fail(w, r, err, "GET_PROFILE_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, userView(*u))
}

// UpdateMe меняет имя текущего пользователя
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.require(w, r, access.Authenticated)
	if !ok {
		return
	}
	var req profileRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), p.SubjectID, plain(req.Name))
	if err != nil {
		h.fail(w, r, err, "UPDATE_PROFILE_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, userView(*u))
}

// ChangePassword смена пароля с проверкой текущего
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := h.require(w, r, access.Authenticated)
	if !ok {
		return
	}
	var req passwordRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	if err := h.Users.ChangePassword(r.Context(), p.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err, "CHANGE_PASSWORD_ERROR")
		return
	}
	h.Logger.Infow("password changed", "user_id", p.SubjectID)
	response.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// List список пользователей (OWNER)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, access.OwnerOnly); !ok {
		return
	}
	pageNum, limit, errs := query.ParsePage(r.URL.Query())
	if len(errs) > 0 {
		response.Error(w, model.NewValidationError(errs))
		return
	}
	page, err := h.Users.List(r.Context(), pageNum, limit)
	if err != nil {
		h.fail(w, r, err, "LIST_USERS_ERROR")
		return
	}
	response.JSON(w, http.StatusOK, query.MapPage(page, userView))
}

// UpdateRole смена роли другого пользователя (OWNER, не себе)
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "id")
	p, ok := h.authorize(w, r, access.Request{
		Requirement:  access.OwnerOnly,
		Action:       access.ActionChangeRole,
		TargetUserID: target,
	})
	if !ok {
		return
	}
	var req roleRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		response.Error(w, appErr)
		return
	}
	u, err := h.Users.UpdateRole(r.Context(), p.SubjectID, target, req.Role)
	if err != nil {
		h.fail(w, r, err, "UPDATE_ROLE_ERROR")
		return
	}
	h.Logger.Infow("role changed", "actor_id", p.SubjectID, "user_id", u.ID, "role", u.Role)
	response.JSON(w, http.StatusOK, userView(*u))
}
