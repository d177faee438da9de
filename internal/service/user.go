package service

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/model"
	"Inkwell/internal/query"
	"Inkwell/internal/repo"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength - предел длины отображаемого имени.
const MaxNameLength = 100

// AuthResult - пользователь и выданный ему токен.
type AuthResult struct {
	User  *model.User
	Token string
}

// UserService инкапсулирует регистрацию, вход и управление пользователями.
type UserService struct {
	repo       repo.UserRepository
	tokens     *auth.TokenManager
	ownerEmail string
}

// NewUserService создаёт сервис; пользователь с ownerEmail при регистрации получает роль OWNER.
func NewUserService(r repo.UserRepository, tokens *auth.TokenManager, ownerEmail string) *UserService {
	return &UserService{
		repo:       r,
		tokens:     tokens,
		ownerEmail: normalizeEmail(ownerEmail),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(errs *fieldErrors, name string) {
	if utf8.RuneCountInString(name) > MaxNameLength {
		errs.add("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
}

func validatePassword(errs *fieldErrors, field, password string) {
	switch {
	case len(password) > auth.MaxPasswordBytes:
		errs.add(field, fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes))
	case !auth.IsValidPassword(password):
		errs.add(field, fmt.Sprintf("must be at least %d characters and contain a letter and a digit", auth.MinPasswordLength))
	}
}

// Register создаёт пользователя и сразу выдаёт токен.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	var errs fieldErrors
	if !auth.IsValidEmail(email) {
		errs.add("email", "must be a valid email address")
	}
	validatePassword(&errs, "password", password)
	validateName(&errs, name)
	if err := errs.err(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, model.NewConflictError(model.CodeEmailExists, "email already registered")
	} else if err != nil && !repo.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	role := model.RoleVisitor
	if s.ownerEmail != "" && email == s.ownerEmail {
		role = model.RoleOwner
	}

	user, err := s.repo.CreateUser(ctx, &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Role:         role,
		Provider:     model.ProviderLocal,
	})
	if err != nil {
		return nil, conflict(err, model.NewConflictError(model.CodeEmailExists, "email already registered"), "create user")
	}
	return s.issue(user)
}

// Login проверяет учётные данные. Отсутствующий пользователь и неверный пароль неотличимы.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !repo.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		auth.BurnPasswordCheck(password)
		return nil, model.ErrInvalidCredentials()
	}
	if !auth.VerifyPassword(password, *user.PasswordHash) {
		return nil, model.ErrInvalidCredentials()
	}
	return s.issue(user)
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Me возвращает текущего пользователя.
func (s *UserService) Me(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, model.ErrUserNotFound(), "get user")
	}
	return u, nil
}

// Lookup - текущее состояние субъекта токена: роль берётся из БД, а не из токена.
// Удалённый пользователь даёт nil без ошибки.
func (s *UserService) Lookup(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if repo.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// UpdateProfile меняет отображаемое имя.
func (s *UserService) UpdateProfile(ctx context.Context, id, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	var errs fieldErrors
	if name == "" {
		errs.add("name", "is required")
	}
	validateName(&errs, name)
	if err := errs.err(); err != nil {
		return nil, err
	}
	u, err := s.repo.UpdateUser(ctx, id, map[string]any{"name": name})
	if err != nil {
		return nil, notFound(err, model.ErrUserNotFound(), "update profile")
	}
	return u, nil
}

// ChangePassword требует текущий пароль.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	var errs fieldErrors
	if current == "" {
		errs.add("currentPassword", "is required")
	}
	validatePassword(&errs, "newPassword", next)
	if err := errs.err(); err != nil {
		return err
	}

	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return notFound(err, model.ErrUserNotFound(), "get user")
	}
	if u.PasswordHash == nil || !auth.VerifyPassword(current, *u.PasswordHash) {
		return model.ErrInvalidCredentials()
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.repo.UpdateUser(ctx, id, map[string]any{"password_hash": hash}); err != nil {
		return notFound(err, model.ErrUserNotFound(), "update password")
	}
	return nil
}

// List - постраничный список пользователей (только для OWNER).
func (s *UserService) List(ctx context.Context, page, limit int) (query.Page[model.User], error) {
	users, total, err := s.repo.ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		return query.Page[model.User]{}, fmt.Errorf("list users: %w", err)
	}
	return query.NewPage(users, page, limit, total), nil
}

// UpdateRole меняет роль другого пользователя. Себе роль менять нельзя.
func (s *UserService) UpdateRole(ctx context.Context, actorID, targetID string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole()
	}
	if actorID == targetID {
		return nil, model.NewForbiddenError(model.CodeCannotChangeOwnRole, "cannot change your own role")
	}
	u, err := s.repo.UpdateUser(ctx, targetID, map[string]any{"role": role})
	if err != nil {
		return nil, notFound(err, model.ErrUserNotFound(), "update role")
	}
	return u, nil
}
