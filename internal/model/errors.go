package model

import (
	"fmt"
	"net/http"
)

// FieldError - ошибка валидации одного поля запроса.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError - ошибка, которую можно показать клиенту.
// Code - стабильный машиночитаемый токен, клиенты ветвятся по нему, а не по Message.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details []FieldError
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Коды ошибок
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNoToken             = "NO_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeCannotChangeOwnRole = "CANNOT_CHANGE_OWN_ROLE"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeNoteNotFound        = "NOTE_NOT_FOUND"
	CodeCommentNotFound     = "COMMENT_NOT_FOUND"
	CodeCategoryNotFound    = "CATEGORY_NOT_FOUND"
	CodeTagNotFound         = "TAG_NOT_FOUND"
	CodeRouteNotFound       = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeCategoryExists      = "CATEGORY_EXISTS"
	CodeTagExists           = "TAG_EXISTS"
	CodeDuplicateLike       = "DUPLICATE_LIKE"
	CodeSlugExists          = "SLUG_EXISTS"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeInternal            = "INTERNAL_ERROR"
)

// NewValidationError собирает все ошибки полей в одну.
func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "request validation failed",
		Details: details,
	}
}

// NewUnauthorizedError - 401 с указанным кодом.
func NewUnauthorizedError(code, message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

// NewForbiddenError - 403 с указанным кодом.
func NewForbiddenError(code, message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: code, Message: message}
}

// NewNotFoundError - 404 для ресурса; code вида <RESOURCE>_NOT_FOUND.
func NewNotFoundError(code, message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

// NewConflictError - 409 для нарушений уникальности.
func NewConflictError(code, message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: code, Message: message}
}

// NewInternalError - 500; детали остаются только в логах.
func NewInternalError(code string) *AppError {
	if code == "" {
		code = CodeInternal
	}
	return &AppError{Status: http.StatusInternalServerError, Code: code, Message: "internal server error"}
}

// Часто используемые ошибки

func ErrNoteNotFound() *AppError {
	return NewNotFoundError(CodeNoteNotFound, "note not found")
}

func ErrCommentNotFound() *AppError {
	return NewNotFoundError(CodeCommentNotFound, "comment not found")
}

func ErrCategoryNotFound() *AppError {
	return NewNotFoundError(CodeCategoryNotFound, "category not found")
}

func ErrTagNotFound() *AppError {
	return NewNotFoundError(CodeTagNotFound, "tag not found")
}

func ErrUserNotFound() *AppError {
	return NewNotFoundError(CodeUserNotFound, "user not found")
}

func ErrInvalidCredentials() *AppError {
	return NewUnauthorizedError(CodeInvalidCredentials, "invalid email or password")
}
