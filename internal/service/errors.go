package service

import (
	"Inkwell/internal/model"
	"Inkwell/internal/repo"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidRole - роль не из известного набора.
func ErrInvalidRole() *model.AppError {
	return &model.AppError{Status: http.StatusBadRequest, Code: model.CodeInvalidRole, Message: "role must be OWNER or VISITOR"}
}

// notFound заменяет gorm.ErrRecordNotFound доменной ошибкой, прочее оборачивает.
func notFound(err error, nf *model.AppError, op string) error {
	if repo.IsNotFound(err) {
		return nf
	}
	return fmt.Errorf("%s: %w", op, err)
}

// conflict заменяет repo.ErrDuplicate доменной ошибкой.
func conflict(err error, c *model.AppError, op string) error {
	if errors.Is(err, repo.ErrDuplicate) {
		return c
	}
	return fmt.Errorf("%s: %w", op, err)
}

// fieldErrors накапливает ошибки валидации.
type fieldErrors []model.FieldError

func (f *fieldErrors) add(field, msg string) {
	*f = append(*f, model.FieldError{Field: field, Message: msg})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return model.NewValidationError(f)
}
