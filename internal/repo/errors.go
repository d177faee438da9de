package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate - нарушение уникального индекса (email, slug, имя, лайк).
var ErrDuplicate = errors.New("duplicate record")

// pgUniqueViolation - SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// translate приводит ошибки уникальности разных драйверов к ErrDuplicate.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// modernc sqlite не переводится gorm'ом; остаётся текст ошибки
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}

// IsNotFound - удобная проверка для сервисов.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
