package model

import "time"

// Role - роль пользователя в системе.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleVisitor Role = "VISITOR"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleVisitor
}

// ProviderLocal - пользователь зарегистрирован по email и паролю.
const ProviderLocal = "local"

// User - серверная модель пользователя.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid"`
	Email        string  `gorm:"uniqueIndex;not null"`
	Name         string  `gorm:"not null;default:''"`
	PasswordHash *string // nil для пользователей внешних провайдеров
	Role         Role    `gorm:"type:varchar(16);not null;default:'VISITOR'"`
	Provider     string  `gorm:"type:varchar(32);not null;default:'local'"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
