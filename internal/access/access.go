// Package access решает, разрешён ли запрос: двухуровневая модель ролей
// (OWNER/VISITOR) плюс право автора на собственные ресурсы.
//
// Decide - чистая функция без состояния; все обращения к хранилищу выполняет вызывающий
// код (guard) до вызова Decide.
package access

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/model"
)

// Requirement - что маршрут требует от субъекта.
type Requirement int

const (
	// Public - аутентификация не нужна.
	Public Requirement = iota
	// Authenticated - любой субъект с действующим токеном.
	Authenticated
	// OwnerOnly - только роль OWNER.
	OwnerOnly
	// OwnershipOrOwner - автор ресурса или OWNER.
	OwnershipOrOwner
)

// Action уточняет операцию там, где правила зависят от неё.
type Action int

const (
	ActionGeneric Action = iota
	// ActionChangeRole - смена роли пользователя TargetUserID.
	ActionChangeRole
)

// ResourceState - результат чтения ресурса для правила владения.
type ResourceState struct {
	Kind     ResourceKind
	Found    bool
	AuthorID string
}

// Request - всё, что нужно для решения.
type Request struct {
	Requirement Requirement
	Action      Action
	// Principal равен nil, если токен отсутствует или не прошёл проверку.
	Principal *auth.Principal
	// HeaderPresent - был ли заголовок Authorization вообще.
	HeaderPresent bool
	// UserExists - субъект токена всё ещё существует в хранилище.
	UserExists bool
	// TargetUserID - для ActionChangeRole.
	TargetUserID string
	// Resource - для OwnershipOrOwner.
	Resource *ResourceState
}

// Decision - ALLOW или DENY с причиной.
type Decision struct {
	Allowed bool
	// Reason - код ошибки при отказе.
	Reason string
}

// Allow - разрешающее решение.
func Allow() Decision { return Decision{Allowed: true} }

// Deny - отказ с кодом причины.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// Decide применяет правила по порядку; срабатывает первое подходящее.
func Decide(req Request) Decision {
	// 1. публичный маршрут
	if req.Requirement == Public {
		return Allow()
	}

	// 2. нет субъекта
	if req.Principal == nil {
		if !req.HeaderPresent {
			return Deny(model.CodeNoToken)
		}
		return Deny(model.CodeInvalidToken)
	}

	// 3. субъект удалён после выпуска токена
	if !req.UserExists {
		return Deny(model.CodeUserNotFound)
	}

	p := req.Principal
	switch req.Requirement {
	case OwnerOnly:
		if !p.IsOwner() {
			return Deny(model.CodeForbidden)
		}
		if req.Action == ActionChangeRole && req.TargetUserID == p.SubjectID {
			return Deny(model.CodeCannotChangeOwnRole)
		}
		return Allow()

	case Authenticated:
		if p.Role.Valid() {
			return Allow()
		}
		return Deny(model.CodeForbidden)

	case OwnershipOrOwner:
		if req.Resource == nil || req.Resource.Kind == nil {
			return Deny(model.CodeForbidden)
		}
		if !req.Resource.Found {
			return Deny(req.Resource.Kind.NotFoundCode())
		}
		if p.SubjectID == req.Resource.AuthorID || p.IsOwner() {
			return Allow()
		}
		return Deny(model.CodeForbidden)
	}

	return Deny(model.CodeForbidden)
}
