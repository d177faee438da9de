package auth

import (
	"strings"
	"unicode"
)

const (
	// MinPasswordLength - минимальная длина пароля в символах.
	MinPasswordLength = 8
	// MaxPasswordBytes - предел bcrypt: более длинный пароль не хешируется.
	MaxPasswordBytes = 72
)

// IsValidEmail - синтаксическая проверка email: ровно один '@', непустая локальная часть,
// домен с точкой внутри метки, без пробелов.
func IsValidEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	if local == "" {
		return false
	}
	dot := strings.Index(domain, ".")
	// точка не может быть первой или последней в домене
	return dot > 0 && dot < len(domain)-1 && !strings.HasSuffix(domain, ".")
}

// IsValidPassword требует не менее 8 символов, не более 72 байт, хотя бы одну букву и одну цифру.
func IsValidPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
