package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost - фиксированный work factor bcrypt.
const PasswordCost = 10

// dummyHash сравнивается при входе несуществующего пользователя,
// чтобы время ответа не отличалось от случая с неверным паролем.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inkwell-dummy-password-1"), PasswordCost)

// HashPassword возвращает bcrypt-хеш пароля. Соль случайная на каждый вызов.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword сравнивает пароль с хешем.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCheck выполняет сравнение с фиктивным хешем и всегда возвращает false.
func BurnPasswordCheck(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
	return false
}
