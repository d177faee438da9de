package auth

import (
	"errors"
	"fmt"
	"time"

	"Inkwell/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL - срок жизни токена по умолчанию.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken - подпись, формат или срок действия токена не прошли проверку.
var ErrInvalidToken = errors.New("invalid token")

// Principal - аутентифицированная личность на время одного запроса.
type Principal struct {
	SubjectID string
	Role      model.Role
}

// IsOwner сообщает, есть ли у субъекта роль OWNER.
func (p Principal) IsOwner() bool {
	return p.Role == model.RoleOwner
}

// Claims - полезная нагрузка JWT.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// TokenManager выпускает и проверяет подписанные токены сессии.
// Ключ задаётся один раз при старте; его смена инвалидирует все выданные токены.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager создаёт менеджер токенов. ttl <= 0 означает DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL возвращает срок жизни выпускаемых токенов.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue выпускает токен для субъекта с ролью.
func (m *TokenManager) Issue(subjectID string, role model.Role) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена. Хранилище не опрашивается:
// токен удалённого пользователя остаётся валидным до истечения срока.
func (m *TokenManager) Verify(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	return Principal{SubjectID: claims.Subject, Role: claims.Role}, nil
}
