// Package cache - порт key-value кеша и его реализация поверх Redis.
//
// Кеш best-effort: если хранилище недоступно или не подключено, чтение ведёт себя
// как промах, а запись и удаление - как no-op.
package cache

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrCacheMiss - ключа нет или хранилище не подключено.
var ErrCacheMiss = errors.New("cache miss")

// Store - порт кеша, который получают обработчики.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Lifecycle - явный жизненный цикл подключения.
type Lifecycle interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Connected() bool
}

// TTL-уровни по волатильности данных.
const (
	TTLShort    = 60 * time.Second   // комментарии, подсказки поиска
	TTLMedium   = 300 * time.Second  // списки и карточки заметок
	TTLLong     = 1800 * time.Second // рубрики и метки
	TTLVeryLong = 3600 * time.Second // редко меняющиеся агрегаты
)

// MaxKeyTermLength ограничивает длину пользовательских значений в ключе.
const MaxKeyTermLength = 100

// Key строит детерминированный ключ из пространства имён и параметров.
// Порядок параметров не влияет на результат; пустые значения отбрасываются,
// каждое значение обрезается до MaxKeyTermLength рун.
func Key(namespace string, params url.Values) string {
	names := make([]string, 0, len(params))
	for name, values := range params {
		if hasValue(values) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return namespace
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		values := make([]string, 0, len(params[name]))
		for _, v := range params[name] {
			if v = truncate(strings.TrimSpace(v), MaxKeyTermLength); v != "" {
				values = append(values, v)
			}
		}
		sort.Strings(values)
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		for j, v := range values {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func hasValue(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
