package middleware

import (
	"Inkwell/internal/cache"
	"Inkwell/internal/metrics"
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"
)

// storeTimeout ограничивает операции с кешем в рамках запроса.
const storeTimeout = 2 * time.Second

// CacheRoute описывает кешируемый GET-маршрут.
type CacheRoute struct {
	// Namespace - метка для метрик и логов, например "notes:list".
	Namespace string
	TTL       time.Duration
	// Key строит ключ запроса; false - не кешировать этот запрос.
	Key func(r *http.Request) (string, bool)
}

// bufferedWriter копит статус и тело ответа до явного flush.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: http.Header{}}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) code() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func (b *bufferedWriter) flush(w http.ResponseWriter) {
	for k, v := range b.header {
		w.Header()[k] = v
	}
	w.WriteHeader(b.code())
	_, _ = w.Write(b.body.Bytes())
}

func storeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), storeTimeout)
}

// Cache отдаёт ответ из кеша, если он есть; иначе выполняет обработчик
// и сохраняет тело успешного (200) ответа на route.TTL. Ошибки кеша запрос не ломают.
func Cache(store cache.Store, route CacheRoute, rec metrics.Recorder) func(http.Handler) http.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := route.Key(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := storeCtx(r)
			defer cancel()

			data, err := store.Get(ctx, key)
			switch {
			case err == nil:
				rec.RecordCacheHit(route.Namespace)
				sugar.Debugw("cache hit", "key", key)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(data)
				return
			case errors.Is(err, cache.ErrCacheMiss):
				rec.RecordCacheMiss(route.Namespace)
			default:
				rec.RecordCacheError("get")
				sugar.Warnw("cache get failed", "key", key, "error", err)
			}

			bw := newBufferedWriter()
			next.ServeHTTP(bw, r)
			bw.flush(w)

			if bw.code() != http.StatusOK {
				return
			}
			if err := store.Set(ctx, key, bw.body.Bytes(), route.TTL); err != nil {
				rec.RecordCacheError("set")
				sugar.Warnw("cache set failed", "key", key, "error", err)
			}
		})
	}
}

// Invalidate выполняет обработчик и после успешного (2xx) ответа удаляет ключи
// по каждому шаблону. Ответ отправляется клиенту только после инвалидации,
// чтобы следующий GET не увидел устаревшие данные. Ошибки только логируются.
func Invalidate(store cache.Store, patterns []string, rec metrics.Recorder) func(http.Handler) http.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bw := newBufferedWriter()
			next.ServeHTTP(bw, r)

			if code := bw.code(); code >= 200 && code < 300 {
				ctx, cancel := storeCtx(r)
				for _, pattern := range patterns {
					n, err := store.DeleteByPattern(ctx, pattern)
					if err != nil {
						rec.RecordCacheError("invalidate")
						sugar.Warnw("cache invalidation failed", "pattern", pattern, "error", err)
						continue
					}
					rec.RecordInvalidation(pattern, n)
				}
				cancel()
			}
			bw.flush(w)
		})
	}
}
