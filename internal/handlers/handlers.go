package handlers

import (
	"Inkwell/internal/auth"
	"Inkwell/internal/cache"
	"Inkwell/internal/config"
	"Inkwell/internal/metrics"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/response"
	"Inkwell/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps - сервисы и инфраструктура, которые нужны роутеру.
type Deps struct {
	Users      *service.UserService
	Notes      *service.NoteService
	Comments   *service.CommentService
	Categories *service.CategoryService
	Tags       *service.TagService

	Tokens *auth.TokenManager
	Cache  cache.Store
	DB     Pinger
	// Metrics и Gatherer необязательны; без Gatherer /metrics не регистрируется.
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer
}

type Handler struct {
	Router   chi.Router
	limiters []*middleware.RateLimiter
}

// Close останавливает фоновые горутины лимитеров.
func (h *Handler) Close() {
	for _, l := range h.limiters {
		l.Stop()
	}
}

// NewHandler разводящий для хендлеров
func NewHandler(deps Deps, logger *zap.SugaredLogger, config *config.Config) *Handler {
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	store := deps.Cache

	general := middleware.NewRateLimiter("general", middleware.RateLimiterConfig{PerMinute: config.RateLimitPerMin}, rec)
	authLimit := middleware.NewRateLimiter("auth", middleware.RateLimiterConfig{PerMinute: config.AuthRateLimitPerMin}, rec)

	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics(rec))
	r.Use(middleware.WithGzip)
	r.Use(middleware.CORS(config.CORSOrigin))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.WithAuth(deps.Tokens))
	r.Use(middleware.WithCurrentUser(deps.Users))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, model.NewNotFoundError(model.CodeRouteNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, &model.AppError{
			Status:  http.StatusMethodNotAllowed,
			Code:    model.CodeMethodNotAllowed,
			Message: "method not allowed",
		})
	})

	// Handlers
	userHandler := NewUserHandler(deps.Users, logger)
	noteHandler := NewNoteHandler(deps.Notes, logger)
	commentHandler := NewCommentHandler(deps.Comments, noteHandler, logger)
	taxonomyHandler := NewTaxonomyHandler(deps.Categories, deps.Tags, logger)
	healthHandler := &HealthHandler{DB: deps.DB, Cache: store, Logger: logger}

	cached := func(namespace string, ttl time.Duration, key func(*http.Request) (string, bool)) func(http.Handler) http.Handler {
		return middleware.Cache(store, middleware.CacheRoute{Namespace: namespace, TTL: ttl, Key: key}, rec)
	}
	invalidates := func(patterns []string) func(http.Handler) http.Handler {
		return middleware.Invalidate(store, patterns, rec)
	}

	r.Get("/health", healthHandler.Check)
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(general.Middleware)

		// Auth
		r.With(authLimit.Middleware).Post("/auth/register", userHandler.Register)
		r.With(authLimit.Middleware).Post("/auth/login", userHandler.Login)
		r.Get("/auth/me", userHandler.Me)
		r.With(invalidates(profilePatterns)).Put("/auth/me", userHandler.UpdateMe)
		r.Put("/auth/password", userHandler.ChangePassword)

		// Users
		r.Get("/users", userHandler.List)
		r.Put("/users/{id}/role", userHandler.UpdateRole)

		// Notes
		r.With(cached("notes:list", cache.TTLMedium, noteListKey)).Get("/notes", noteHandler.List)
		r.With(cached("filters", cache.TTLMedium, staticKey("filters:all"))).Get("/notes/filters", noteHandler.Filters)
		r.With(cached("search:suggest", cache.TTLShort, suggestKey)).Get("/notes/suggestions", noteHandler.Suggestions)
		r.With(cached("note:detail", cache.TTLMedium, noteDetailKey)).Get("/notes/{id}", noteHandler.Get)
		r.With(invalidates(noteWritePatterns)).Post("/notes", noteHandler.Create)
		r.With(invalidates(noteWritePatterns)).Put("/notes/{id}", noteHandler.Update)
		r.With(invalidates(noteWritePatterns)).Delete("/notes/{id}", noteHandler.Delete)
		r.With(invalidates(likePatterns)).Post("/notes/{id}/like", noteHandler.Like)
		r.Get("/notes/{id}/like", noteHandler.LikeStatus)

		// Comments
		r.With(cached("note:comments", cache.TTLShort, noteCommentsKey)).Get("/notes/{id}/comments", commentHandler.List)
		r.With(invalidates(commentPatterns)).Post("/notes/{id}/comments", commentHandler.Create)
		r.With(invalidates(commentPatterns)).Put("/comments/{id}", commentHandler.Update)
		r.With(invalidates(commentPatterns)).Delete("/comments/{id}", commentHandler.Delete)

		// Categories
		r.With(cached("categories", cache.TTLLong, staticKey("categories:list"))).Get("/categories", taxonomyHandler.ListCategories)
		r.With(cached("categories", cache.TTLLong, idKey("categories"))).Get("/categories/{id}", taxonomyHandler.GetCategory)
		r.With(invalidates(categoryPatterns)).Post("/categories", taxonomyHandler.CreateCategory)
		r.With(invalidates(categoryPatterns)).Put("/categories/{id}", taxonomyHandler.UpdateCategory)
		r.With(invalidates(categoryPatterns)).Delete("/categories/{id}", taxonomyHandler.DeleteCategory)

		// Tags
		r.With(cached("tags", cache.TTLLong, tagListKey)).Get("/tags", taxonomyHandler.ListTags)
		r.With(cached("tags", cache.TTLLong, idKey("tags"))).Get("/tags/{id}", taxonomyHandler.GetTag)
		r.With(invalidates(tagPatterns)).Post("/tags", taxonomyHandler.CreateTag)
		r.With(invalidates(tagPatterns)).Put("/tags/{id}", taxonomyHandler.UpdateTag)
		r.With(invalidates(tagPatterns)).Delete("/tags/{id}", taxonomyHandler.DeleteTag)

		// Stats
		r.With(cached("stats", cache.TTLVeryLong, staticKey("stats:overview"))).Get("/stats", noteHandler.Stats)
	})

	return &Handler{Router: r, limiters: []*middleware.RateLimiter{general, authLimit}}
}
