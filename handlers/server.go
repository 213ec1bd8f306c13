// Package handlers exposes the JSON API over chi.
package handlers

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"noto/auth"
	"noto/logger"
	"noto/models"
	"noto/ratelimit"
	"noto/utils"
)

type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResult, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error)
	Logout(ctx context.Context, session models.Session) error
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, userID uuid.UUID, taskType string) (*models.Notepad, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]models.NotepadListing, error)
	UpdateNotepad(ctx context.Context, notepadID int64, userID uuid.UUID, patch models.NotepadPatch) (*models.Notepad, error)
}

type TagStore interface {
	TagNotepad(ctx context.Context, userID uuid.UUID, notepadID int64, title, color string) (*models.Tag, *models.NotepadTag, error)
	DetachTag(ctx context.Context, userID uuid.UUID, notepadID, tagID int64) error
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth        AuthService
	Tasks       TaskStore
	Tags        TagStore
	Health      HealthChecker
	AuthLimiter *ratelimit.KeyedRateLimiter
	Logger      *logger.Logger
	CORSOrigins []string

	// TrustedProxies lists the peers whose forwarding headers are believed.
	// Empty means the client address is always the socket peer.
	TrustedProxies []netip.Prefix
}

type Server struct {
	auth    AuthService
	tasks   TaskStore
	tags    TagStore
	health  HealthChecker
	limiter *ratelimit.KeyedRateLimiter
	log     *logger.Logger
	router  chi.Router
	proxies []netip.Prefix

	validator *utils.Validator
}

func NewServer(deps Deps) *Server {
	s := &Server{
		auth:    deps.Auth,
		tasks:   deps.Tasks,
		tags:    deps.Tags,
		health:  deps.Health,
		limiter: deps.AuthLimiter,
		log:     deps.Logger,
		router:  chi.NewRouter(),
		proxies: deps.TrustedProxies,

		validator: utils.NewValidator(),
	}
	s.routes(deps.CORSOrigins)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(origins []string) {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(s.realIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.rateLimit).Post("/register", s.handleRegister)
			r.With(s.rateLimit).Post("/login", s.handleLogin)
			r.With(s.RequireAuth).Post("/logout", s.handleLogout)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(s.RequireAuth)
			r.Post("/", s.handleCreateTask)
			r.Get("/fetch", s.handleFetchTasks)
			r.Put("/edit/{id}", s.handleEditTask)
			r.Post("/{taskId}/tags", s.handleAttachTag)
			r.Delete("/{id}/tags/{tagId}", s.handleDetachTag)
		})
	})
}
