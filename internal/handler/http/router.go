package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-sync-go/internal/domain/session"
	"github.com/cmlabs-hris/hris-sync-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	sessions session.Service,
	authHandler AuthHandler,
	evaluationHandler EvaluationHandler,
	sidebarHandler SidebarHandler,
	streamHandler StreamHandler,
	allowedOrigin string,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-sync-agent"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		// Requires a signed-in staff member
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionRequired(sessions))

			r.Route("/evaluations", func(r chi.Router) {
				r.Get("/", evaluationHandler.List)
				r.Get("/{id}", evaluationHandler.Get)
				r.Post("/{id}/submit", evaluationHandler.Submit)
				r.Delete("/{id}", evaluationHandler.Delete)
			})

			r.Route("/sidebar", func(r chi.Router) {
				r.Get("/counts", sidebarHandler.GetCounts)
				r.Post("/refresh", sidebarHandler.Refresh)
			})

			r.Get("/stream", streamHandler.Events)
		})
	})

	return r
}
