package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/api/handlers"
	appMiddleware "github.com/smallTechOrg/ai-agent-boilerplate/internal/api/middlewares"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/config"
	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// NewRouter builds and wires all routes. Split from NewServer so handler
// tests can exercise the full routing table without binding a port.
func NewRouter(cfg *config.Config, dbclient db.DbClient, chatSvc *services.ChatService, domainSvc *services.DomainService) chi.Router {
	chatHandler := handlers.NewChatHandler(dbclient, chatSvc, cfg.MaxInputLength)
	promptHandler := handlers.NewPromptHandler(dbclient)
	domainHandler := handlers.NewDomainHandler(domainSvc)
	healthHandler := handlers.NewHealthHandler(dbclient)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin"},
		AllowCredentials: false,
	}))

	// visitor-facing surface
	r.Post("/chat", chatHandler.Chat)
	r.Get("/history", chatHandler.History)
	r.Get("/chat-info", chatHandler.ListLeads)
	r.Get("/prompts", promptHandler.ListPrompts)
	r.Get("/health", healthHandler.Health)

	// management surface, optionally guarded
	r.Group(func(admin chi.Router) {
		admin.Use(appMiddleware.AdminJWT(cfg.AdminJWTSecret))
		admin.Patch("/chat-info", chatHandler.UpdateChatInfo)
		admin.Post("/prompt", promptHandler.UpsertPrompt)
		admin.Route("/domains", func(d chi.Router) {
			d.Post("/", domainHandler.CreateDomain)
			d.Get("/", domainHandler.ListDomains)
			d.Get("/{id}", domainHandler.GetDomain)
		})
	})

	return r
}

// NewServer binds the wired router to an http.Server.
func NewServer(cfg *config.Config, router chi.Router) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		},
		log: observability.WithComponent("server"),
	}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
