package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/userhub-be/internal/api/handlers"
	"github.com/isdelr/userhub-be/internal/chat"
	"github.com/isdelr/userhub-be/internal/services"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Hub            *chat.Hub
	Guard          *Guard
	UserService    services.UserServiceProvider
	EventService   services.EventServiceProvider
	Stats          handlers.StatsSource
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.UserService)
	userHandler := handlers.NewUserHandler(d.UserService)
	eventHandler := handlers.NewEventHandler(d.EventService)
	healthHandler := handlers.NewHealthHandler(d.Stats)
	wsHandler := handlers.NewWebSocketHandler(d.Hub)
	g := d.Guard

	r.Get("/health", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", g.Admin(userHandler.GetAll))

		r.Get("/profile/me", g.Authenticated(userHandler.GetProfile))
		r.Put("/profile/me", g.Authenticated(userHandler.UpdateProfile))
		r.Get("/notifications/me", g.Authenticated(userHandler.GetNotifications))
		r.Delete("/soft/{id}", g.Authenticated(userHandler.SoftDelete))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", g.Admin(userHandler.Get))
			r.Put("/", g.Admin(userHandler.Update))
			r.Delete("/", g.Admin(userHandler.Delete))
			r.Post("/notifications", g.Admin(userHandler.SendNotification))
		})
	})

	r.Get("/events", g.Admin(eventHandler.GetRecent))

	r.Get("/chat/ws/{display_name}", wsHandler.Serve)

	return r
}
