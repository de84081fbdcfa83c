package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/bracket-builder/docs"
	"github.com/Dosada05/bracket-builder/handlers"
	"github.com/Dosada05/bracket-builder/middleware"
)

const requestTimeout = 60 * time.Second

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

type Handlers struct {
	Event     *handlers.EventHandler
	Bracket   *handlers.BracketHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	organizerOnly := []func(http.Handler) http.Handler{
		middleware.Authenticate(opts.JWTSecret),
		middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin),
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Get("/swagger/doc.json", docs.Handler)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket без таймаута: соединение живёт, пока экран открыт
	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		r.Post("/brackets", h.Bracket.GenerateFromListHandler)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.ListHandler)
			r.With(organizerOnly...).Post("/", h.Event.CreateHandler)

			r.Route("/{eventID}", func(r chi.Router) {
				// Публичные маршруты
				r.Get("/", h.Event.GetByIDHandler)
				r.Get("/competitors", h.Event.CompetitorsHandler)
				r.Get("/options", h.Event.OptionsHandler)
				r.Get("/categories", h.Event.CategoriesHandler)
				r.Get("/bracket", h.Bracket.GenerateHandler)
				r.Get("/brackets", h.Bracket.GenerateAllHandler)
				r.Get("/dashboard", h.Dashboard.Stats)

				// Защищенные маршруты только для организаторов
				r.Group(func(r chi.Router) {
					r.Use(organizerOnly...)
					r.Put("/competitors", h.Event.ReplaceCompetitorsHandler)
					r.Post("/bracket/publish", h.Bracket.PublishHandler)
					r.Post("/bracket/display", h.Bracket.DisplayHandler)
				})
			})
		})
	})
}
