package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/brianference/daisydog-sub000/internal/handler/chat"
	eventsHandler "github.com/brianference/daisydog-sub000/internal/handler/events"
	wsHandler "github.com/brianference/daisydog-sub000/internal/handler/ws"
	middlewarePkg "github.com/brianference/daisydog-sub000/internal/middleware"
	sessionService "github.com/brianference/daisydog-sub000/internal/service/session"
	"github.com/brianference/daisydog-sub000/pkg/utils"
)

// NewRouter wires HTTP routes to the session service.
func NewRouter(svc *sessionService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat := chatHandler.New(svc)
	events := eventsHandler.New(svc.Events())
	ws := wsHandler.New(svc)

	r.Route("/api", func(api chi.Router) {
		chat.RegisterRoutes(api)
		ws.RegisterRoutes(api)
		api.Get("/events", events.HandleStream)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
