package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ShubhamP528/RentManagement-frontend/internal/handler"
	"github.com/ShubhamP528/RentManagement-frontend/internal/httputil"
	authmw "github.com/ShubhamP528/RentManagement-frontend/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	PushHandler *handler.PushHandler
	RelaySecret string
}

// NewRouter creates the push receiver's router
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Relay routes - require a token signed with the relay secret
	r.Route("/push", func(r chi.Router) {
		r.Use(authmw.RelayAuth(cfg.RelaySecret))

		r.Post("/messages", cfg.PushHandler.Message)
		r.Post("/opened", cfg.PushHandler.Opened)
	})

	return r
}
