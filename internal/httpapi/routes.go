package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/ws"
)

func SetupRoutes(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	h := NewHandlers(d)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Log.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.Log.Named("ws")))

	r.Post("/wheels", h.CreateWheel)
	r.Route("/wheels/{code}", func(rr chi.Router) {
		rr.Get("/", h.GetWheel)
		rr.Delete("/", h.DeleteWheel)
		rr.Put("/entrants", h.SetEntrants)
		rr.Post("/entrants", h.AddEntrant)
		rr.Delete("/entrants", h.ResetEntrants)
		rr.Delete("/entrants/{index}", h.DeleteEntrant)
		rr.Post("/spin", h.Spin)
		rr.Get("/wheel.svg", h.WheelSVG)
		rr.Get("/history", h.History)
	})
	return r
}
