package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cantrip-core/server/internal/metrics"
)

// NewRouter wires the travel endpoints onto a chi router. m may be nil, in
// which case /metrics is not served.
func NewRouter(h *Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(tracing)
	if m != nil {
		r.Use(instrument(m))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Post("/chat", h.Chat)
	r.Post("/generate-itinerary", h.GenerateItinerary)
	r.Post("/explore-destination", h.ExploreDestination)
	r.Post("/generate-packing-list", h.GeneratePackingList)

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", h.ListTools)
		r.Get("/{name}", h.RunTool)
	})

	return r
}
