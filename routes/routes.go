package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dosada05/prediction-league/handlers"
)

// SetupRoutes wires the sync engine's HTTP surface onto the router.
func SetupRoutes(
	router *chi.Mux,
	syncHandler *handlers.SyncHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/sync", func(r chi.Router) {
		r.Post("/reconcile", syncHandler.Reconcile)
		r.Post("/reconcile-all", syncHandler.ReconcileAll)
		r.Post("/notify", syncHandler.NotifyChange)
	})

	router.Get("/competitions/{competitionID}/users/{userID}/missed-predictions", syncHandler.MissedPredictions)

	router.Get("/ws/updates", webSocketHandler.ServeUpdates)

	router.Handle("/metrics", promhttp.Handler())
}
