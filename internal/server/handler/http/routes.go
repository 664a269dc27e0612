package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// MenuFácil API under /api.
//
// Middleware chain (applied in order):
//  1. CORS for the given origins, when any are configured
//  2. RequestID and Recoverer
//  3. AllowContentType("application/json") for requests with a body
//  4. WithRequestLogging(logger)
func NewRouter(
	authHandler *AuthHandler,
	kitchenHandler *KitchenHandler,
	logger *zap.Logger,
	origins []string,
) http.Handler {
	r := chi.NewRouter()

	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)
		r.Get("/plans", authHandler.Plans)
		r.Post("/upgrade", authHandler.Upgrade)
		r.Post("/checkout", authHandler.Checkout)

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", kitchenHandler.Ingredients)
			r.Post("/", kitchenHandler.AddIngredient)
			r.Delete("/{id}", kitchenHandler.RemoveIngredient)
		})
		r.Get("/pantry/stats", kitchenHandler.PantryStats)
		r.Get("/pantry/expiring", kitchenHandler.Expiring)

		r.Route("/shopping", func(r chi.Router) {
			r.Get("/", kitchenHandler.Shopping)
			r.Post("/", kitchenHandler.AddShoppingItem)
			r.Post("/{id}/toggle", kitchenHandler.ToggleShoppingItem)
			r.Delete("/{id}", kitchenHandler.RemoveShoppingItem)
		})

		r.Get("/suggestions", kitchenHandler.Suggestions)
		r.Post("/suggestions", kitchenHandler.AddSuggestions)
		r.Post("/suggestions/estimate", kitchenHandler.EstimateSuggestions)

		r.Get("/recipes", kitchenHandler.Recipes)
		r.Get("/plan", kitchenHandler.Plan)
		r.Post("/plan", kitchenHandler.GeneratePlan)

		r.Get("/profile", kitchenHandler.Profile)
		r.Put("/profile", kitchenHandler.SaveProfile)
	})

	return r
}
