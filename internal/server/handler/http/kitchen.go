package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/pantry"
	"github.com/atinyakov/menufacil/internal/planner"
)

// KitchenService defines the pantry, shopping, plan and profile
// operations required by the HTTP handlers.
type KitchenService interface {
	Ingredients(ctx context.Context) ([]models.Ingredient, error)
	AddIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error)
	RemoveIngredient(ctx context.Context, id string) (bool, error)
	PantryStats(ctx context.Context) (pantry.Stats, error)
	ExpiringSoon(ctx context.Context, window time.Duration) ([]models.Ingredient, error)

	ShoppingList(ctx context.Context) ([]models.ShoppingItem, error)
	AddShoppingItem(ctx context.Context, item models.ShoppingItem) (models.ShoppingItem, error)
	ToggleShoppingItem(ctx context.Context, id string) (bool, error)
	RemoveShoppingItem(ctx context.Context, id string) (bool, error)
	Suggestions() []catalog.SuggestionGroup
	EstimateSuggestions(names []string) float64
	AddSuggestions(ctx context.Context, names []string) ([]models.ShoppingItem, error)

	Recipes() []models.Recipe
	GenerateMealPlan(ctx context.Context) (planner.Result, error)
	CurrentPlan(ctx context.Context) ([]models.Recipe, error)

	Profile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, in models.UserProfile) (*models.UserProfile, error)
}

// KitchenHandler handles the pantry, shopping list, plan and profile
// endpoints.
type KitchenHandler struct {
	KitchenService KitchenService
	// ExpiryWindow is the default lookahead of GET /api/pantry/expiring.
	ExpiryWindow time.Duration
}

// SuggestionsRequest names the weekly suggestions to act on.
type SuggestionsRequest struct {
	Names []string `json:"names"`
}

// Ingredients handles GET /api/ingredients.
func (h *KitchenHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	inv, err := h.KitchenService.Ingredients(r.Context())
	respond(w, http.StatusOK, inv, err)
}

// AddIngredient handles POST /api/ingredients.
func (h *KitchenHandler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	var ing models.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ing); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	added, err := h.KitchenService.AddIngredient(r.Context(), ing)
	respond(w, http.StatusCreated, added, err)
}

// RemoveIngredient handles DELETE /api/ingredients/{id}.
func (h *KitchenHandler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	ok, err := h.KitchenService.RemoveIngredient(r.Context(), chi.URLParam(r, "id"))
	noContent(w, ok, err)
}

// PantryStats handles GET /api/pantry/stats.
func (h *KitchenHandler) PantryStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.KitchenService.PantryStats(r.Context())
	respond(w, http.StatusOK, st, err)
}

// Expiring handles GET /api/pantry/expiring?within=48h.
func (h *KitchenHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	window := h.ExpiryWindow
	if v := r.URL.Query().Get("within"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = d
	}
	inv, err := h.KitchenService.ExpiringSoon(r.Context(), window)
	if inv == nil {
		inv = []models.Ingredient{}
	}
	respond(w, http.StatusOK, inv, err)
}

// Shopping handles GET /api/shopping.
func (h *KitchenHandler) Shopping(w http.ResponseWriter, r *http.Request) {
	list, err := h.KitchenService.ShoppingList(r.Context())
	respond(w, http.StatusOK, list, err)
}

// AddShoppingItem handles POST /api/shopping.
func (h *KitchenHandler) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	var item models.ShoppingItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	added, err := h.KitchenService.AddShoppingItem(r.Context(), item)
	respond(w, http.StatusCreated, added, err)
}

// ToggleShoppingItem handles POST /api/shopping/{id}/toggle.
func (h *KitchenHandler) ToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	ok, err := h.KitchenService.ToggleShoppingItem(r.Context(), chi.URLParam(r, "id"))
	noContent(w, ok, err)
}

// RemoveShoppingItem handles DELETE /api/shopping/{id}.
func (h *KitchenHandler) RemoveShoppingItem(w http.ResponseWriter, r *http.Request) {
	ok, err := h.KitchenService.RemoveShoppingItem(r.Context(), chi.URLParam(r, "id"))
	noContent(w, ok, err)
}

// Suggestions handles GET /api/suggestions.
func (h *KitchenHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.KitchenService.Suggestions())
}

// EstimateSuggestions handles POST /api/suggestions/estimate.
func (h *KitchenHandler) EstimateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"total": h.KitchenService.EstimateSuggestions(req.Names)})
}

// AddSuggestions handles POST /api/suggestions.
func (h *KitchenHandler) AddSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	added, err := h.KitchenService.AddSuggestions(r.Context(), req.Names)
	respond(w, http.StatusOK, added, err)
}

// Recipes handles GET /api/recipes.
func (h *KitchenHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.KitchenService.Recipes())
}

// Plan handles GET /api/plan.
func (h *KitchenHandler) Plan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.KitchenService.CurrentPlan(r.Context())
	respond(w, http.StatusOK, plan, err)
}

// GeneratePlan handles POST /api/plan.
func (h *KitchenHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	res, err := h.KitchenService.GenerateMealPlan(r.Context())
	respond(w, http.StatusOK, map[string]any{"plan": res.Plan, "additions": res.Additions}, err)
}

// Profile handles GET /api/profile. It answers 404 before the first save.
func (h *KitchenHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.KitchenService.Profile(r.Context())
	if err == nil && p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	respond(w, http.StatusOK, p, err)
}

// SaveProfile handles PUT /api/profile.
func (h *KitchenHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var in models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	p, err := h.KitchenService.SaveProfile(r.Context(), in)
	respond(w, http.StatusOK, p, err)
}

func respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func noContent(w http.ResponseWriter, ok bool, err error) {
	switch {
	case err != nil:
		writeError(w, err)
	case !ok:
		http.Error(w, "not found", http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
