package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/pantry"
	"github.com/atinyakov/menufacil/internal/planner"
	"github.com/atinyakov/menufacil/internal/profile"
	"github.com/atinyakov/menufacil/internal/shopping"
)

// Ingredients returns the pantry.
func (s *Service) Ingredients(ctx context.Context) ([]models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, _, err := s.state.Ingredients.Load(ctx)
	return inv, err
}

// AddIngredient stores a new pantry ingredient. Without an active paid
// plan the pantry is capped at the free plan limit.
func (s *Service) AddIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, _, err := s.state.Ingredients.Load(ctx)
	if err != nil {
		return models.Ingredient{}, err
	}

	next, added, err := pantry.Add(inv, ing, s.now())
	if err != nil {
		return models.Ingredient{}, err
	}

	limit, err := s.ingredientLimit(ctx)
	if err != nil {
		return models.Ingredient{}, err
	}
	if limit > 0 && len(inv) >= limit {
		return models.Ingredient{}, ErrIngredientLimit
	}
	if err := s.state.Ingredients.Save(ctx, next); err != nil {
		return models.Ingredient{}, err
	}
	return added, nil
}

// ingredientLimit is the pantry cap of the effective plan, zero if none.
func (s *Service) ingredientLimit(ctx context.Context) (int, error) {
	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return 0, err
	}
	plan, ok := s.catalog.Plan(sess.Subscription.EffectiveTier(s.now()))
	if !ok {
		return 0, nil
	}
	return plan.IngredientLimit, nil
}

// RemoveIngredient deletes an ingredient. It reports false for unknown ids.
func (s *Service) RemoveIngredient(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, _, err := s.state.Ingredients.Load(ctx)
	if err != nil {
		return false, err
	}
	next, ok := pantry.Remove(inv, id)
	if !ok {
		return false, nil
	}
	return true, s.state.Ingredients.Save(ctx, next)
}

// PantryStats summarises the pantry.
func (s *Service) PantryStats(ctx context.Context) (pantry.Stats, error) {
	inv, err := s.Ingredients(ctx)
	if err != nil {
		return pantry.Stats{}, err
	}
	return pantry.Summarize(inv), nil
}

// ExpiringSoon lists ingredients expiring within window.
func (s *Service) ExpiringSoon(ctx context.Context, window time.Duration) ([]models.Ingredient, error) {
	inv, err := s.Ingredients(ctx)
	if err != nil {
		return nil, err
	}
	return pantry.ExpiringSoon(inv, s.now(), window), nil
}

// ShoppingList returns the shopping list.
func (s *Service) ShoppingList(ctx context.Context) ([]models.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, _, err := s.state.Shopping.Load(ctx)
	return list, err
}

// AddShoppingItem appends a manual item.
func (s *Service) AddShoppingItem(ctx context.Context, item models.ShoppingItem) (models.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.state.Shopping.Load(ctx)
	if err != nil {
		return models.ShoppingItem{}, err
	}
	next, added, err := shopping.Add(list, item)
	if err != nil {
		return models.ShoppingItem{}, err
	}
	return added, s.state.Shopping.Save(ctx, next)
}

// ToggleShoppingItem flips the checked flag. It reports false for unknown ids.
func (s *Service) ToggleShoppingItem(ctx context.Context, id string) (bool, error) {
	return s.editShopping(ctx, func(list []models.ShoppingItem) ([]models.ShoppingItem, bool) {
		return shopping.Toggle(list, id)
	})
}

// RemoveShoppingItem deletes an item. It reports false for unknown ids.
func (s *Service) RemoveShoppingItem(ctx context.Context, id string) (bool, error) {
	return s.editShopping(ctx, func(list []models.ShoppingItem) ([]models.ShoppingItem, bool) {
		return shopping.Remove(list, id)
	})
}

func (s *Service) editShopping(ctx context.Context, edit func([]models.ShoppingItem) ([]models.ShoppingItem, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.state.Shopping.Load(ctx)
	if err != nil {
		return false, err
	}
	next, ok := edit(list)
	if !ok {
		return false, nil
	}
	return true, s.state.Shopping.Save(ctx, next)
}

// Suggestions returns the weekly purchase suggestions.
func (s *Service) Suggestions() []catalog.SuggestionGroup {
	return s.catalog.Suggestions
}

// EstimateSuggestions sums the prices of the named suggestions.
func (s *Service) EstimateSuggestions(names []string) float64 {
	return shopping.EstimateTotal(s.catalog.Suggested(), names)
}

// AddSuggestions appends the named suggestions to the shopping list.
func (s *Service) AddSuggestions(ctx context.Context, names []string) ([]models.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.state.Shopping.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, added := shopping.AddSuggestions(list, s.catalog.Suggested(), names)
	if len(added) == 0 {
		return added, nil
	}
	return added, s.state.Shopping.Save(ctx, next)
}

// Recipes returns the recipe catalog.
func (s *Service) Recipes() []models.Recipe {
	return s.catalog.RecipesCopy()
}

// GenerateMealPlan replaces the current plan and appends the missing
// ingredients to the shopping list.
func (s *Service) GenerateMealPlan(ctx context.Context) (planner.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, _, err := s.state.Ingredients.Load(ctx)
	if err != nil {
		return planner.Result{}, err
	}
	list, _, err := s.state.Shopping.Load(ctx)
	if err != nil {
		return planner.Result{}, err
	}

	res := s.planner.Generate(inv, list, s.catalog.Recipes)
	if err := s.state.Plan.Save(ctx, res.Plan); err != nil {
		return planner.Result{}, err
	}
	if len(res.Additions) > 0 {
		if err := s.state.Shopping.Save(ctx, shopping.Append(list, res.Additions...)); err != nil {
			return planner.Result{}, err
		}
	}

	s.log.Info("meal plan generated",
		zap.Int("recipes", len(res.Plan)),
		zap.Int("shopping_additions", len(res.Additions)),
	)
	return res, nil
}

// CurrentPlan returns the last generated plan.
func (s *Service) CurrentPlan(ctx context.Context) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, _, err := s.state.Plan.Load(ctx)
	return plan, err
}

// Profile returns the stored profile, or nil before the first save.
func (s *Service) Profile(ctx context.Context) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _, err := s.state.Profile.Load(ctx)
	return p, err
}

// SaveProfile upserts the profile.
func (s *Service) SaveProfile(ctx context.Context, in models.UserProfile) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, _, err := s.state.Profile.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := profile.Upsert(prev, in, s.now())
	if err != nil {
		return nil, err
	}
	return next, s.state.Profile.Save(ctx, next)
}
