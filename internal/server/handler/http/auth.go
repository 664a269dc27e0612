// Package http exposes the meal planner over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/directory"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/service"
)

// AuthService defines the account and subscription operations required
// by the HTTP handlers.
type AuthService interface {
	// Register returns a nil user when the email is taken.
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	// Login returns a nil user for bad credentials.
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentSession(ctx context.Context) (directory.Session, error)
	HasActiveSubscription(ctx context.Context) (bool, error)
	// UpgradePlan returns false when nobody is signed in.
	UpgradePlan(ctx context.Context, tier models.PlanTier) (bool, error)
	Plans() []catalog.Plan
	Checkout(ctx context.Context, tier models.PlanTier, p billing.Payment) (billing.Receipt, error)
}

// AuthHandler handles HTTP requests for accounts and plans.
type AuthHandler struct {
	// AuthService performs the underlying operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	User         *models.User         `json:"user"`
	Subscription *models.Subscription `json:"subscription"`
	Active       bool                 `json:"active"`
}

// CheckoutRequest selects a plan and how to pay for it.
type CheckoutRequest struct {
	PlanID  models.PlanTier `json:"planId"`
	Payment billing.Payment `json:"payment"`
}

// Register handles POST /api/register. A taken email yields 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login. Bad credentials yield 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.AuthService.CurrentSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	active, err := h.AuthService.HasActiveSubscription(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: sess.User, Subscription: sess.Subscription, Active: active})
}

// Plans handles GET /api/plans.
func (h *AuthHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.AuthService.Plans())
}

// Upgrade handles POST /api/upgrade with {"planId": "pro"|"premium"}.
func (h *AuthHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"planId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	tier, err := models.ParsePaidTier(req.PlanID)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.AuthService.UpgradePlan(r.Context(), tier)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, service.ErrNotLoggedIn)
		return
	}
	h.Session(w, r)
}

// Checkout handles POST /api/checkout.
func (h *AuthHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	receipt, err := h.AuthService.Checkout(r.Context(), req.PlanID, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// writeError maps domain errors to status codes. Unexpected errors are
// reported without detail.
func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotLoggedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrIngredientLimit):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, billing.ErrPaymentDeclined):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
