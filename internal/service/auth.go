package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/directory"
	"github.com/atinyakov/menufacil/internal/models"
)

// CurrentSession returns the stored session.
func (s *Service) CurrentSession(ctx context.Context) (directory.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Load(ctx)
}

// Register creates an account and signs it in. A taken email yields a nil
// user and no error.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, user, err := s.dir.Register(ctx, sess, email, password, name)
	if err != nil || user == nil {
		return nil, err
	}
	return user, s.saveSession(ctx, next)
}

// Login signs in with email and password. Bad credentials yield a nil
// user and no error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, user, err := s.dir.Login(ctx, sess, email, password)
	if err != nil || user == nil {
		return nil, err
	}
	return user, s.saveSession(ctx, next)
}

// Logout signs the current user out and keeps the subscription.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return err
	}
	return s.saveSession(ctx, s.dir.Logout(sess))
}

// UpgradePlan switches the session to a paid tier without charging. It
// reports false when nobody is signed in.
func (s *Service) UpgradePlan(ctx context.Context, tier models.PlanTier) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return false, err
	}
	next, ok := s.dir.UpgradePlan(sess, tier)
	if !ok {
		return false, nil
	}
	return true, s.saveSession(ctx, next)
}

// HasActiveSubscription reports whether the session subscription is active.
func (s *Service) HasActiveSubscription(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return false, err
	}
	return s.dir.HasActiveSubscription(sess), nil
}

// Plans lists the subscription plans on offer.
func (s *Service) Plans() []catalog.Plan {
	return s.catalog.Plans
}

// Checkout charges the session user for tier and upgrades the plan.
func (s *Service) Checkout(ctx context.Context, tier models.PlanTier, p billing.Payment) (billing.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Load(ctx)
	if err != nil {
		return billing.Receipt{}, err
	}
	if !sess.LoggedIn() {
		return billing.Receipt{}, ErrNotLoggedIn
	}

	plan, ok := s.catalog.Plan(tier)
	if !ok || !tier.Paid() {
		return billing.Receipt{}, models.Invalid("PlanID", fmt.Sprintf("%q is not an upgradable plan", tier))
	}

	receipt, err := s.gateway.Charge(ctx, plan, p)
	if err != nil {
		return billing.Receipt{}, err
	}

	next, _ := s.dir.UpgradePlan(sess, tier)
	if err := s.saveSession(ctx, next); err != nil {
		s.log.Error("payment accepted but plan not saved",
			zap.String("receipt_id", receipt.ID),
			zap.Error(err),
		)
		return billing.Receipt{}, err
	}
	return receipt, nil
}

func (s *Service) saveSession(ctx context.Context, sess directory.Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Error("failed to save session", zap.Error(err))
		return err
	}
	return nil
}
