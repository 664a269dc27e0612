package models

import (
	"fmt"
	"time"
)

// User is an account identity.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credential pairs a plaintext password with its account. Passwords are
// stored and compared as-is.
type Credential struct {
	Password string `json:"password"`
	User     User   `json:"user"`
}

// Registry maps an email to its credential record.
type Registry map[string]Credential

// PlanTier is the subscription level.
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPro     PlanTier = "pro"
	PlanPremium PlanTier = "premium"
)

// Valid reports whether t is a known tier.
func (t PlanTier) Valid() bool {
	switch t {
	case PlanFree, PlanPro, PlanPremium:
		return true
	}
	return false
}

// Paid reports whether t is one of the upgradable tiers.
func (t PlanTier) Paid() bool {
	switch t {
	case PlanPro, PlanPremium:
		return true
	case PlanFree:
		return false
	}
	return false
}

// ParsePaidTier accepts only the tiers a user can upgrade to.
func ParsePaidTier(s string) (PlanTier, error) {
	t := PlanTier(s)
	if !t.Paid() {
		return "", Invalid("PlanID", fmt.Sprintf("%q is not an upgradable plan", s))
	}
	return t, nil
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusInactive  SubscriptionStatus = "inactive"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCancelled:
		return true
	}
	return false
}

// Subscription is the plan attached to the current session.
type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	PlanID    PlanTier           `json:"planId"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"startDate"`
	EndDate   *time.Time         `json:"endDate,omitempty"`
}

// IsActive reports whether the subscription grants its tier at now.
// The free tier is always active; a paid tier needs an active status and
// an end date, if any, strictly after now.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.PlanID {
	case PlanFree:
		return true
	case PlanPro, PlanPremium:
		if s.Status != StatusActive {
			return false
		}
		return s.EndDate == nil || s.EndDate.After(now)
	}
	return false
}

// EffectiveTier is the tier the subscription grants at now, falling back
// to free when it is missing or lapsed.
func (s *Subscription) EffectiveTier(now time.Time) PlanTier {
	if s.IsActive(now) {
		return s.PlanID
	}
	return PlanFree
}
