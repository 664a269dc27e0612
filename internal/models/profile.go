package models

import "time"

// UserProfile holds the household preferences of the session owner.
type UserProfile struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name" validate:"required"`
	Email               string    `json:"email" validate:"required"`
	Phone               string    `json:"phone,omitempty"`
	DietaryRestrictions []string  `json:"dietaryRestrictions"`
	Allergies           []string  `json:"allergies"`
	HouseholdSize       int       `json:"householdSize" validate:"gte=1"`
	PreferredCuisines   []string  `json:"preferredCuisines"`
	CreatedAt           time.Time `json:"createdAt"`
}
