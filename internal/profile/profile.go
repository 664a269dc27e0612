// Package profile implements the single-profile upsert.
package profile

import (
	"strings"
	"time"

	"github.com/atinyakov/menufacil/internal/models"
)

// Upsert replaces prev with in. The id and creation time of prev are
// kept; a first save mints both. A household size below one becomes one.
func Upsert(prev *models.UserProfile, in models.UserProfile, now time.Time) (*models.UserProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.HouseholdSize < 1 {
		in.HouseholdSize = 1
	}
	in.DietaryRestrictions = tags(in.DietaryRestrictions)
	in.Allergies = tags(in.Allergies)
	in.PreferredCuisines = tags(in.PreferredCuisines)

	if err := models.Validate(in); err != nil {
		return nil, err
	}

	if prev != nil {
		in.ID = prev.ID
		in.CreatedAt = prev.CreatedAt
	} else {
		in.ID = models.NewID()
		in.CreatedAt = now
	}
	return &in, nil
}

// ParseTags splits a comma separated list.
func ParseTags(s string) []string {
	return tags(strings.Split(s, ","))
}

// tags trims entries and drops blanks. The result is never nil.
func tags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
