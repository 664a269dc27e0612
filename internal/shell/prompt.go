package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/profile"
)

// clearMarker is the answer that empties a field when editing.
const clearMarker = "-"

// prompter asks questions on out and reads answers from a scanner.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *prompter) ask(question string) string {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

func (p *prompter) askFloat(question string, def float64) float64 {
	s := p.ask(question)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		fmt.Fprintf(p.out, "Not a number %q, using %g\n", s, def)
		return def
	}
	return v
}

// ingredient reads a pantry ingredient.
func (p *prompter) ingredient() models.Ingredient {
	ing := models.Ingredient{
		Name:     p.ask("Name: "),
		Quantity: p.askFloat("Quantity: ", 1),
		Unit:     p.ask("Unit (un): "),
		Category: models.IngredientCategory(p.ask("Category (protein/vegetable/carbohydrate/dairy/seasoning/other): ")),
	}
	if s := p.ask("Expiry date YYYY-MM-DD (optional): "); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			fmt.Fprintf(p.out, "Ignoring invalid date %q\n", s)
		} else {
			ing.ExpiryDate = &d
		}
	}
	return ing
}

// shoppingItem reads a manual shopping list entry.
func (p *prompter) shoppingItem() models.ShoppingItem {
	return models.ShoppingItem{
		Name:     p.ask("Item: "),
		Quantity: p.askFloat("Quantity: ", 1),
		Unit:     p.ask("Unit: "),
	}
}

// profile reads the profile form, showing prev values as defaults.
func (p *prompter) profile(prev *models.UserProfile) models.UserProfile {
	var cur models.UserProfile
	if prev != nil {
		cur = *prev
	}
	// A blank answer keeps def; clearMarker empties the field.
	keep := func(question, def string) string {
		if def != "" {
			question = fmt.Sprintf("%s [%s, %s clears]: ", question, def, clearMarker)
		} else {
			question += ": "
		}
		switch s := p.ask(question); s {
		case "":
			return def
		case clearMarker:
			return ""
		default:
			return s
		}
	}

	cur.Name = keep("Name", cur.Name)
	cur.Email = keep("Email", cur.Email)
	cur.Phone = keep("Phone", cur.Phone)
	cur.HouseholdSize = int(p.askFloat("Household size: ", float64(max(cur.HouseholdSize, 1))))
	cur.DietaryRestrictions = profile.ParseTags(keep("Dietary restrictions (comma separated)", strings.Join(cur.DietaryRestrictions, ", ")))
	cur.Allergies = profile.ParseTags(keep("Allergies (comma separated)", strings.Join(cur.Allergies, ", ")))
	cur.PreferredCuisines = profile.ParseTags(keep("Preferred cuisines (comma separated)", strings.Join(cur.PreferredCuisines, ", ")))
	return cur
}

// payment reads the checkout form.
func (p *prompter) payment() billing.Payment {
	pay := billing.Payment{
		Method: billing.Method(strings.ToLower(p.ask("Payment method (card/pix): "))),
		Email:  p.ask("Email for the receipt (optional): "),
	}
	if pay.Method == billing.MethodCard {
		pay.Card = &billing.Card{
			Number: billing.FormatCardNumber(p.ask("Card number: ")),
			Holder: p.ask("Name on card: "),
			Expiry: billing.FormatExpiry(p.ask("Expiry (MM/YY): ")),
			CVV:    p.ask("CVV: "),
		}
	}
	return pay
}
