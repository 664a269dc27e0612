// Package billing charges for paid plans through a simulated payment
// gateway. No money moves: cards are validated locally and PIX payments
// are confirmed as soon as the code is issued.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
)

// ErrPaymentDeclined is returned when the gateway refuses a card.
var ErrPaymentDeclined = errors.New("payment declined")

// DeclinedCard is the test number the simulated gateway always refuses.
const DeclinedCard = "4000000000000002"

// Method is how a plan is paid for.
type Method string

const (
	MethodCard Method = "card"
	MethodPIX  Method = "pix"
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodPIX:
		return true
	}
	return false
}

// Card holds the card fields of the checkout form.
type Card struct {
	Number string `json:"number" validate:"required,credit_card"`
	Holder string `json:"holder" validate:"required"`
	// Expiry is MM/YY.
	Expiry string `json:"expiry" validate:"required,len=5"`
	CVV    string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Payment is one checkout request.
type Payment struct {
	Method Method `json:"method"`
	Email  string `json:"email" validate:"omitempty,email"`
	Card   *Card  `json:"card,omitempty" validate:"-"`
}

// Receipt confirms a charge.
type Receipt struct {
	ID      string          `json:"id"`
	PlanID  models.PlanTier `json:"planId"`
	Method  Method          `json:"method"`
	Amount  float64         `json:"amount"`
	PixCode string          `json:"pixCode,omitempty"`
	PaidAt  time.Time       `json:"paidAt"`
}

// Gateway charges a plan.
type Gateway interface {
	Charge(ctx context.Context, plan catalog.Plan, p Payment) (Receipt, error)
}

// SimulatedGateway accepts every well-formed payment except DeclinedCard.
type SimulatedGateway struct {
	now func() time.Time
	log *zap.Logger
}

// NewSimulatedGateway returns a gateway using the wall clock.
func NewSimulatedGateway(log *zap.Logger) *SimulatedGateway {
	return &SimulatedGateway{now: func() time.Time { return time.Now().UTC() }, log: log}
}

// Charge validates p and issues a receipt for plan.
func (g *SimulatedGateway) Charge(ctx context.Context, plan catalog.Plan, p Payment) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if !plan.ID.Paid() || plan.Price <= 0 {
		return Receipt{}, models.Invalid("PlanID", fmt.Sprintf("plan %q is not for sale", plan.ID))
	}
	if err := models.Validate(p); err != nil {
		return Receipt{}, err
	}

	now := g.now()
	r := Receipt{
		ID:     models.NewID(),
		PlanID: plan.ID,
		Method: p.Method,
		Amount: plan.Price,
		PaidAt: now,
	}

	switch p.Method {
	case MethodCard:
		card, err := normalizeCard(p.Card, now)
		if err != nil {
			return Receipt{}, err
		}
		if card.Number == DeclinedCard {
			g.log.Info("card declined", zap.String("plan", string(plan.ID)), zap.String("last4", card.Number[len(card.Number)-4:]))
			return Receipt{}, ErrPaymentDeclined
		}
	case MethodPIX:
		r.PixCode = PixCode(models.NewID(), plan.Price)
	default:
		return Receipt{}, models.Invalid("Method", fmt.Sprintf("unknown payment method %q", p.Method))
	}

	g.log.Info("payment accepted",
		zap.String("receipt_id", r.ID),
		zap.String("plan", string(plan.ID)),
		zap.String("method", string(p.Method)),
		zap.Float64("amount", r.Amount),
	)
	return r, nil
}

// normalizeCard strips formatting and checks the card is usable at now.
func normalizeCard(c *Card, now time.Time) (Card, error) {
	if c == nil {
		return Card{}, models.Invalid("Card", "card details are required")
	}
	card := *c
	card.Number = strings.ReplaceAll(card.Number, " ", "")
	card.Holder = strings.TrimSpace(card.Holder)
	card.Expiry = FormatExpiry(card.Expiry)
	if err := models.Validate(card); err != nil {
		return Card{}, err
	}

	month, err := strconv.Atoi(card.Expiry[:2])
	if err != nil || month < 1 || month > 12 {
		return Card{}, models.Invalid("Expiry", "invalid month")
	}
	year, err := strconv.Atoi(card.Expiry[3:])
	if err != nil {
		return Card{}, models.Invalid("Expiry", "invalid year")
	}
	// Cards are valid through the last day of the expiry month.
	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(end) {
		return Card{}, models.Invalid("Expiry", "card expired")
	}
	return card, nil
}
