package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
)

func newGateway() *SimulatedGateway {
	g := NewSimulatedGateway(zap.NewNop())
	g.now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	return g
}

func proPlan(t *testing.T) catalog.Plan {
	t.Helper()
	p, ok := catalog.Default().Plan(models.PlanPro)
	require.True(t, ok)
	return p
}

func validCard() *Card {
	return &Card{Number: "4111 1111 1111 1111", Holder: "ANA SILVA", Expiry: "12/27", CVV: "123"}
}

func TestCharge_Card(t *testing.T) {
	g := newGateway()

	r, err := g.Charge(context.Background(), proPlan(t), Payment{Method: MethodCard, Email: "ana@example.com", Card: validCard()})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, models.PlanPro, r.PlanID)
	assert.InDelta(t, 19.90, r.Amount, 1e-9)
	assert.Empty(t, r.PixCode)
	assert.Equal(t, g.now(), r.PaidAt)
}

func TestCharge_CardRejected(t *testing.T) {
	g := newGateway()
	plan := proPlan(t)

	tests := []struct {
		name   string
		mutate func(c *Card)
		field  string
	}{
		{"bad luhn", func(c *Card) { c.Number = "4111 1111 1111 1112" }, "Number"},
		{"no holder", func(c *Card) { c.Holder = " " }, "Holder"},
		{"short cvv", func(c *Card) { c.CVV = "12" }, "CVV"},
		{"letters in cvv", func(c *Card) { c.CVV = "12a" }, "CVV"},
		{"bad month", func(c *Card) { c.Expiry = "13/27" }, "Expiry"},
		{"expired", func(c *Card) { c.Expiry = "05/26" }, "Expiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(card)
			_, err := g.Charge(context.Background(), plan, Payment{Method: MethodCard, Card: card})

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	t.Run("current month is still valid", func(t *testing.T) {
		card := validCard()
		card.Expiry = "0626"
		_, err := g.Charge(context.Background(), plan, Payment{Method: MethodCard, Card: card})
		require.NoError(t, err)
	})

	t.Run("missing card", func(t *testing.T) {
		_, err := g.Charge(context.Background(), plan, Payment{Method: MethodCard})
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
	})

	t.Run("declined", func(t *testing.T) {
		card := validCard()
		card.Number = FormatCardNumber(DeclinedCard)
		_, err := g.Charge(context.Background(), plan, Payment{Method: MethodCard, Card: card})
		assert.ErrorIs(t, err, ErrPaymentDeclined)
	})
}

func TestCharge_PIX(t *testing.T) {
	g := newGateway()
	r, err := g.Charge(context.Background(), proPlan(t), Payment{Method: MethodPIX})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.PixCode, "00020126580014br.gov.bcb.pix0136"))
	assert.Contains(t, r.PixCode, "540519.90")
}

func TestCharge_Rejections(t *testing.T) {
	g := newGateway()

	free, ok := catalog.Default().Plan(models.PlanFree)
	require.True(t, ok)
	_, err := g.Charge(context.Background(), free, Payment{Method: MethodPIX})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"PlanID"}, verr.Fields)

	_, err = g.Charge(context.Background(), proPlan(t), Payment{Method: "boleto"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Method"}, verr.Fields)

	_, err = g.Charge(context.Background(), proPlan(t), Payment{Method: MethodPIX, Email: "not-an-email"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Email"}, verr.Fields)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Charge(ctx, proPlan(t), Payment{Method: MethodPIX})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 11", FormatCardNumber("4111-11"))
	assert.Equal(t, "12/27", FormatExpiry("1227"))
	assert.Equal(t, "12/27", FormatExpiry("12/2799"))
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "************1111", MaskCardNumber("4111 1111 1111 1111"))
	assert.Equal(t, "R$ 19,90", FormatPrice(19.90))
	assert.Equal(t, "Grátis", FormatPrice(0))
}

func TestPixCode_Checksum(t *testing.T) {
	// Reference value of CRC-16/CCITT-FALSE.
	assert.Equal(t, uint16(0x29B1), crc16("123456789"))

	code := PixCode("a1b2c3d4-e5f6-7890-abcd-ef1234567890", 12.90)
	body, sum := code[:len(code)-4], code[len(code)-4:]
	assert.True(t, strings.HasSuffix(body, "6304"))
	assert.Len(t, sum, 4)
	assert.Equal(t, PixCode("a1b2c3d4-e5f6-7890-abcd-ef1234567890", 12.90), code)
}
