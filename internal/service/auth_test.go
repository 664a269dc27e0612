package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/billing"
	"github.com/atinyakov/menufacil/internal/catalog"
	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/planner"
	"github.com/atinyakov/menufacil/internal/storage"
)

type mockGateway struct {
	ChargeFunc func(ctx context.Context, plan catalog.Plan, p billing.Payment) (billing.Receipt, error)
}

func (m *mockGateway) Charge(ctx context.Context, plan catalog.Plan, p billing.Payment) (billing.Receipt, error) {
	return m.ChargeFunc(ctx, plan, p)
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newService(t *testing.T, opts ...Option) (*Service, *testClock) {
	t.Helper()
	c := &testClock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	base := []Option{WithClock(c.now), WithPlanner(NewPlanner(1, planner.Options{}))}
	return New(storage.NewMemoryStore(), zap.NewNop(), append(base, opts...)...), c
}

func TestRegisterLoginLogout(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana@example.com", "pw", "Ana")
	require.NoError(t, err)
	require.NotNil(t, user)

	sess, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, sess.User)
	active, err := svc.HasActiveSubscription(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	dup, err := svc.Register(ctx, "ana@example.com", "x", "Other")
	require.NoError(t, err)
	assert.Nil(t, dup)

	require.NoError(t, svc.Logout(ctx))
	sess, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess.User)
	assert.NotNil(t, sess.Subscription)

	bad, err := svc.Login(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, bad)

	again, err := svc.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, user.ID, again.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), "", "", "")
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUpgradePlan(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	ok, err := svc.UpgradePlan(ctx, models.PlanPro)
	require.NoError(t, err)
	assert.False(t, ok)
	sess, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess.Subscription)

	_, err = svc.Register(ctx, "ana@example.com", "pw", "Ana")
	require.NoError(t, err)

	ok, err = svc.UpgradePlan(ctx, models.PlanPro)
	require.NoError(t, err)
	require.True(t, ok)

	sess, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, sess.Subscription.PlanID)
	require.NotNil(t, sess.Subscription.EndDate)
	assert.Equal(t, clock.t.AddDate(0, 0, 30), *sess.Subscription.EndDate)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	sess, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, sess.Subscription.PlanID, "paid plan survives re-login")

	clock.t = clock.t.AddDate(0, 0, 31)
	active, err := svc.HasActiveSubscription(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestCheckout(t *testing.T) {
	var charged []catalog.Plan
	gw := &mockGateway{
		ChargeFunc: func(_ context.Context, plan catalog.Plan, p billing.Payment) (billing.Receipt, error) {
			charged = append(charged, plan)
			if p.Method == "declined" {
				return billing.Receipt{}, billing.ErrPaymentDeclined
			}
			return billing.Receipt{ID: "r1", PlanID: plan.ID, Amount: plan.Price}, nil
		},
	}
	svc, _ := newService(t, WithGateway(gw))
	ctx := context.Background()

	_, err := svc.Checkout(ctx, models.PlanPremium, billing.Payment{Method: billing.MethodPIX})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, charged)

	_, err = svc.Register(ctx, "ana@example.com", "pw", "Ana")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, models.PlanFree, billing.Payment{Method: billing.MethodPIX})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = svc.Checkout(ctx, models.PlanPremium, billing.Payment{Method: "declined"})
	assert.ErrorIs(t, err, billing.ErrPaymentDeclined)
	sess, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sess.Subscription.PlanID)

	r, err := svc.Checkout(ctx, models.PlanPremium, billing.Payment{Method: billing.MethodPIX})
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	assert.InDelta(t, 39.90, r.Amount, 1e-9)

	sess, err = svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, sess.Subscription.PlanID)
	assert.Len(t, charged, 2)
}

func TestCheckout_SimulatedGateway(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "ana@example.com", "pw", "Ana")
	require.NoError(t, err)

	r, err := svc.Checkout(ctx, models.PlanPro, billing.Payment{Method: billing.MethodPIX})
	require.NoError(t, err)
	assert.NotEmpty(t, r.PixCode)
	assert.Len(t, svc.Plans(), 3)
}
