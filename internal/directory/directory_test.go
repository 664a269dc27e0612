package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/state"
	"github.com/atinyakov/menufacil/internal/storage"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newDirectory(t *testing.T) (*Directory, *state.Store, *clock) {
	t.Helper()
	st := state.New(storage.NewMemoryStore())
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(st.Users, zap.NewNop(), WithClock(c.now)), st, c
}

func TestRegister_NewUser(t *testing.T) {
	d, st, c := newDirectory(t)
	ctx := context.Background()

	s, user, err := d.Register(ctx, Session{}, "ana@example.com", "secret", "  Ana ")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, c.t, user.CreatedAt)
	assert.Equal(t, user, s.User)

	require.NotNil(t, s.Subscription)
	assert.Equal(t, models.PlanFree, s.Subscription.PlanID)
	assert.Equal(t, models.StatusActive, s.Subscription.Status)
	assert.Equal(t, user.ID, s.Subscription.UserID)
	assert.Nil(t, s.Subscription.EndDate)
	assert.True(t, d.HasActiveSubscription(s))

	users, _, err := st.Users.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", users["ana@example.com"].Password)
	assert.Equal(t, *user, users["ana@example.com"].User)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	d, st, _ := newDirectory(t)
	ctx := context.Background()

	_, first, err := d.Register(ctx, Session{}, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)
	require.NotNil(t, first)
	before, _, err := st.Users.Load(ctx)
	require.NoError(t, err)

	prev := Session{}
	s, user, err := d.Register(ctx, prev, "ana@example.com", "other", "Impostor")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, prev, s)

	after, _, err := st.Users.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRegister_MissingFields(t *testing.T) {
	d, st, _ := newDirectory(t)
	ctx := context.Background()

	_, user, err := d.Register(ctx, Session{}, "", "secret", "   ")
	require.Error(t, err)
	assert.Nil(t, user)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"Email", "Name"}, verr.Fields)

	_, stored, err := st.Users.Load(ctx)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestLogin(t *testing.T) {
	d, st, _ := newDirectory(t)
	ctx := context.Background()

	_, registered, err := d.Register(ctx, Session{}, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)
	before, _, err := st.Users.Load(ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantUser bool
	}{
		{"correct credentials", "ana@example.com", "secret", true},
		{"wrong password", "ana@example.com", "SECRET", false},
		{"unknown email", "bob@example.com", "secret", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, user, err := d.Login(ctx, Session{}, tt.email, tt.password)
			require.NoError(t, err)
			if !tt.wantUser {
				assert.Nil(t, user)
				assert.False(t, s.LoggedIn())
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, registered.ID, user.ID)
			assert.True(t, s.LoggedIn())
		})
	}

	after, _, err := st.Users.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogin_SubscriptionReconciliation(t *testing.T) {
	d, _, _ := newDirectory(t)
	ctx := context.Background()

	anaSession, ana, err := d.Register(ctx, Session{}, "ana@example.com", "a", "Ana")
	require.NoError(t, err)
	bobSession, _, err := d.Register(ctx, Session{}, "bob@example.com", "b", "Bob")
	require.NoError(t, err)

	t.Run("keeps own paid plan across logout", func(t *testing.T) {
		upgraded, ok := d.UpgradePlan(anaSession, models.PlanPro)
		require.True(t, ok)

		out := d.Logout(upgraded)
		assert.Nil(t, out.User)
		assert.Equal(t, upgraded.Subscription, out.Subscription)

		back, user, err := d.Login(ctx, out, "ana@example.com", "a")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, upgraded.Subscription, back.Subscription)
		assert.Equal(t, models.PlanPro, back.Subscription.PlanID)
	})

	t.Run("replaces someone else's plan with free", func(t *testing.T) {
		out := d.Logout(bobSession)
		s, user, err := d.Login(ctx, out, "ana@example.com", "a")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotNil(t, s.Subscription)
		assert.Equal(t, ana.ID, s.Subscription.UserID)
		assert.Equal(t, models.PlanFree, s.Subscription.PlanID)
		assert.NotEqual(t, bobSession.Subscription.ID, s.Subscription.ID)
	})

	t.Run("attaches free plan to bare session", func(t *testing.T) {
		s, _, err := d.Login(ctx, Session{}, "bob@example.com", "b")
		require.NoError(t, err)
		require.NotNil(t, s.Subscription)
		assert.Equal(t, models.PlanFree, s.Subscription.PlanID)
	})
}

func TestUpgradePlan(t *testing.T) {
	d, _, c := newDirectory(t)
	ctx := context.Background()

	t.Run("requires a user", func(t *testing.T) {
		prev := Session{Subscription: &models.Subscription{ID: "s1", PlanID: models.PlanFree, Status: models.StatusActive}}
		s, ok := d.UpgradePlan(prev, models.PlanPremium)
		assert.False(t, ok)
		assert.Equal(t, prev, s)
	})

	s, _, err := d.Register(ctx, Session{}, "ana@example.com", "a", "Ana")
	require.NoError(t, err)

	t.Run("rejects free tier", func(t *testing.T) {
		got, ok := d.UpgradePlan(s, models.PlanFree)
		assert.False(t, ok)
		assert.Equal(t, s, got)
	})

	for _, tier := range []models.PlanTier{models.PlanPro, models.PlanPremium} {
		t.Run(string(tier), func(t *testing.T) {
			got, ok := d.UpgradePlan(s, tier)
			require.True(t, ok)
			sub := got.Subscription
			require.NotNil(t, sub)
			assert.Equal(t, tier, sub.PlanID)
			assert.Equal(t, models.StatusActive, sub.Status)
			assert.Equal(t, s.User.ID, sub.UserID)
			assert.Equal(t, c.t, sub.StartDate)
			require.NotNil(t, sub.EndDate)
			assert.Equal(t, c.t.Add(PaidPeriod), *sub.EndDate)
			assert.True(t, d.HasActiveSubscription(got))
		})
	}
}

func TestHasActiveSubscription_Expiry(t *testing.T) {
	d, _, c := newDirectory(t)
	ctx := context.Background()

	s, _, err := d.Register(ctx, Session{}, "ana@example.com", "a", "Ana")
	require.NoError(t, err)
	s, ok := d.UpgradePlan(s, models.PlanPro)
	require.True(t, ok)

	c.t = c.t.Add(PaidPeriod - time.Minute)
	assert.True(t, d.HasActiveSubscription(s))

	c.t = c.t.Add(2 * time.Minute)
	assert.False(t, d.HasActiveSubscription(s))

	assert.False(t, d.HasActiveSubscription(Session{}))
}

func TestSessionStore(t *testing.T) {
	d, st, _ := newDirectory(t)
	ctx := context.Background()
	ss := NewSessionStore(st)

	empty, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Session{}, empty)

	s, _, err := d.Register(ctx, Session{}, "ana@example.com", "a", "Ana")
	require.NoError(t, err)
	require.NoError(t, ss.Save(ctx, s))

	got, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	out := d.Logout(s)
	require.NoError(t, ss.Save(ctx, out))

	got, err = ss.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.User)
	assert.Equal(t, s.Subscription, got.Subscription)
}
