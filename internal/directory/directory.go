// Package directory registers and authenticates accounts against the
// simulated local registry and manages the subscription attached to the
// current session.
//
// Every operation takes the current Session and returns the next one; the
// caller decides when to persist it (see SessionStore).
package directory

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/state"
)

// PaidPeriod is how long an upgrade stays active.
const PaidPeriod = 30 * 24 * time.Hour

// Session is the signed-in user and the subscription tracked for this
// device. Either may be nil.
type Session struct {
	User         *models.User         `json:"user"`
	Subscription *models.Subscription `json:"subscription"`
}

// LoggedIn reports whether a user is attached to the session.
func (s Session) LoggedIn() bool { return s.User != nil }

// Directory implements register, login, logout and plan upgrades.
type Directory struct {
	users *state.Collection[models.Registry]
	now   func() time.Time
	log   *zap.Logger
}

// Option customises a Directory.
type Option func(*Directory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// New creates a Directory persisting its registry in users.
func New(users *state.Collection[models.Registry], log *zap.Logger, opts ...Option) *Directory {
	d := &Directory{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type registration struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
	Name     string `validate:"required"`
}

// Register creates an account and signs it in with a free subscription.
// It returns a nil user, and the unchanged session, when email is already
// registered. Missing fields yield a *models.ValidationError.
func (d *Directory) Register(ctx context.Context, s Session, email, password, name string) (Session, *models.User, error) {
	name = strings.TrimSpace(name)
	if err := models.Validate(registration{Email: email, Password: password, Name: name}); err != nil {
		return s, nil, err
	}

	users, _, err := d.users.Load(ctx)
	if err != nil {
		return s, nil, err
	}
	if _, taken := users[email]; taken {
		d.log.Info("registration rejected: email taken", zap.String("email", email))
		return s, nil, nil
	}

	now := d.now()
	user := models.User{
		ID:        models.NewID(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}
	users[email] = models.Credential{Password: password, User: user}
	if err := d.users.Save(ctx, users); err != nil {
		return s, nil, err
	}

	d.log.Info("user registered", zap.String("user_id", user.ID), zap.String("email", email))
	return Session{User: &user, Subscription: d.freeSubscription(user.ID, now)}, &user, nil
}

// Login signs in the account matching email and password. Unknown emails
// and wrong passwords are indistinguishable: both return a nil user.
//
// A subscription already owned by the user is kept, so a paid plan
// survives logout and login. Otherwise a free subscription is attached.
func (d *Directory) Login(ctx context.Context, s Session, email, password string) (Session, *models.User, error) {
	users, _, err := d.users.Load(ctx)
	if err != nil {
		return s, nil, err
	}

	rec, ok := users[email]
	if !ok || rec.Password != password {
		d.log.Info("login rejected", zap.String("email", email))
		return s, nil, nil
	}

	user := rec.User
	next := Session{User: &user, Subscription: s.Subscription}
	if next.Subscription == nil || next.Subscription.UserID != user.ID {
		next.Subscription = d.freeSubscription(user.ID, d.now())
	}

	d.log.Info("user logged in", zap.String("user_id", user.ID))
	return next, &user, nil
}

// Logout detaches the user. The subscription stays with the session.
func (d *Directory) Logout(s Session) Session {
	if s.User != nil {
		d.log.Info("user logged out", zap.String("user_id", s.User.ID))
	}
	return Session{Subscription: s.Subscription}
}

// UpgradePlan replaces the session subscription with an active paid one
// lasting PaidPeriod. It returns false, leaving s untouched, when nobody
// is signed in or tier is not a paid tier.
func (d *Directory) UpgradePlan(s Session, tier models.PlanTier) (Session, bool) {
	if s.User == nil || !tier.Paid() {
		return s, false
	}

	start := d.now()
	end := start.Add(PaidPeriod)
	next := Session{
		User: s.User,
		Subscription: &models.Subscription{
			ID:        models.NewID(),
			UserID:    s.User.ID,
			PlanID:    tier,
			Status:    models.StatusActive,
			StartDate: start,
			EndDate:   &end,
		},
	}

	d.log.Info("plan upgraded",
		zap.String("user_id", s.User.ID),
		zap.String("plan", string(tier)),
		zap.Time("ends_at", end),
	)
	return next, true
}

// HasActiveSubscription reports whether the session subscription is
// currently active.
func (d *Directory) HasActiveSubscription(s Session) bool {
	return s.Subscription.IsActive(d.now())
}

// Now returns the directory's current time.
func (d *Directory) Now() time.Time { return d.now() }

func (d *Directory) freeSubscription(userID string, now time.Time) *models.Subscription {
	return &models.Subscription{
		ID:        models.NewID(),
		UserID:    userID,
		PlanID:    models.PlanFree,
		Status:    models.StatusActive,
		StartDate: now,
	}
}
