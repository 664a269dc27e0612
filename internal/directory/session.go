package directory

import (
	"context"

	"github.com/atinyakov/menufacil/internal/models"
	"github.com/atinyakov/menufacil/internal/state"
)

// SessionStore persists a Session as the user and subscription keys.
type SessionStore struct {
	user *state.Collection[*models.User]
	sub  *state.Collection[*models.Subscription]
}

// NewSessionStore binds a SessionStore to the session collections of st.
func NewSessionStore(st *state.Store) *SessionStore {
	return &SessionStore{user: st.User, sub: st.Subscription}
}

// Load reads the current session. A fresh device yields an empty Session.
func (ss *SessionStore) Load(ctx context.Context) (Session, error) {
	user, _, err := ss.user.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	sub, _, err := ss.sub.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Subscription: sub}, nil
}

// Save writes s. Nil parts are removed from the store.
func (ss *SessionStore) Save(ctx context.Context, s Session) error {
	if s.User == nil {
		if err := ss.user.Clear(ctx); err != nil {
			return err
		}
	} else if err := ss.user.Save(ctx, s.User); err != nil {
		return err
	}

	if s.Subscription == nil {
		return ss.sub.Clear(ctx)
	}
	return ss.sub.Save(ctx, s.Subscription)
}
