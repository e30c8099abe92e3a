// Package session persists the authenticated user's bearer token and cached
// profile between healthctl invocations.
//
// A session is created on login or register and destroyed on logout or when
// the API answers 401. Token and user are always written and removed
// together.
package session

import (
	"errors"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no session")

// Session is the bearer token plus the cached profile of its owner.
type Session struct {
	Token string  `json:"token"`
	User  v1.User `json:"user"`
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool { return s.Token != "" }

// Store loads, saves and clears the current session.
// Implementations must be safe for concurrent use.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// UpdateUser replaces the cached profile, keeping the token. It is a no-op
// when no session exists.
func UpdateUser(store Store, user v1.User) error {
	s, err := store.Load()
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	s.User = user
	return store.Save(s)
}
