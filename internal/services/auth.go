package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Auth wraps /auth and owns session creation and teardown.
type Auth struct {
	client apiclient.Doer
	store  session.Store
}

// Login authenticates and saves the returned session.
func (a *Auth) Login(ctx context.Context, in v1.LoginInput) (v1.AuthResult, error) {
	return a.authenticate(ctx, "/auth/login", in)
}

// Register creates an account and saves the returned session.
func (a *Auth) Register(ctx context.Context, in v1.RegisterInput) (v1.AuthResult, error) {
	return a.authenticate(ctx, "/auth/register", in)
}

func (a *Auth) authenticate(ctx context.Context, p string, body any) (v1.AuthResult, error) {
	var res v1.AuthResult
	_, err := a.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: p, Body: body, Public: true}, &res)
	if err != nil {
		return v1.AuthResult{}, err
	}
	if res.Token != "" {
		if err := a.store.Save(session.Session{Token: res.Token, User: res.User}); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Me returns the current user's profile.
func (a *Auth) Me(ctx context.Context) (v1.User, error) {
	return get[v1.User](ctx, a.client, "/auth/me", nil)
}

// Logout notifies the API and clears the local session whether or not the
// call succeeded.
func (a *Auth) Logout(ctx context.Context) error {
	_, callErr := a.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/logout"}, nil)
	clearErr := a.store.Clear()
	if errors.Is(callErr, v1.ErrNotAuthenticated) || errors.Is(callErr, v1.ErrUnauthorized) {
		callErr = nil
	}
	return errors.Join(callErr, clearErr)
}

// Current returns the cached session without contacting the API.
func (a *Auth) Current() (session.Session, error) {
	return a.store.Load()
}
