package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Users wraps /users.
type Users struct {
	client apiclient.Doer
	store  session.Store
}

// List returns a page of users. Admin only.
func (u *Users) List(ctx context.Context, q v1.ListQuery) (v1.Page[v1.User], error) {
	return list[v1.User](ctx, u.client, "/users", q)
}

// Delete removes a user. Admin only.
func (u *Users) Delete(ctx context.Context, id string) error {
	return del(ctx, u.client, path("/users", id))
}

// UpdateProfile saves the caller's profile and refreshes the cached user.
func (u *Users) UpdateProfile(ctx context.Context, in v1.ProfileInput) (v1.User, error) {
	user, err := send[v1.User](ctx, u.client, http.MethodPut, "/users/profile", in)
	if err != nil {
		return v1.User{}, err
	}
	if user.ID != "" {
		if err := session.UpdateUser(u.store, user); err != nil {
			return user, err
		}
	}
	return user, nil
}

// ChangePassword changes the caller's password.
func (u *Users) ChangePassword(ctx context.Context, in v1.PasswordChange) error {
	_, err := u.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/users/change-password", Body: in}, nil)
	return err
}
