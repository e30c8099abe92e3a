package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const remindersPath = "/reminders"

// Reminders wraps /reminders.
type Reminders struct {
	client apiclient.Doer
}

func (r *Reminders) List(ctx context.Context, q v1.ReminderQuery) (v1.Page[v1.Reminder], error) {
	return list[v1.Reminder](ctx, r.client, remindersPath, q)
}

func (r *Reminders) Get(ctx context.Context, id string) (v1.Reminder, error) {
	return get[v1.Reminder](ctx, r.client, path(remindersPath, id), nil)
}

func (r *Reminders) Create(ctx context.Context, in v1.ReminderInput) (v1.Reminder, error) {
	return send[v1.Reminder](ctx, r.client, http.MethodPost, remindersPath, in)
}

func (r *Reminders) Update(ctx context.Context, id string, in v1.ReminderInput) (v1.Reminder, error) {
	return send[v1.Reminder](ctx, r.client, http.MethodPut, path(remindersPath, id), in)
}

// Toggle sets whether the reminder is active.
func (r *Reminders) Toggle(ctx context.Context, id string, active bool) (v1.Reminder, error) {
	body := struct {
		IsActive bool `json:"isActive"`
	}{active}
	return send[v1.Reminder](ctx, r.client, http.MethodPut, path(remindersPath, id, "toggle"), body)
}

func (r *Reminders) Delete(ctx context.Context, id string) error {
	return del(ctx, r.client, path(remindersPath, id))
}
