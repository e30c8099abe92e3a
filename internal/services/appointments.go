package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

const (
	appointmentsPath = "/appointments"
	myAppointments   = appointmentsPath + "/my-appointments"
)

// Appointments wraps /appointments. Admin endpoints and patient endpoints
// share the type; the server enforces roles.
type Appointments struct {
	client apiclient.Doer
}

// Book creates an appointment for the current user.
func (a *Appointments) Book(ctx context.Context, in v1.AppointmentInput) (v1.Appointment, error) {
	return send[v1.Appointment](ctx, a.client, http.MethodPost, appointmentsPath, in)
}

// Mine lists the current user's appointments.
func (a *Appointments) Mine(ctx context.Context, q v1.AppointmentQuery) (v1.Page[v1.Appointment], error) {
	return list[v1.Appointment](ctx, a.client, myAppointments, q)
}

// MineByID returns one of the current user's appointments.
func (a *Appointments) MineByID(ctx context.Context, id string) (v1.Appointment, error) {
	return get[v1.Appointment](ctx, a.client, path(myAppointments, id), nil)
}

// Cancel asks the server to cancel one of the current user's appointments.
func (a *Appointments) Cancel(ctx context.Context, id string) (v1.Appointment, error) {
	return send[v1.Appointment](ctx, a.client, http.MethodPut, path(myAppointments, id, "cancel"), nil)
}

// CancelChecked rejects the cancellation locally when appt's known status
// does not allow it, otherwise calls Cancel.
func (a *Appointments) CancelChecked(ctx context.Context, appt v1.Appointment) (v1.Appointment, error) {
	if appt.Status != "" {
		if err := v1.CheckTransition(appt.Status, v1.StatusCancelled); err != nil {
			return v1.Appointment{}, err
		}
	}
	return a.Cancel(ctx, appt.ID)
}

// List returns all appointments. Admin only.
func (a *Appointments) List(ctx context.Context, q v1.AppointmentQuery) (v1.Page[v1.Appointment], error) {
	return list[v1.Appointment](ctx, a.client, appointmentsPath, q)
}

// Get returns any appointment. Admin only.
func (a *Appointments) Get(ctx context.Context, id string) (v1.Appointment, error) {
	return get[v1.Appointment](ctx, a.client, path(appointmentsPath, id), nil)
}

// UpdateStatus sets an appointment's status. Admin only.
func (a *Appointments) UpdateStatus(ctx context.Context, id string, in v1.StatusUpdate) (v1.Appointment, error) {
	return send[v1.Appointment](ctx, a.client, http.MethodPut, path(appointmentsPath, id, "status"), in)
}

// Transition validates appt's move to the target status locally before
// calling UpdateStatus.
func (a *Appointments) Transition(ctx context.Context, appt v1.Appointment, to v1.AppointmentStatus, note string) (v1.Appointment, error) {
	if err := v1.CheckTransition(appt.Status, to); err != nil {
		return v1.Appointment{}, err
	}
	return a.UpdateStatus(ctx, appt.ID, v1.StatusUpdate{Status: to, AdminNote: note})
}
