package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AppointmentStatus is the lifecycle state of an appointment.
//
//	pending  -> approved | rejected | cancelled
//	approved -> completed
//
// completed, rejected and cancelled are terminal. Only the patient cancels,
// and only while pending; the other transitions are admin actions.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted},
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s AppointmentStatus) IsTerminal() bool {
	return s.Valid() && len(appointmentTransitions[s]) == 0
}

// Cancellable reports whether the patient may cancel from s.
func (s AppointmentStatus) Cancellable() bool {
	return CanTransition(s, StatusCancelled)
}

// CanTransition reports whether from -> to is an allowed move.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an error wrapping ErrInvalidTransition when
// from -> to is not allowed.
func CheckTransition(from, to AppointmentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// AdminTransitions returns the statuses an admin may move an appointment
// to from s. Cancellation belongs to the patient and is excluded.
func AdminTransitions(s AppointmentStatus) []AppointmentStatus {
	var out []AppointmentStatus
	for _, next := range appointmentTransitions[s] {
		if next != StatusCancelled {
			out = append(out, next)
		}
	}
	return out
}

// DoctorRef is the appointment's doctor field. The API sends either the bare
// doctor ID or, on populated reads, the full doctor object.
type DoctorRef struct {
	ID     string
	Doctor *Doctor
}

func (r *DoctorRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = DoctorRef{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		r.Doctor = nil
		return json.Unmarshal(b, &r.ID)
	}
	var d Doctor
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	r.ID = d.ID
	r.Doctor = &d
	return nil
}

func (r DoctorRef) MarshalJSON() ([]byte, error) {
	if r.Doctor != nil {
		return json.Marshal(r.Doctor)
	}
	return json.Marshal(r.ID)
}

// Name returns the populated doctor's name, or "" when only the ID is known.
func (r DoctorRef) Name() string {
	if r.Doctor == nil {
		return ""
	}
	return r.Doctor.Name
}

// Appointment is a consultation booking.
type Appointment struct {
	ID              string            `json:"_id"`
	Doctor          DoctorRef         `json:"doctorId"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	PatientName     string            `json:"patientName"`
	PhoneNumber     string            `json:"phoneNumber"`
	Description     string            `json:"description,omitempty"`
	Status          AppointmentStatus `json:"status"`
	AdminNote       string            `json:"adminNote,omitempty"`
}

// AppointmentInput is the booking form.
type AppointmentInput struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	PatientName     string `json:"patientName"`
	PhoneNumber     string `json:"phoneNumber"`
	Description     string `json:"description,omitempty"`
}

func (in AppointmentInput) Validate() error {
	switch {
	case in.DoctorID == "":
		return invalid("choose a doctor")
	case in.AppointmentDate == "":
		return invalid("appointment date is required")
	case in.AppointmentTime == "":
		return invalid("appointment time is required")
	case strings.TrimSpace(in.PatientName) == "":
		return invalid("patient name is required")
	case strings.TrimSpace(in.PhoneNumber) == "":
		return invalid("phone number is required")
	}
	return nil
}

// StatusUpdate is the admin status change body.
type StatusUpdate struct {
	Status    AppointmentStatus `json:"status"`
	AdminNote string            `json:"adminNote"`
}

// AppointmentQuery filters appointment lists.
type AppointmentQuery struct {
	ListQuery
	Status AppointmentStatus `url:"status,omitempty"`
}
