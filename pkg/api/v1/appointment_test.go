package v1

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	all := []AppointmentStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}
	allowed := map[[2]AppointmentStatus]bool{
		{StatusPending, StatusApproved}:   true,
		{StatusPending, StatusRejected}:   true,
		{StatusPending, StatusCancelled}:  true,
		{StatusApproved, StatusCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]AppointmentStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_Cancellable(t *testing.T) {
	assert.True(t, StatusPending.Cancellable())
	for _, s := range []AppointmentStatus{StatusApproved, StatusRejected, StatusCompleted, StatusCancelled} {
		assert.False(t, s.Cancellable(), s)
	}
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, AppointmentStatus("bogus").IsTerminal())
}

func TestAdminTransitions(t *testing.T) {
	assert.Equal(t, []AppointmentStatus{StatusApproved, StatusRejected}, AdminTransitions(StatusPending))
	assert.Equal(t, []AppointmentStatus{StatusCompleted}, AdminTransitions(StatusApproved))
	assert.Empty(t, AdminTransitions(StatusCompleted))
}

func TestCheckTransition_CancelCompleted(t *testing.T) {
	err := CheckTransition(StatusCompleted, StatusCancelled)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "completed -> cancelled")

	assert.NoError(t, CheckTransition(StatusPending, StatusCancelled))
}

func TestDoctorRef_Unmarshal(t *testing.T) {
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"a1","doctorId":"d1","status":"pending"}`), &a))
	assert.Equal(t, "d1", a.Doctor.ID)
	assert.Nil(t, a.Doctor.Doctor)
	assert.Empty(t, a.Doctor.Name())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"a2","doctorId":{"_id":"d2","name":"Dr. Lan","specialty":"Cardiology"}}`), &a))
	assert.Equal(t, "d2", a.Doctor.ID)
	require.NotNil(t, a.Doctor.Doctor)
	assert.Equal(t, "Dr. Lan", a.Doctor.Name())

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"a3","doctorId":null}`), &a))
	assert.Empty(t, a.Doctor.ID)
}

func TestDoctorRef_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(DoctorRef{ID: "d1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"d1"`, string(b))
}

func TestAppointmentInput_Validate(t *testing.T) {
	valid := AppointmentInput{
		DoctorID:        "d1",
		AppointmentDate: "2026-10-20",
		AppointmentTime: "09:00",
		PatientName:     "Minh",
		PhoneNumber:     "0900000000",
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.PhoneNumber = " "
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "phone number is required", err.Error())
}
