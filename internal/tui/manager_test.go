package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	"github.com/fyrsmithlabs/healthdash/internal/crud"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// manage mounts the named resource and runs its first fetch.
func manage[T any, F crud.Validator](t *testing.T, f *fixture, name string) ManagerModel[T, F] {
	t.Helper()
	model, err := Manage(context.Background(), f.reg, name, f.user.IsAdmin())
	require.NoError(t, err)
	m, ok := model.(ManagerModel[T, F])
	require.True(t, ok, "unexpected model %T", model)
	t.Cleanup(m.page.Dispose)
	return exec(t, m, m.run(func() error { return m.page.FetchList(1) }))
}

func TestManage_UnknownResource(t *testing.T) {
	f := newFixture(t, "user")
	_, err := Manage(context.Background(), f.reg, "pets", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records, reminders")
}

func TestManage_UsersNeedsAdmin(t *testing.T) {
	f := newFixture(t, "user")
	_, err := Manage(context.Background(), f.reg, "users", false)
	require.Error(t, err)
}

func TestManage_EveryResourceMounts(t *testing.T) {
	f := newFixture(t, v1.RoleAdmin)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	for _, name := range Managed {
		t.Run(name, func(t *testing.T) {
			model, err := Manage(ctx, f.reg, name, true)
			require.NoError(t, err)
			require.NotNil(t, model.Init())
		})
	}
}

func TestGoalsScreen_CreateThroughForm(t *testing.T) {
	f := newFixture(t, "user")
	m := manage[v1.HealthGoal, v1.HealthGoalInput](t, f, "goals")
	assert.Contains(t, m.View(), "No goals yet")

	m, _ = press(t, m, "n")
	require.Equal(t, crud.ModalCreate, m.state.Modal.Kind)
	require.Len(t, m.inputs, len(GoalsScreen().Fields))

	m, _ = press(t, m, "Walk", "tab", "10000", "tab", "steps")
	m, cmd := press(t, m, "enter")
	m = exec(t, m, cmd)

	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind)
	require.Len(t, m.state.Items, 1)
	g := m.state.Items[0]
	assert.Equal(t, "Walk", g.Title)
	assert.Equal(t, 10000.0, g.TargetValue)
	assert.Equal(t, "steps", g.Unit)
	assert.Equal(t, "other", g.Type, "blank form default kept")

	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "goal created", n.Message)
	assert.Contains(t, m.View(), "Walk")
}

func TestGoalsScreen_TargetMustBeNumber(t *testing.T) {
	f := newFixture(t, "user")
	m := manage[v1.HealthGoal, v1.HealthGoalInput](t, f, "goals")

	m, _ = press(t, m, "n", "Walk", "tab", "lots")
	m, cmd := press(t, m, "enter")

	assert.Nil(t, cmd)
	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "target must be a number", n.Message)
	assert.Zero(t, f.srv.Count(apitest.KindGoals))
}

func TestSleepScreen_EditKeepsHiddenFields(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindSleep, f.user.ID, map[string]any{
		"sleepDate": "2026-10-01", "bedtime": "23:00", "wakeTime": "07:00", "quality": "fair", "wakeUpCount": 2.0,
	})
	m := manage[v1.SleepEntry, v1.SleepInput](t, f, "sleep")
	require.Len(t, m.state.Items, 1)

	m, _ = press(t, m, "e")
	require.Equal(t, crud.ModalEdit, m.state.Modal.Kind)
	assert.Equal(t, "23:00", m.inputs[1].Value())
	assert.Equal(t, "2", m.inputs[4].Value())

	m, cmd := press(t, m, "enter")
	m = exec(t, m, cmd)

	n, _ := m.Notice()
	assert.Equal(t, "sleep entry updated", n.Message)
	assert.Equal(t, 2, m.state.Items[0].WakeUpCount)
	assert.Equal(t, "fair", m.state.Items[0].Quality)
}

func TestWaterScreen_NoEditKey(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindWater, f.user.ID, map[string]any{"amount": 300.0, "date": "2026-10-01"})
	m := manage[v1.WaterIntake, v1.WaterIntakeInput](t, f, "water")

	view := m.View()
	assert.Contains(t, view, "300 ml")
	assert.NotContains(t, view, "edit")

	m, cmd := press(t, m, "e")
	assert.Nil(t, cmd)
	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind)
}

func TestWaterScreen_AmountMustBeWhole(t *testing.T) {
	f := newFixture(t, "user")
	m := manage[v1.WaterIntake, v1.WaterIntakeInput](t, f, "water")

	m, _ = press(t, m, "n", "2.5")
	m, _ = press(t, m, "enter")
	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "amount (ml) must be a whole number", n.Message)
}

func TestAppointmentsScreen_OnlyPendingCanBeCancelled(t *testing.T) {
	f := newFixture(t, "user")
	doctor := f.srv.Insert(apitest.KindDoctors, "", map[string]any{"name": "Dr. Lee", "specialty": "GP"})
	f.srv.Insert(apitest.KindAppointments, f.user.ID, map[string]any{
		"doctorId": doctor, "appointmentDate": "2026-11-02", "appointmentTime": "09:00-09:30",
		"patientName": "Ann", "phoneNumber": "0901", "status": "approved",
	})
	m := manage[v1.Appointment, v1.AppointmentInput](t, f, "appointments")
	require.Len(t, m.state.Items, 1)
	assert.Contains(t, m.View(), "Dr. Lee")
	assert.Contains(t, m.View(), "cancel")

	m, _ = press(t, m, "d")
	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind, "approved appointments are not cancellable")
}

func TestAppointmentsScreen_CancelPending(t *testing.T) {
	f := newFixture(t, "user")
	doctor := f.srv.Insert(apitest.KindDoctors, "", map[string]any{"name": "Dr. Lee", "specialty": "GP"})
	f.srv.Insert(apitest.KindAppointments, f.user.ID, map[string]any{
		"doctorId": doctor, "appointmentDate": "2026-11-02", "appointmentTime": "09:00-09:30",
		"patientName": "Ann", "phoneNumber": "0901", "status": "pending",
	})
	m := manage[v1.Appointment, v1.AppointmentInput](t, f, "appointments")

	m, _ = press(t, m, "d")
	require.Equal(t, crud.ModalDelete, m.state.Modal.Kind)
	assert.Contains(t, m.View(), "Cancel the appointment on 2026-11-02")

	m, cmd := press(t, m, "y")
	m = exec(t, m, cmd)

	n, _ := m.Notice()
	assert.Equal(t, "appointment cancelled", n.Message)
	assert.Equal(t, v1.StatusCancelled, m.state.Items[0].Status)
}

func TestDoctorsScreen_ReadOnlyForPatients(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindDoctors, "", map[string]any{"name": "Dr. Lee", "specialty": "GP", "status": "available"})
	m := manage[v1.Doctor, v1.DoctorInput](t, f, "doctors")
	require.Len(t, m.state.Items, 1)

	for _, k := range []string{"n", "e", "d"} {
		next, cmd := press(t, m, k)
		assert.Nil(t, cmd, k)
		assert.Equal(t, crud.ModalNone, next.state.Modal.Kind, k)
	}

	m, _ = press(t, m, "enter")
	require.Equal(t, crud.ModalDetail, m.state.Modal.Kind)
	assert.Contains(t, m.View(), "GP")
}

func TestUsersScreen_DeleteAccount(t *testing.T) {
	f := newFixture(t, v1.RoleAdmin)
	f.srv.AddUser("Bob", "bob@example.com", "secret1", v1.RoleUser)
	m := manage[v1.User, crud.NoForm](t, f, "users")
	require.Len(t, m.state.Items, 2)

	_, cmd := press(t, m, "n")
	assert.Nil(t, cmd, "accounts are not created here")

	// Newest first: Bob is at the top.
	require.Equal(t, "bob@example.com", m.state.Items[0].Email)
	m, _ = press(t, m, "d")
	assert.Contains(t, m.View(), "Delete the account of bob@example.com?")

	m, cmd = press(t, m, "y")
	m = exec(t, m, cmd)

	require.Len(t, m.state.Items, 1)
	assert.Equal(t, f.user.ID, m.state.Items[0].ID)
}
