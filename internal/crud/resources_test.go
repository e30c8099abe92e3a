package crud

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

type adapterFixture struct {
	srv  *apitest.Server
	user v1.User
	reg  services.Registry
}

func newAdapterFixture(t *testing.T, role v1.Role) *adapterFixture {
	t.Helper()
	srv, url := apitest.Start(t)
	user, token := srv.AddUser("Ann", "ann@example.com", "secret1", role)
	client, store := apitest.NewClient(t, url, token, user)
	return &adapterFixture{
		srv:  srv,
		user: user,
		reg:  services.NewRegistry(services.Options{Client: client, Store: store}),
	}
}

func newTestPage[T any, F Validator](t *testing.T, name string, res Resource[T, F], form Form[T, F]) (*Page[T, F], *Log) {
	t.Helper()
	log := &Log{}
	page := New(context.Background(), name, res, form, log)
	t.Cleanup(page.Dispose)
	require.NoError(t, page.FetchList(1))
	return page, log
}

// lastMessage returns the text of the most recent notification.
func lastMessage(t *testing.T, log *Log) string {
	t.Helper()
	n, ok := log.Last()
	require.True(t, ok, "expected a notification")
	return n.Message
}

// createEditDelete drives a page through create, edit and delete and
// checks the refetched list after each step. label reads the field edit
// changes.
func createEditDelete[T any, F Validator](t *testing.T, page *Page[T, F], log *Log, name string,
	fill func(*F), edit func(*F), label func(T) string, before, after string) {
	t.Helper()

	page.OpenCreate()
	form := page.State().Form
	fill(&form)
	require.NoError(t, page.Submit(form))
	assert.Equal(t, name+" created", lastMessage(t, log))

	items := page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, before, label(items[0]))

	page.OpenEdit(items[0])
	form = page.State().Form
	edit(&form)
	require.NoError(t, page.Submit(form))
	assert.Equal(t, name+" updated", lastMessage(t, log))

	items = page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, after, label(items[0]))

	require.NoError(t, page.ConfirmDelete(items[0]))
	assert.Equal(t, name+" deleted", lastMessage(t, log))
	assert.Empty(t, page.State().Items)
}

func TestRemindersAdapter_CreateEditDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "reminder", Reminders(f.reg.Reminders()), ReminderForm())

	createEditDelete(t, page, log, "reminder",
		func(in *v1.ReminderInput) { in.Title = "Pills" },
		func(in *v1.ReminderInput) { in.Time = "21:30" },
		func(r v1.Reminder) string { return r.Title + " " + r.Time },
		"Pills 08:00", "Pills 21:30")
}

func TestGoalsAdapter_CreateEditDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "goal", Goals(f.reg.Goals()), GoalForm())

	createEditDelete(t, page, log, "goal",
		func(in *v1.HealthGoalInput) {
			in.Title = "Lose weight"
			in.TargetValue = 65
			in.Unit = "kg"
		},
		func(in *v1.HealthGoalInput) { in.TargetValue = 63 },
		func(g v1.HealthGoal) string { return fmt.Sprintf("%s %g %s", g.Title, g.TargetValue, g.Unit) },
		"Lose weight 65 kg", "Lose weight 63 kg")
}

func TestDoctorsAdapter_CreateEditDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleAdmin)
	page, log := newTestPage(t, "doctor", Doctors(f.reg.Doctors()), DoctorForm())

	createEditDelete(t, page, log, "doctor",
		func(in *v1.DoctorInput) {
			in.Name = "Dr. Lee"
			in.Specialty = "Cardiology"
			in.AvailableSlots = []string{"09:00-09:30"}
		},
		func(in *v1.DoctorInput) { in.Status = v1.DoctorBusy },
		func(d v1.Doctor) string { return d.Name + " " + string(d.Status) },
		"Dr. Lee available", "Dr. Lee busy")
}

func TestDoctorsAdapter_PatientCannotCreate(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "doctor", Doctors(f.reg.Doctors()), DoctorForm())

	page.OpenCreate()
	require.Error(t, page.Submit(v1.DoctorInput{Name: "Dr. Lee", Specialty: "GP"}))
	assert.Equal(t, ModalCreate, page.State().Modal.Kind)
	n, _ := log.Last()
	assert.Equal(t, Failure, n.Level)
	assert.Zero(t, f.srv.Count(apitest.KindDoctors))
}

func TestExerciseAdapter_CreateEditDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "exercise log", Exercise(f.reg.Exercise()), ExerciseForm())

	createEditDelete(t, page, log, "exercise log",
		func(in *v1.ExerciseInput) {
			in.ExerciseName = "Morning run"
			in.Duration = 30
		},
		func(in *v1.ExerciseInput) { in.Intensity = v1.IntensityHigh },
		func(e v1.ExerciseLog) string { return e.ExerciseName + " " + e.Intensity },
		"Morning run moderate", "Morning run high")
}

func TestSleepAdapter_CreateEditDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "sleep entry", Sleep(f.reg.Sleep()), SleepForm())

	createEditDelete(t, page, log, "sleep entry",
		func(in *v1.SleepInput) { in.Note = "late dinner" },
		func(in *v1.SleepInput) { in.Quality = "poor" },
		func(s v1.SleepEntry) string { return s.Bedtime + " " + s.Quality },
		"22:00 good", "22:00 poor")
}

func TestWaterAdapter_CreateAndDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	page, log := newTestPage(t, "water entry", Water(f.reg.Water()), WaterForm())

	assert.True(t, page.Supports(OpCreate))
	assert.False(t, page.Supports(OpUpdate))
	assert.True(t, page.Supports(OpDelete))

	page.OpenCreate()
	form := page.State().Form
	assert.NotEmpty(t, form.Date, "blank form is dated today")
	form.Amount = 250
	require.NoError(t, page.Submit(form))
	assert.Equal(t, "water entry created", lastMessage(t, log))

	items := page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, 250, items[0].Amount)

	before := f.srv.Requests()
	page.OpenEdit(items[0])
	require.ErrorIs(t, page.Submit(page.State().Form), ErrUnsupported)
	assert.Equal(t, before, f.srv.Requests(), "nothing sent")
	assert.Equal(t, ModalEdit, page.State().Modal.Kind)

	require.NoError(t, page.ConfirmDelete(items[0]))
	assert.Equal(t, "water entry deleted", lastMessage(t, log))
	assert.Empty(t, page.State().Items)
}

func TestAppointmentsAdapter_BookAndCancel(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleUser)
	doctor := f.srv.Insert(apitest.KindDoctors, "", map[string]any{"name": "Dr. Lee", "specialty": "GP", "status": "available"})
	page, log := newTestPage(t, "appointment", Appointments(f.reg.Appointments()), AppointmentForm())

	assert.False(t, page.Supports(OpUpdate))

	page.OpenCreate()
	form := page.State().Form
	form.DoctorID = doctor
	form.AppointmentTime = "09:00-09:30"
	form.PatientName = "Ann"
	form.PhoneNumber = "0901234567"
	require.NoError(t, page.Submit(form))
	assert.Equal(t, "appointment created", lastMessage(t, log))

	items := page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, v1.StatusPending, items[0].Status)
	assert.Equal(t, "Dr. Lee", items[0].Doctor.Name())

	require.NoError(t, page.ConfirmDelete(items[0]))
	assert.Equal(t, "appointment cancelled", lastMessage(t, log))

	items = page.State().Items
	require.Len(t, items, 1, "cancelled appointments stay listed")
	assert.Equal(t, v1.StatusCancelled, items[0].Status)

	require.Error(t, page.ConfirmDelete(items[0]), "a cancelled appointment cannot be cancelled again")
	n, _ := log.Last()
	assert.Equal(t, Failure, n.Level)
}

func TestUsersAdapter_ListAndDelete(t *testing.T) {
	f := newAdapterFixture(t, v1.RoleAdmin)
	other, _ := f.srv.AddUser("Bob", "bob@example.com", "secret1", v1.RoleUser)
	page, log := newTestPage(t, "user", Users(f.reg.Users()), UserForm())

	assert.False(t, page.Supports(OpCreate))
	assert.False(t, page.Supports(OpUpdate))
	require.Len(t, page.State().Items, 2)

	page.OpenCreate()
	require.ErrorIs(t, page.Submit(NoForm{}), ErrUnsupported)
	assert.Equal(t, "user: operation not supported", lastMessage(t, log))
	page.Close()

	require.NoError(t, page.ConfirmDelete(other))
	assert.Equal(t, "user deleted", lastMessage(t, log))

	items := page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, f.user.ID, items[0].ID)
}
