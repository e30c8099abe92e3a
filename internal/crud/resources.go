package crud

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Funcs implements Resource with plain functions. A nil function marks the
// operation as unsupported.
type Funcs[T any, F Validator] struct {
	ListFn   func(context.Context, v1.ListQuery) (v1.Page[T], error)
	CreateFn func(context.Context, F) error
	UpdateFn func(context.Context, string, F) error
	DeleteFn func(context.Context, string) error
}

func (f Funcs[T, F]) List(ctx context.Context, q v1.ListQuery) (v1.Page[T], error) {
	return f.ListFn(ctx, q)
}

func (f Funcs[T, F]) Create(ctx context.Context, in F) error {
	if f.CreateFn == nil {
		return ErrUnsupported
	}
	return f.CreateFn(ctx, in)
}

func (f Funcs[T, F]) Update(ctx context.Context, id string, in F) error {
	if f.UpdateFn == nil {
		return ErrUnsupported
	}
	return f.UpdateFn(ctx, id, in)
}

func (f Funcs[T, F]) Delete(ctx context.Context, id string) error {
	if f.DeleteFn == nil {
		return ErrUnsupported
	}
	return f.DeleteFn(ctx, id)
}

func (f Funcs[T, F]) Supports(op Op) bool {
	switch op {
	case OpCreate:
		return f.CreateFn != nil
	case OpUpdate:
		return f.UpdateFn != nil
	case OpDelete:
		return f.DeleteFn != nil
	}
	return false
}

// NoForm is the form of resources that cannot be created or edited.
type NoForm struct{}

func (NoForm) Validate() error { return nil }

func discard[T any, A any](fn func(context.Context, A) (T, error)) func(context.Context, A) error {
	return func(ctx context.Context, in A) error {
		_, err := fn(ctx, in)
		return err
	}
}

func discardID[T any, A any](fn func(context.Context, string, A) (T, error)) func(context.Context, string, A) error {
	return func(ctx context.Context, id string, in A) error {
		_, err := fn(ctx, id, in)
		return err
	}
}

func today() string { return time.Now().Format(v1.DateLayout) }

// Records adapts the health record wrapper.
func Records(s *services.Records) Funcs[v1.HealthRecord, v1.HealthRecordInput] {
	return Funcs[v1.HealthRecord, v1.HealthRecordInput]{
		ListFn: func(ctx context.Context, q v1.ListQuery) (v1.Page[v1.HealthRecord], error) {
			return s.List(ctx, v1.RecordQuery{ListQuery: q})
		},
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

// RecordForm relates records to their form.
func RecordForm() Form[v1.HealthRecord, v1.HealthRecordInput] {
	return Form[v1.HealthRecord, v1.HealthRecordInput]{
		Blank:    func() v1.HealthRecordInput { return v1.HealthRecordInput{} },
		FromItem: v1.InputFromRecord,
		ID:       func(r v1.HealthRecord) string { return r.ID },
	}
}

// Reminders adapts the reminder wrapper.
func Reminders(s *services.Reminders) Funcs[v1.Reminder, v1.ReminderInput] {
	return Funcs[v1.Reminder, v1.ReminderInput]{
		ListFn: func(ctx context.Context, q v1.ListQuery) (v1.Page[v1.Reminder], error) {
			return s.List(ctx, v1.ReminderQuery{ListQuery: q})
		},
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

// ReminderForm relates reminders to their form. Day lists are sorted
// before validation.
func ReminderForm() Form[v1.Reminder, v1.ReminderInput] {
	return Form[v1.Reminder, v1.ReminderInput]{
		Blank:    v1.NewReminderInput,
		FromItem: v1.InputFromReminder,
		ID:       func(r v1.Reminder) string { return r.ID },
		Prepare: func(in v1.ReminderInput) v1.ReminderInput {
			in.Normalize()
			return in
		},
	}
}

// Goals adapts the health goal wrapper.
func Goals(s *services.Goals) Funcs[v1.HealthGoal, v1.HealthGoalInput] {
	return Funcs[v1.HealthGoal, v1.HealthGoalInput]{
		ListFn:   s.List,
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

func GoalForm() Form[v1.HealthGoal, v1.HealthGoalInput] {
	return Form[v1.HealthGoal, v1.HealthGoalInput]{
		Blank:    v1.NewHealthGoalInput,
		FromItem: v1.InputFromGoal,
		ID:       func(g v1.HealthGoal) string { return g.ID },
	}
}

// Doctors adapts the doctor wrapper. Mutations need an admin session.
func Doctors(s *services.Doctors) Funcs[v1.Doctor, v1.DoctorInput] {
	return Funcs[v1.Doctor, v1.DoctorInput]{
		ListFn:   s.List,
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

func DoctorForm() Form[v1.Doctor, v1.DoctorInput] {
	return Form[v1.Doctor, v1.DoctorInput]{
		Blank:    func() v1.DoctorInput { return v1.DoctorInput{Status: v1.DoctorAvailable} },
		FromItem: v1.InputFromDoctor,
		ID:       func(d v1.Doctor) string { return d.ID },
	}
}

// Exercise adapts the exercise log wrapper.
func Exercise(s *services.Exercise) Funcs[v1.ExerciseLog, v1.ExerciseInput] {
	return Funcs[v1.ExerciseLog, v1.ExerciseInput]{
		ListFn:   s.List,
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

// ExerciseForm's blank form is dated today.
func ExerciseForm() Form[v1.ExerciseLog, v1.ExerciseInput] {
	return Form[v1.ExerciseLog, v1.ExerciseInput]{
		Blank:    func() v1.ExerciseInput { return v1.NewExerciseInput(today()) },
		FromItem: v1.InputFromExercise,
		ID:       func(e v1.ExerciseLog) string { return e.ID },
	}
}

// Sleep adapts the sleep tracker wrapper.
func Sleep(s *services.Sleep) Funcs[v1.SleepEntry, v1.SleepInput] {
	return Funcs[v1.SleepEntry, v1.SleepInput]{
		ListFn:   s.List,
		CreateFn: discard(s.Create),
		UpdateFn: discardID(s.Update),
		DeleteFn: s.Delete,
	}
}

func SleepForm() Form[v1.SleepEntry, v1.SleepInput] {
	return Form[v1.SleepEntry, v1.SleepInput]{
		Blank:    func() v1.SleepInput { return v1.NewSleepInput(today()) },
		FromItem: v1.InputFromSleep,
		ID:       func(s v1.SleepEntry) string { return s.ID },
	}
}

// Water adapts the water intake wrapper. Logged drinks are not editable.
func Water(s *services.Water) Funcs[v1.WaterIntake, v1.WaterIntakeInput] {
	return Funcs[v1.WaterIntake, v1.WaterIntakeInput]{
		ListFn:   s.List,
		CreateFn: discard(s.Add),
		DeleteFn: s.Delete,
	}
}

func WaterForm() Form[v1.WaterIntake, v1.WaterIntakeInput] {
	return Form[v1.WaterIntake, v1.WaterIntakeInput]{
		Blank: func() v1.WaterIntakeInput { return v1.WaterIntakeInput{Date: today()} },
		FromItem: func(w v1.WaterIntake) v1.WaterIntakeInput {
			return v1.WaterIntakeInput{Amount: w.Amount, Date: w.Date, Note: w.Note}
		},
		ID: func(w v1.WaterIntake) string { return w.ID },
	}
}

// Appointments adapts the patient's own appointments. Creating books a
// slot and deleting cancels it; the server decides whether a cancellation
// is still allowed.
func Appointments(s *services.Appointments) Funcs[v1.Appointment, v1.AppointmentInput] {
	return Funcs[v1.Appointment, v1.AppointmentInput]{
		ListFn: func(ctx context.Context, q v1.ListQuery) (v1.Page[v1.Appointment], error) {
			return s.Mine(ctx, v1.AppointmentQuery{ListQuery: q})
		},
		CreateFn: discard(s.Book),
		DeleteFn: func(ctx context.Context, id string) error {
			_, err := s.Cancel(ctx, id)
			return err
		},
	}
}

func AppointmentForm() Form[v1.Appointment, v1.AppointmentInput] {
	return Form[v1.Appointment, v1.AppointmentInput]{
		Blank: func() v1.AppointmentInput { return v1.AppointmentInput{AppointmentDate: today()} },
		FromItem: func(a v1.Appointment) v1.AppointmentInput {
			return v1.AppointmentInput{
				DoctorID:        a.Doctor.ID,
				AppointmentDate: a.AppointmentDate,
				AppointmentTime: a.AppointmentTime,
				PatientName:     a.PatientName,
				PhoneNumber:     a.PhoneNumber,
				Description:     a.Description,
			}
		},
		ID:      func(a v1.Appointment) string { return a.ID },
		Removed: "cancelled",
	}
}

// Users adapts the admin user list. Accounts can only be removed here.
func Users(s *services.Users) Funcs[v1.User, NoForm] {
	return Funcs[v1.User, NoForm]{
		ListFn:   s.List,
		DeleteFn: s.Delete,
	}
}

func UserForm() Form[v1.User, NoForm] {
	return Form[v1.User, NoForm]{
		Blank:    func() NoForm { return NoForm{} },
		FromItem: func(v1.User) NoForm { return NoForm{} },
		ID:       func(u v1.User) string { return u.ID },
	}
}
