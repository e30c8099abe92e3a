package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/healthdash/internal/crud"
	"github.com/fyrsmithlabs/healthdash/internal/reports"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Managed lists the resources Manage accepts.
var Managed = []string{
	"records", "reminders", "goals", "appointments", "doctors",
	"exercise", "sleep", "water", "users",
}

// Manage builds the manager screen for the named resource. Doctors are
// read-only and users unavailable unless admin is set.
func Manage(ctx context.Context, reg services.Registry, name string, admin bool, opts ...crud.Option) (tea.Model, error) {
	switch name {
	case "records":
		return mount(ctx, RecordsScreen(), crud.Records(reg.Records()), crud.RecordForm(), opts), nil
	case "reminders":
		return mount(ctx, RemindersScreen(), crud.Reminders(reg.Reminders()), crud.ReminderForm(), opts), nil
	case "goals":
		return mount(ctx, GoalsScreen(), crud.Goals(reg.Goals()), crud.GoalForm(), opts), nil
	case "appointments":
		return mount(ctx, AppointmentsScreen(), crud.Appointments(reg.Appointments()), crud.AppointmentForm(), opts), nil
	case "doctors":
		res := crud.Doctors(reg.Doctors())
		if !admin {
			res = crud.Funcs[v1.Doctor, v1.DoctorInput]{ListFn: res.ListFn}
		}
		return mount(ctx, DoctorsScreen(), res, crud.DoctorForm(), opts), nil
	case "exercise":
		return mount(ctx, ExerciseScreen(), crud.Exercise(reg.Exercise()), crud.ExerciseForm(), opts), nil
	case "sleep":
		return mount(ctx, SleepScreen(), crud.Sleep(reg.Sleep()), crud.SleepForm(), opts), nil
	case "water":
		return mount(ctx, WaterScreen(), crud.Water(reg.Water()), crud.WaterForm(), opts), nil
	case "users":
		if !admin {
			return nil, fmt.Errorf("managing users needs an admin account")
		}
		return mount(ctx, UsersScreen(), crud.Users(reg.Users()), crud.UserForm(), opts), nil
	}
	return nil, fmt.Errorf("unknown resource %q (use %s)", name, strings.Join(Managed, ", "))
}

func mount[T any, F crud.Validator](ctx context.Context, screen Screen[T, F], res crud.Resource[T, F], form crud.Form[T, F], opts []crud.Option) ManagerModel[T, F] {
	notes := &crud.Log{}
	page := crud.New(ctx, screen.Noun, res, form, notes, opts...)
	return NewManagerModel(screen, page, notes)
}

// isoDate trims a timestamp to YYYY-MM-DD.
func isoDate(s string) string {
	if d, _, ok := strings.Cut(s, "T"); ok {
		return d
	}
	return s
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func RemindersScreen() Screen[v1.Reminder, v1.ReminderInput] {
	type form = v1.ReminderInput
	return Screen[v1.Reminder, v1.ReminderInput]{
		Title: "Reminders",
		Noun:  "reminder",
		Empty: "No reminders yet. Press n to add one.",
		Columns: []Column[v1.Reminder]{
			{Title: "TITLE", Width: 22, Cell: func(r v1.Reminder) string { return r.Title }},
			{Title: "TYPE", Width: 10, Cell: func(r v1.Reminder) string { return reports.ReminderTypeLabel(r.Type) }},
			{Title: "TIME", Width: 6, Cell: func(r v1.Reminder) string { return r.Time }},
			{Title: "ACTIVE", Width: 7, Cell: func(r v1.Reminder) string {
				if r.IsActive {
					return "yes"
				}
				return "no"
			}},
			{Title: "DAYS", Cell: func(r v1.Reminder) string { return reports.DayNames(r.DaysOfWeek) }},
		},
		Fields: []Field[form]{
			textField("Title", "Take vitamins", func(f form) string { return f.Title }, func(f *form, v string) { f.Title = v }),
			textField("Time", "08:00", func(f form) string { return f.Time }, func(f *form, v string) { f.Time = v }),
			daysField("Days (0=Sun)", func(f form) []int { return f.DaysOfWeek }, func(f *form, v []int) { f.DaysOfWeek = v }),
			textField("Type", "medicine", func(f form) string { return string(f.Type) }, func(f *form, v string) { f.Type = v1.ReminderType(v) }),
			yesNoField("Active", func(f form) bool { return f.IsActive }, func(f *form, v bool) { f.IsActive = v }),
			textField("Description", "optional", func(f form) string { return f.Description }, func(f *form, v string) { f.Description = v }),
		},
	}
}

func GoalsScreen() Screen[v1.HealthGoal, v1.HealthGoalInput] {
	type form = v1.HealthGoalInput
	return Screen[v1.HealthGoal, v1.HealthGoalInput]{
		Title: "Health goals",
		Noun:  "goal",
		Empty: "No goals yet. Press n to set one.",
		Columns: []Column[v1.HealthGoal]{
			{Title: "TITLE", Width: 22, Cell: func(g v1.HealthGoal) string { return g.Title }},
			{Title: "PROGRESS", Width: 9, Cell: func(g v1.HealthGoal) string { return fmt.Sprintf("%.0f%%", g.Progress) }},
			{Title: "VALUE", Width: 16, Cell: func(g v1.HealthGoal) string {
				return fmt.Sprintf("%g/%g %s", g.CurrentValue, g.TargetValue, g.Unit)
			}},
			{Title: "STATUS", Width: 10, Cell: func(g v1.HealthGoal) string { return string(g.Status) }},
			{Title: "ENDS", Cell: func(g v1.HealthGoal) string { return orPlaceholder(isoDate(g.EndDate)) }},
		},
		Fields: []Field[form]{
			textField("Title", "Lose weight", func(f form) string { return f.Title }, func(f *form, v string) { f.Title = v }),
			numberField("Target", "65", func(f form) float64 { return f.TargetValue }, func(f *form, v float64) { f.TargetValue = v }),
			textField("Unit", "kg", func(f form) string { return f.Unit }, func(f *form, v string) { f.Unit = v }),
			textField("Type", "weight", func(f form) string { return f.Type }, func(f *form, v string) { f.Type = v }),
			textField("End date", "YYYY-MM-DD", func(f form) string { return isoDate(f.EndDate) }, func(f *form, v string) { f.EndDate = v }),
			textField("Status", "active", func(f form) string { return string(f.Status) }, func(f *form, v string) { f.Status = v1.GoalStatus(v) }),
			textField("Description", "optional", func(f form) string { return f.Description }, func(f *form, v string) { f.Description = v }),
		},
	}
}

func AppointmentsScreen() Screen[v1.Appointment, v1.AppointmentInput] {
	type form = v1.AppointmentInput
	return Screen[v1.Appointment, v1.AppointmentInput]{
		Title: "My appointments",
		Noun:  "appointment",
		Empty: "No appointments yet. Press n to book one.",
		Columns: []Column[v1.Appointment]{
			{Title: "DATE", Width: 11, Cell: func(a v1.Appointment) string { return isoDate(a.AppointmentDate) }},
			{Title: "TIME", Width: 12, Cell: func(a v1.Appointment) string { return a.AppointmentTime }},
			{Title: "DOCTOR", Width: 20, Cell: func(a v1.Appointment) string {
				if name := a.Doctor.Name(); name != "" {
					return name
				}
				return a.Doctor.ID
			}},
			{Title: "STATUS", Width: 10, Cell: func(a v1.Appointment) string { return string(a.Status) }},
			{Title: "NOTE", Cell: func(a v1.Appointment) string { return Truncate(a.AdminNote, 30) }},
		},
		Fields: []Field[form]{
			textField("Doctor ID", "from healthctl doctors available", func(f form) string { return f.DoctorID }, func(f *form, v string) { f.DoctorID = v }),
			textField("Date", "YYYY-MM-DD", func(f form) string { return f.AppointmentDate }, func(f *form, v string) { f.AppointmentDate = v }),
			textField("Time", "09:00-09:30", func(f form) string { return f.AppointmentTime }, func(f *form, v string) { f.AppointmentTime = v }),
			textField("Patient name", "Ann Smith", func(f form) string { return f.PatientName }, func(f *form, v string) { f.PatientName = v }),
			textField("Phone", "0901234567", func(f form) string { return f.PhoneNumber }, func(f *form, v string) { f.PhoneNumber = v }),
			textField("Description", "optional", func(f form) string { return f.Description }, func(f *form, v string) { f.Description = v }),
		},
		Confirm: func(a v1.Appointment) string {
			return fmt.Sprintf("Cancel the appointment on %s at %s?", isoDate(a.AppointmentDate), a.AppointmentTime)
		},
		Deletable: func(a v1.Appointment) bool { return a.Status.Cancellable() },
		Remove:    "cancel",
	}
}

func DoctorsScreen() Screen[v1.Doctor, v1.DoctorInput] {
	type form = v1.DoctorInput
	return Screen[v1.Doctor, v1.DoctorInput]{
		Title: "Doctors",
		Noun:  "doctor",
		Empty: "No doctors listed.",
		Columns: []Column[v1.Doctor]{
			{Title: "NAME", Width: 22, Cell: func(d v1.Doctor) string { return d.Name }},
			{Title: "SPECIALTY", Width: 16, Cell: func(d v1.Doctor) string { return d.Specialty }},
			{Title: "STATUS", Width: 10, Cell: func(d v1.Doctor) string { return string(d.Status) }},
			{Title: "SLOTS", Cell: func(d v1.Doctor) string { return orPlaceholder(strings.Join(d.AvailableSlots, " ")) }},
		},
		Fields: []Field[form]{
			textField("Name", "Dr. Lee", func(f form) string { return f.Name }, func(f *form, v string) { f.Name = v }),
			textField("Specialty", "Cardiology", func(f form) string { return f.Specialty }, func(f *form, v string) { f.Specialty = v }),
			textField("Qualification", "optional", func(f form) string { return f.Qualification }, func(f *form, v string) { f.Qualification = v }),
			listField("Slots", "09:00-09:30,10:00-10:30", func(f form) []string { return f.AvailableSlots }, func(f *form, v []string) { f.AvailableSlots = v }),
			textField("Status", "available", func(f form) string { return string(f.Status) }, func(f *form, v string) { f.Status = v1.DoctorStatus(v) }),
		},
	}
}

func ExerciseScreen() Screen[v1.ExerciseLog, v1.ExerciseInput] {
	type form = v1.ExerciseInput
	return Screen[v1.ExerciseLog, v1.ExerciseInput]{
		Title: "Exercise log",
		Noun:  "exercise log",
		Empty: "No workouts logged. Press n to add one.",
		Columns: []Column[v1.ExerciseLog]{
			{Title: "DATE", Width: 11, Cell: func(e v1.ExerciseLog) string { return isoDate(e.ExerciseDate) }},
			{Title: "NAME", Width: 18, Cell: func(e v1.ExerciseLog) string { return e.ExerciseName }},
			{Title: "MIN", Width: 5, Cell: func(e v1.ExerciseLog) string { return fmt.Sprint(e.Duration) }},
			{Title: "INTENSITY", Width: 10, Cell: func(e v1.ExerciseLog) string { return e.Intensity }},
			{Title: "KCAL", Cell: func(e v1.ExerciseLog) string { return FormatOptional(e.CaloriesBurned, 0, "") }},
		},
		Fields: []Field[form]{
			textField("Name", "Morning run", func(f form) string { return f.ExerciseName }, func(f *form, v string) { f.ExerciseName = v }),
			intField("Duration (min)", "30", func(f form) int { return f.Duration }, func(f *form, v int) { f.Duration = v }),
			textField("Type", "running", func(f form) string { return f.ExerciseType }, func(f *form, v string) { f.ExerciseType = v }),
			textField("Intensity", "moderate", func(f form) string { return f.Intensity }, func(f *form, v string) { f.Intensity = v }),
			floatField("Calories", "250", func(f form) *float64 { return f.CaloriesBurned }, func(f *form, v *float64) { f.CaloriesBurned = v }),
			floatField("Distance (km)", "5", func(f form) *float64 { return f.Distance }, func(f *form, v *float64) { f.Distance = v }),
			textField("Date", "YYYY-MM-DD", func(f form) string { return f.ExerciseDate }, func(f *form, v string) { f.ExerciseDate = v }),
			textField("Note", "optional", func(f form) string { return f.Note }, func(f *form, v string) { f.Note = v }),
		},
	}
}

func SleepScreen() Screen[v1.SleepEntry, v1.SleepInput] {
	type form = v1.SleepInput
	return Screen[v1.SleepEntry, v1.SleepInput]{
		Title: "Sleep tracker",
		Noun:  "sleep entry",
		Empty: "No nights logged. Press n to add one.",
		Columns: []Column[v1.SleepEntry]{
			{Title: "DATE", Width: 11, Cell: func(s v1.SleepEntry) string { return isoDate(s.SleepDate) }},
			{Title: "BED", Width: 6, Cell: func(s v1.SleepEntry) string { return s.Bedtime }},
			{Title: "WAKE", Width: 6, Cell: func(s v1.SleepEntry) string { return s.WakeTime }},
			{Title: "SLEPT", Width: 7, Cell: func(s v1.SleepEntry) string {
				if s.Duration <= 0 {
					return Placeholder
				}
				return fmt.Sprintf("%dh%02dm", s.Duration/60, s.Duration%60)
			}},
			{Title: "QUALITY", Cell: func(s v1.SleepEntry) string { return s.Quality }},
		},
		Fields: []Field[form]{
			textField("Date", "YYYY-MM-DD", func(f form) string { return f.SleepDate }, func(f *form, v string) { f.SleepDate = v }),
			textField("Bedtime", "22:30", func(f form) string { return f.Bedtime }, func(f *form, v string) { f.Bedtime = v }),
			textField("Wake time", "06:45", func(f form) string { return f.WakeTime }, func(f *form, v string) { f.WakeTime = v }),
			textField("Quality", "good", func(f form) string { return f.Quality }, func(f *form, v string) { f.Quality = v }),
			intField("Wake-ups", "0", func(f form) int { return f.WakeUpCount }, func(f *form, v int) { f.WakeUpCount = v }),
			textField("Note", "optional", func(f form) string { return f.Note }, func(f *form, v string) { f.Note = v }),
		},
	}
}

func WaterScreen() Screen[v1.WaterIntake, v1.WaterIntakeInput] {
	type form = v1.WaterIntakeInput
	return Screen[v1.WaterIntake, v1.WaterIntakeInput]{
		Title: "Water intake",
		Noun:  "water entry",
		Empty: "No water logged. Press n to log a drink.",
		Columns: []Column[v1.WaterIntake]{
			{Title: "DATE", Width: 11, Cell: func(w v1.WaterIntake) string { return isoDate(w.Date) }},
			{Title: "AMOUNT", Width: 9, Cell: func(w v1.WaterIntake) string { return fmt.Sprintf("%d ml", w.Amount) }},
			{Title: "NOTE", Cell: func(w v1.WaterIntake) string { return Truncate(w.Note, 30) }},
		},
		Fields: []Field[form]{
			intField("Amount (ml)", "250", func(f form) int { return f.Amount }, func(f *form, v int) { f.Amount = v }),
			textField("Date", "YYYY-MM-DD", func(f form) string { return f.Date }, func(f *form, v string) { f.Date = v }),
			textField("Note", "optional", func(f form) string { return f.Note }, func(f *form, v string) { f.Note = v }),
		},
	}
}

func UsersScreen() Screen[v1.User, crud.NoForm] {
	return Screen[v1.User, crud.NoForm]{
		Title: "Users",
		Noun:  "user",
		Empty: "No users.",
		Columns: []Column[v1.User]{
			{Title: "NAME", Width: 20, Cell: func(u v1.User) string { return u.Name }},
			{Title: "EMAIL", Width: 28, Cell: func(u v1.User) string { return u.Email }},
			{Title: "ROLE", Width: 6, Cell: func(u v1.User) string { return string(u.Role) }},
			{Title: "JOINED", Cell: func(u v1.User) string { return FormatDate(u.CreatedAt) }},
		},
		Confirm: func(u v1.User) string { return fmt.Sprintf("Delete the account of %s?", u.Email) },
	}
}
