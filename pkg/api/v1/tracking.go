package v1

import (
	"fmt"
	"strings"
)

// Statistics is a server-defined summary for a period. Its keys differ per
// resource and are shown as-is.
type Statistics map[string]any

// PeriodQuery selects the statistics window: week, month or year.
type PeriodQuery struct {
	Period string `url:"period,omitempty"`
}

// ValidPeriod reports whether p is an accepted statistics period.
func ValidPeriod(p string) bool {
	return p == "week" || p == "month" || p == "year"
}

// WaterIntake is one logged drink in millilitres.
type WaterIntake struct {
	ID     string `json:"_id"`
	Amount int    `json:"amount"`
	Date   string `json:"date"`
	Note   string `json:"note,omitempty"`
}

// WaterIntakeInput is the log-water form.
type WaterIntakeInput struct {
	Amount int    `json:"amount"`
	Date   string `json:"date,omitempty"`
	Note   string `json:"note,omitempty"`
}

func (in WaterIntakeInput) Validate() error {
	if in.Amount <= 0 {
		return invalid("amount must be a positive number of millilitres")
	}
	return nil
}

// DailyWater is the total intake for one day.
type DailyWater struct {
	Date  string `json:"date,omitempty"`
	Total int    `json:"total"`
}

// DailyQuery selects a calendar day; empty means today on the server.
type DailyQuery struct {
	Date string `url:"date,omitempty"`
}

// Exercise intensities.
const (
	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"
)

// ExerciseLog is one workout. Duration is in minutes, distance in km.
type ExerciseLog struct {
	ID             string   `json:"_id"`
	ExerciseType   string   `json:"exerciseType"`
	ExerciseName   string   `json:"exerciseName"`
	Duration       int      `json:"duration"`
	Intensity      string   `json:"intensity"`
	CaloriesBurned *float64 `json:"caloriesBurned,omitempty"`
	Distance       *float64 `json:"distance,omitempty"`
	ExerciseDate   string   `json:"exerciseDate"`
	Note           string   `json:"note,omitempty"`
}

// ExerciseInput is the create/update form for a workout.
type ExerciseInput struct {
	ExerciseType   string   `json:"exerciseType"`
	ExerciseName   string   `json:"exerciseName"`
	Duration       int      `json:"duration"`
	Intensity      string   `json:"intensity"`
	CaloriesBurned *float64 `json:"caloriesBurned,omitempty"`
	Distance       *float64 `json:"distance,omitempty"`
	ExerciseDate   string   `json:"exerciseDate"`
	Note           string   `json:"note,omitempty"`
}

// NewExerciseInput returns the blank workout form for the given date.
func NewExerciseInput(date string) ExerciseInput {
	return ExerciseInput{ExerciseType: "running", Intensity: IntensityModerate, ExerciseDate: date}
}

// InputFromExercise pre-fills an edit form. Dates are cut to YYYY-MM-DD.
func InputFromExercise(e ExerciseLog) ExerciseInput {
	return ExerciseInput{
		ExerciseType:   e.ExerciseType,
		ExerciseName:   e.ExerciseName,
		Duration:       e.Duration,
		Intensity:      e.Intensity,
		CaloriesBurned: e.CaloriesBurned,
		Distance:       e.Distance,
		ExerciseDate:   datePart(e.ExerciseDate),
		Note:           e.Note,
	}
}

func (in ExerciseInput) Validate() error {
	if strings.TrimSpace(in.ExerciseName) == "" {
		return invalid("exercise name is required")
	}
	if in.Duration <= 0 {
		return invalid("duration must be a positive number of minutes")
	}
	switch in.Intensity {
	case IntensityLow, IntensityModerate, IntensityHigh:
	default:
		return invalid(fmt.Sprintf("intensity must be low, moderate or high, got %q", in.Intensity))
	}
	if in.ExerciseDate == "" {
		return invalid("exercise date is required")
	}
	return nil
}

// Sleep qualities, best first.
var SleepQualities = []string{"excellent", "good", "fair", "poor"}

// SleepEntry is one night. Duration is in minutes and computed by the server.
type SleepEntry struct {
	ID          string `json:"_id"`
	SleepDate   string `json:"sleepDate"`
	Bedtime     string `json:"bedtime"`
	WakeTime    string `json:"wakeTime"`
	Quality     string `json:"quality"`
	WakeUpCount int    `json:"wakeUpCount"`
	Duration    int    `json:"duration,omitempty"`
	Note        string `json:"note,omitempty"`
}

// SleepInput is the create/update form for a night.
type SleepInput struct {
	SleepDate   string `json:"sleepDate"`
	Bedtime     string `json:"bedtime"`
	WakeTime    string `json:"wakeTime"`
	Quality     string `json:"quality"`
	WakeUpCount int    `json:"wakeUpCount"`
	Note        string `json:"note,omitempty"`
}

// NewSleepInput returns the blank form: 22:00 to 07:00, good quality.
func NewSleepInput(date string) SleepInput {
	return SleepInput{SleepDate: date, Bedtime: "22:00", WakeTime: "07:00", Quality: "good"}
}

// InputFromSleep pre-fills an edit form.
func InputFromSleep(s SleepEntry) SleepInput {
	return SleepInput{
		SleepDate:   datePart(s.SleepDate),
		Bedtime:     s.Bedtime,
		WakeTime:    s.WakeTime,
		Quality:     s.Quality,
		WakeUpCount: s.WakeUpCount,
		Note:        s.Note,
	}
}

func (in SleepInput) Validate() error {
	if in.SleepDate == "" {
		return invalid("sleep date is required")
	}
	if !validClock(in.Bedtime) || !validClock(in.WakeTime) {
		return invalid("bedtime and wake time must be HH:MM")
	}
	known := false
	for _, q := range SleepQualities {
		if in.Quality == q {
			known = true
		}
	}
	if !known {
		return invalid(fmt.Sprintf("unknown sleep quality %q", in.Quality))
	}
	if in.WakeUpCount < 0 {
		return invalid("wake-up count cannot be negative")
	}
	return nil
}

// datePart trims an ISO timestamp to its YYYY-MM-DD prefix.
func datePart(s string) string {
	if d, _, ok := strings.Cut(s, "T"); ok {
		return d
	}
	return s
}
