package reports

import (
	"strings"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Level grades a measurement for display.
type Level int

const (
	LevelUnknown Level = iota
	LevelLow
	LevelNormal
	LevelElevated
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelNormal:
		return "normal"
	case LevelElevated:
		return "elevated"
	case LevelHigh:
		return "high"
	}
	return "unknown"
}

// Category is a labelled grade.
type Category struct {
	Label string
	Level Level
}

// BMICategory grades a BMI value using the WHO adult bands.
func BMICategory(bmi float64) (Category, bool) {
	switch {
	case !(bmi > 0):
		return Category{}, false
	case bmi < 18.5:
		return Category{"Underweight", LevelLow}, true
	case bmi < 25:
		return Category{"Normal", LevelNormal}, true
	case bmi < 30:
		return Category{"Overweight", LevelElevated}, true
	}
	return Category{"Obese", LevelHigh}, true
}

// BloodPressureCategory grades a reading in mmHg. Both sides are required.
func BloodPressureCategory(systolic, diastolic float64) (Category, bool) {
	switch {
	case systolic <= 0 || diastolic <= 0:
		return Category{}, false
	case systolic < 90 || diastolic < 60:
		return Category{"Low", LevelLow}, true
	case systolic <= 120 && diastolic <= 80:
		return Category{"Normal", LevelNormal}, true
	case systolic <= 140 || diastolic <= 90:
		return Category{"Mildly high", LevelElevated}, true
	}
	return Category{"High", LevelHigh}, true
}

// HeartRateCategory grades a resting heart rate in beats per minute.
func HeartRateCategory(bpm float64) (Category, bool) {
	switch {
	case bpm <= 0:
		return Category{}, false
	case bpm < 60:
		return Category{"Slow", LevelLow}, true
	case bpm <= 100:
		return Category{"Normal", LevelNormal}, true
	}
	return Category{"Fast", LevelHigh}, true
}

var reminderLabels = map[v1.ReminderType]string{
	v1.ReminderMedicine: "Medicine",
	v1.ReminderExercise: "Exercise",
	v1.ReminderSleep:    "Sleep",
	v1.ReminderWater:    "Water",
	v1.ReminderMeal:     "Meal",
	v1.ReminderCheckup:  "Check-up",
	v1.ReminderOther:    "Other",
}

// ReminderTypeLabel returns the display name of t; unknown types are "Other".
func ReminderTypeLabel(t v1.ReminderType) string {
	if l, ok := reminderLabels[t]; ok {
		return l
	}
	return reminderLabels[v1.ReminderOther]
}

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayNames renders days of week (0 is Sunday) as "Mon, Wed". Out of range
// values are skipped.
func DayNames(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, ", ")
}
