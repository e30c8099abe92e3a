package v1

import (
	"fmt"
	"sort"
	"strings"
)

// ReminderType categorizes a reminder.
type ReminderType string

const (
	ReminderMedicine ReminderType = "medicine"
	ReminderExercise ReminderType = "exercise"
	ReminderSleep    ReminderType = "sleep"
	ReminderWater    ReminderType = "water"
	ReminderMeal     ReminderType = "meal"
	ReminderCheckup  ReminderType = "checkup"
	ReminderOther    ReminderType = "other"
)

// ReminderTypes lists every known reminder type in display order.
var ReminderTypes = []ReminderType{
	ReminderMedicine, ReminderExercise, ReminderSleep, ReminderWater,
	ReminderMeal, ReminderCheckup, ReminderOther,
}

// Valid reports whether t is a known reminder type.
func (t ReminderType) Valid() bool {
	for _, known := range ReminderTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Reminder is a recurring notification. DaysOfWeek uses 0 for Sunday.
type Reminder struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        ReminderType `json:"type"`
	Time        string       `json:"time"`
	DaysOfWeek  []int        `json:"daysOfWeek"`
	IsActive    bool         `json:"isActive"`
}

// ReminderInput is the create/update form for a reminder.
type ReminderInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        ReminderType `json:"type"`
	Time        string       `json:"time"`
	DaysOfWeek  []int        `json:"daysOfWeek"`
	IsActive    bool         `json:"isActive"`
}

// NewReminderInput returns the blank form: weekday mornings at 08:00.
func NewReminderInput() ReminderInput {
	return ReminderInput{
		Type:       ReminderOther,
		Time:       "08:00",
		DaysOfWeek: []int{1, 2, 3, 4, 5},
		IsActive:   true,
	}
}

// InputFromReminder pre-fills an edit form from a stored reminder.
func InputFromReminder(r Reminder) ReminderInput {
	return ReminderInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Time:        r.Time,
		DaysOfWeek:  append([]int(nil), r.DaysOfWeek...),
		IsActive:    r.IsActive,
	}
}

// Normalize sorts DaysOfWeek ascending and defaults an empty type to other.
// Duplicate days are kept.
func (in *ReminderInput) Normalize() {
	sort.Ints(in.DaysOfWeek)
	if in.Type == "" {
		in.Type = ReminderOther
	}
}

func (in ReminderInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title is required")
	}
	if in.Time == "" {
		return invalid("time is required")
	}
	if !validClock(in.Time) {
		return invalid(fmt.Sprintf("time %q must be HH:MM", in.Time))
	}
	if len(in.DaysOfWeek) == 0 {
		return invalid("select at least one day")
	}
	for _, d := range in.DaysOfWeek {
		if d < 0 || d > 6 {
			return invalid(fmt.Sprintf("day %d is out of range 0-6", d))
		}
	}
	if in.Type != "" && !in.Type.Valid() {
		return invalid(fmt.Sprintf("unknown reminder type %q", in.Type))
	}
	return nil
}

// ReminderQuery filters the reminder list.
type ReminderQuery struct {
	ListQuery
	IsActive *bool        `url:"isActive,omitempty"`
	Type     ReminderType `url:"type,omitempty"`
}

// Bool returns a pointer to v, for building optional fields.
func Bool(v bool) *bool { return &v }
