package v1

import (
	"fmt"
	"strings"
	"time"
)

// DoctorStatus tells whether a doctor accepts bookings.
type DoctorStatus string

const (
	DoctorAvailable DoctorStatus = "available"
	DoctorBusy      DoctorStatus = "busy"
)

// Doctor is a bookable practitioner. Slots are "HH:MM-HH:MM".
type Doctor struct {
	ID             string       `json:"_id"`
	Name           string       `json:"name"`
	Specialty      string       `json:"specialty"`
	Qualification  string       `json:"qualification,omitempty"`
	Image          string       `json:"image,omitempty"`
	AvailableSlots []string     `json:"availableSlots"`
	Status         DoctorStatus `json:"status"`
}

// DoctorInput is the admin create/update form.
type DoctorInput struct {
	Name           string       `json:"name"`
	Specialty      string       `json:"specialty"`
	Qualification  string       `json:"qualification,omitempty"`
	Image          string       `json:"image,omitempty"`
	AvailableSlots []string     `json:"availableSlots"`
	Status         DoctorStatus `json:"status"`
}

// InputFromDoctor pre-fills an edit form.
func InputFromDoctor(d Doctor) DoctorInput {
	return DoctorInput{
		Name:           d.Name,
		Specialty:      d.Specialty,
		Qualification:  d.Qualification,
		Image:          d.Image,
		AvailableSlots: append([]string(nil), d.AvailableSlots...),
		Status:         d.Status,
	}
}

func (in DoctorInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("doctor name is required")
	}
	if strings.TrimSpace(in.Specialty) == "" {
		return invalid("specialty is required")
	}
	if in.Status != "" && in.Status != DoctorAvailable && in.Status != DoctorBusy {
		return invalid(fmt.Sprintf("status must be available or busy, got %q", in.Status))
	}
	for _, slot := range in.AvailableSlots {
		if err := ValidateSlot(slot); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSlot checks the "HH:MM-HH:MM" slot format and that the slot ends
// after it starts.
func ValidateSlot(slot string) error {
	start, end, ok := strings.Cut(slot, "-")
	if !ok || !validClock(start) || !validClock(end) {
		return invalid(fmt.Sprintf("slot %q must be HH:MM-HH:MM", slot))
	}
	if end <= start {
		return invalid(fmt.Sprintf("slot %q ends before it starts", slot))
	}
	return nil
}

// validClock reports whether s is a strict two-digit HH:MM time.
func validClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}
