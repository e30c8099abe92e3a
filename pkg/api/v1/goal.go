package v1

import (
	"fmt"
	"strings"
)

// GoalStatus is the state of a health goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
	GoalCancelled GoalStatus = "cancelled"
)

// HealthGoal is a target the user works towards. Progress is a server
// computed percentage and may exceed 100.
type HealthGoal struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Unit         string     `json:"unit"`
	Progress     float64    `json:"progress"`
	Status       GoalStatus `json:"status"`
	EndDate      string     `json:"endDate,omitempty"`
}

// HealthGoalInput is the create/update form for a goal.
type HealthGoalInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type"`
	TargetValue float64    `json:"targetValue"`
	Unit        string     `json:"unit"`
	EndDate     string     `json:"endDate,omitempty"`
	Status      GoalStatus `json:"status,omitempty"`
}

// NewHealthGoalInput returns the blank goal form.
func NewHealthGoalInput() HealthGoalInput {
	return HealthGoalInput{Type: "other"}
}

// InputFromGoal pre-fills an edit form.
func InputFromGoal(g HealthGoal) HealthGoalInput {
	return HealthGoalInput{
		Title:       g.Title,
		Description: g.Description,
		Type:        g.Type,
		TargetValue: g.TargetValue,
		Unit:        g.Unit,
		EndDate:     g.EndDate,
		Status:      g.Status,
	}
}

func (in HealthGoalInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("goal title is required")
	}
	if in.TargetValue <= 0 {
		return invalid("target value must be positive")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return invalid("unit is required")
	}
	switch in.Status {
	case "", GoalActive, GoalCompleted, GoalPaused, GoalCancelled:
	default:
		return invalid(fmt.Sprintf("unknown goal status %q", in.Status))
	}
	return nil
}

// ProgressInput is the progress update body.
type ProgressInput struct {
	CurrentValue float64 `json:"currentValue"`
}
