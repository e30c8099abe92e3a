package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/healthdash/internal/crud"
	"github.com/fyrsmithlabs/healthdash/internal/reports"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Card renders body in a bordered box under a title.
func Card(title, body string) string {
	return cardStyle.Render(sectionStyle.UnsetMarginTop().Render(title) + "\n" + body)
}

// Stat renders a single labelled value card.
func Stat(label, value string) string {
	return Card(label, valueStyle.Render(value))
}

// Row joins blocks side by side with a one column gap.
func Row(blocks ...string) string {
	spaced := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}

// Pagination renders "page x of y (n items)" with arrows for available
// directions.
func Pagination(p v1.Pagination) string {
	if p.TotalPages <= 1 && p.Page <= 1 {
		return dimStyle.Render(fmt.Sprintf("%d items", p.TotalItems))
	}
	prev, next := "  ", "  "
	if p.Page > 1 {
		prev = footerKeyStyle.Render("←") + " "
	}
	if p.Page < p.TotalPages {
		next = " " + footerKeyStyle.Render("→")
	}
	return prev + dimStyle.Render(fmt.Sprintf("page %d of %d (%d items)", p.Page, max(p.TotalPages, 1), p.TotalItems)) + next
}

// EmptyState renders a placeholder for an empty list or series.
func EmptyState(msg string) string {
	return dimStyle.Italic(true).Render(msg)
}

// Loading renders a spinner frame next to msg.
func Loading(frame, msg string) string {
	return chartStyle.Render(frame) + " " + dimStyle.Render(msg)
}

// StatusBadge renders a graded category.
func StatusBadge(c reports.Category) string {
	label := "[" + c.Label + "]"
	switch c.Level {
	case reports.LevelLow:
		return lowStyle.Render(label)
	case reports.LevelNormal:
		return healthyStyle.Render(label)
	case reports.LevelElevated:
		return warningStyle.Render(label)
	case reports.LevelHigh:
		return errorStyle.Render(label)
	}
	return dimStyle.Render(label)
}

// AppointmentBadge renders an appointment status.
func AppointmentBadge(s v1.AppointmentStatus) string {
	label := "[" + string(s) + "]"
	switch s {
	case v1.StatusApproved, v1.StatusCompleted:
		return healthyStyle.Render(label)
	case v1.StatusPending:
		return warningStyle.Render(label)
	case v1.StatusRejected:
		return errorStyle.Render(label)
	}
	return dimStyle.Render(label)
}

// Notification renders a transient message.
func Notification(n crud.Notification) string {
	if n.Level == crud.Failure {
		return errorStyle.Render("✗ " + n.Message)
	}
	return healthyStyle.Render("✓ " + n.Message)
}

// Footer renders key hints as "[k] action" pairs.
func Footer(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(footerStyle.UnsetMarginTop().Render("  "))
		}
		b.WriteString(footerKeyStyle.Render("[" + pairs[i] + "]"))
		b.WriteString(footerStyle.UnsetMarginTop().Render(" " + pairs[i+1]))
	}
	return footerStyle.Render(b.String())
}
