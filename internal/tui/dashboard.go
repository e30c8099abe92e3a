// Package tui provides the terminal screens of healthdash: an auto-refreshing
// dashboard with report charts and paginated record management.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/dashboard"
	"github.com/fyrsmithlabs/healthdash/internal/reports"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Periods cycled by the "p" key.
var periods = []string{"week", "month", "year"}

// LoginHint is shown when the session is missing or expired.
const LoginHint = "Session expired. Run `healthctl login` to sign in again."

// DashboardModel is the bubbletea model for the home and report screen.
type DashboardModel struct {
	loader   *dashboard.Loader
	admin    bool
	period   int
	interval time.Duration

	// ctx bounds every load started by the model; it is cancelled on quit.
	ctx    context.Context
	cancel context.CancelFunc

	watcher *session.Watcher

	spinner spinner.Model
	rating  progress.Model

	overview      *dashboard.Overview
	adminOverview *dashboard.AdminOverview
	reports       *dashboard.Reports
	err           error
	pending       int
	lastUpdate    time.Time
	width         int
	quitting      bool
}

// NewDashboardModel creates a dashboard that reloads every interval. Admins
// see platform statistics instead of their own summary.
func NewDashboardModel(ctx context.Context, loader *dashboard.Loader, admin bool, interval time.Duration) DashboardModel {
	ctx, cancel := context.WithCancel(ctx)
	return DashboardModel{
		loader:   loader,
		admin:    admin,
		period:   1,
		pending:  2,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(chartStyle)),
		rating:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// WithSessionWatcher makes the dashboard show the login hint as soon as the
// session file is removed, even by another process.
func (m DashboardModel) WithSessionWatcher(w *session.Watcher) DashboardModel {
	m.watcher = w
	return m
}

type tickMsg time.Time

type sessionMsg struct {
	change session.Change
	closed bool
}

type overviewMsg struct{ overview dashboard.Overview }

type adminOverviewMsg struct{ overview dashboard.AdminOverview }

type reportsMsg struct{ reports dashboard.Reports }

type errMsg struct{ err error }

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(), m.tick(), m.watchSession())
}

// watchSession waits for the next session file change.
func (m DashboardModel) watchSession() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		c, ok := <-changes
		return sessionMsg{change: c, closed: !ok}
	}
}

func (m DashboardModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetch loads the overview and the reports concurrently.
func (m DashboardModel) fetch() tea.Cmd {
	return tea.Batch(m.loadOverview(), m.loadReports())
}

func (m DashboardModel) loadOverview() tea.Cmd {
	ctx, loader, admin := m.ctx, m.loader, m.admin
	return func() tea.Msg {
		if admin {
			ov, err := loader.LoadAdminOverview(ctx)
			if err != nil {
				return errMsg{err}
			}
			return adminOverviewMsg{ov}
		}
		ov, err := loader.LoadOverview(ctx)
		if err != nil {
			return errMsg{err}
		}
		return overviewMsg{ov}
	}
}

func (m DashboardModel) loadReports() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	q := v1.ReportQuery{Period: periods[m.period]}
	return func() tea.Msg {
		r, err := loader.LoadReports(ctx, q)
		if err != nil {
			return errMsg{err}
		}
		return reportsMsg{r}
	}
}

// refresh starts a reload unless one is already running.
func (m DashboardModel) refresh() (DashboardModel, tea.Cmd) {
	if m.pending > 0 {
		return m, nil
	}
	m.pending = 2
	return m, m.fetch()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case "r":
			return m.refresh()
		case "p":
			m.period = (m.period + 1) % len(periods)
			m.reports = nil
			return m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.rating.Width = min(max(msg.Width/3, 10), 40)
		return m, nil

	case tickMsg:
		next, cmd := m.refresh()
		return next, tea.Batch(cmd, m.tick())

	case overviewMsg:
		m.settle(nil)
		m.overview = &msg.overview
		return m, nil

	case adminOverviewMsg:
		m.settle(nil)
		m.adminOverview = &msg.overview
		return m, nil

	case reportsMsg:
		m.settle(nil)
		m.reports = &msg.reports
		return m, nil

	case errMsg:
		m.settle(msg.err)
		return m, nil

	case sessionMsg:
		if msg.closed {
			return m, nil
		}
		if msg.change.Cleared {
			m.err = v1.ErrNotAuthenticated
			return m, m.watchSession()
		}
		// Logged in again from another terminal.
		if m.SessionExpired() {
			m.err = nil
			next, cmd := m.refresh()
			return next, tea.Batch(cmd, next.watchSession())
		}
		return m, m.watchSession()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *DashboardModel) settle(err error) {
	if m.pending > 0 {
		m.pending--
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && m.ctx.Err() != nil {
			return
		}
		m.err = err
		return
	}
	m.lastUpdate = time.Now()
	if m.pending == 0 {
		m.err = nil
	}
}

// SessionExpired reports whether the last load failed for lack of a session.
func (m DashboardModel) SessionExpired() bool {
	return errors.Is(m.err, v1.ErrUnauthorized) || errors.Is(m.err, v1.ErrNotAuthenticated)
}

func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := headerStyle.Render(" HEALTHDASH ")
	status := dimStyle.Render(fmt.Sprintf(" period: %s ", periods[m.period]))
	if m.pending > 0 {
		status += Loading(m.spinner.View(), "refreshing")
	} else if !m.lastUpdate.IsZero() {
		status += dimStyle.Render("updated " + m.lastUpdate.Format("15:04:05"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, header, status))
	b.WriteString("\n")

	if m.SessionExpired() {
		b.WriteString("\n" + errorStyle.Render(LoginHint) + "\n")
		b.WriteString(Footer("q", "quit"))
		return containerStyle.Render(b.String())
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(apiclient.UserMessage(m.err)) + "\n")
	}

	if m.admin {
		b.WriteString(m.renderAdmin())
	} else {
		b.WriteString(m.renderOverview())
	}
	b.WriteString(m.renderReports())
	b.WriteString("\n" + Footer("r", "refresh", "p", "period", "q", "quit"))

	return containerStyle.Render(b.String())
}

func (m DashboardModel) renderOverview() string {
	if m.overview == nil {
		return "\n" + Loading(m.spinner.View(), "loading overview")
	}
	ov := m.overview
	var b strings.Builder
	b.WriteString(sectionStyle.Render("OVERVIEW") + "\n")

	records, chats := Placeholder, Placeholder
	if ov.Summary != nil {
		records = fmt.Sprint(ov.Summary.HealthSummary.TotalRecords)
		chats = fmt.Sprint(ov.Summary.ChatSummary.TotalQuestions)
	}
	reminders := Placeholder
	if ov.ReminderTotal != nil {
		reminders = fmt.Sprint(*ov.ReminderTotal)
	}
	b.WriteString(Row(Stat("Records", records), Stat("Questions", chats), Stat("Reminders", reminders)))
	b.WriteString("\n")

	if ov.Latest != nil {
		b.WriteString(Card("Latest record", latestRecord(*ov.Latest)))
		b.WriteString("\n")
	}

	if len(ov.ActiveReminders) == 0 {
		b.WriteString(EmptyState("no active reminders") + "\n")
	} else {
		lines := make([]string, 0, len(ov.ActiveReminders))
		for _, r := range ov.ActiveReminders {
			lines = append(lines, fmt.Sprintf("%s %s %s",
				valueStyle.Render(r.Time),
				r.Title,
				dimStyle.Render(reports.ReminderTypeLabel(r.Type)+" · "+reports.DayNames(r.DaysOfWeek))))
		}
		b.WriteString(Card("Active reminders", strings.Join(lines, "\n")) + "\n")
	}
	b.WriteString(failedSections(ov.Failed))
	return b.String()
}

func latestRecord(r v1.HealthRecord) string {
	lines := []string{
		labelStyle.Render("Weight:      ") + FormatOptional(r.Weight, 1, "kg"),
		labelStyle.Render("Height:      ") + FormatOptional(r.Height, 0, "cm"),
	}
	if r.Weight != nil && r.Height != nil {
		if bmi, ok := reports.BMI(*r.Weight, *r.Height); ok {
			line := labelStyle.Render("BMI:         ") + fmt.Sprintf("%.1f", bmi)
			if c, ok := reports.BMICategory(bmi); ok {
				line += " " + StatusBadge(c)
			}
			lines = append(lines, line)
		}
	}
	bp := labelStyle.Render("Pressure:    ") + FormatBloodPressure(r.BloodPressure)
	if r.BloodPressure.Complete() {
		if c, ok := reports.BloodPressureCategory(*r.BloodPressure.Systolic, *r.BloodPressure.Diastolic); ok {
			bp += " " + StatusBadge(c)
		}
	}
	lines = append(lines, bp)
	hr := labelStyle.Render("Heart rate:  ") + FormatOptional(r.HeartRate, 0, "bpm")
	if r.HeartRate != nil {
		if c, ok := reports.HeartRateCategory(*r.HeartRate); ok {
			hr += " " + StatusBadge(c)
		}
	}
	lines = append(lines, hr, dimStyle.Render(FormatDateTime(r.CreatedAt)))
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderAdmin() string {
	if m.adminOverview == nil {
		return "\n" + Loading(m.spinner.View(), "loading platform statistics")
	}
	ov := m.adminOverview
	var b strings.Builder
	b.WriteString(sectionStyle.Render("PLATFORM") + "\n")

	users := Placeholder
	if ov.UserTotal != nil {
		users = fmt.Sprint(*ov.UserTotal)
	}
	records, questions, reminders := Placeholder, Placeholder, Placeholder
	if ov.Stats != nil {
		records = fmt.Sprint(ov.Stats.TotalHealthRecords)
		questions = fmt.Sprint(ov.Stats.TotalChatQuestions)
		reminders = fmt.Sprint(ov.Stats.TotalActiveReminders)
	}
	b.WriteString(Row(Stat("Users", users), Stat("Records", records), Stat("Questions", questions), Stat("Active reminders", reminders)))
	b.WriteString("\n")

	if len(ov.RecentUsers) > 0 {
		lines := make([]string, 0, len(ov.RecentUsers))
		for _, u := range ov.RecentUsers {
			lines = append(lines, fmt.Sprintf("%s %s %s", valueStyle.Render(u.Name), u.Email, dimStyle.Render(string(u.Role))))
		}
		b.WriteString(Card("Recent users", strings.Join(lines, "\n")) + "\n")
	}
	b.WriteString(failedSections(ov.Failed))
	return b.String()
}

func (m DashboardModel) renderReports() string {
	if m.reports == nil {
		return "\n" + Loading(m.spinner.View(), "loading reports")
	}
	h, c := m.reports.Health, m.reports.Chatbot
	var b strings.Builder

	b.WriteString(sectionStyle.Render("HEALTH REPORT") + "\n")
	b.WriteString(Row(
		Stat("Records", fmt.Sprint(h.TotalRecords)),
		Stat("Avg weight", FormatOptional(h.AverageWeight, 1, "kg")),
		Stat("Active days", fmt.Sprint(h.ActiveDays)),
	))
	b.WriteString("\n")
	b.WriteString(Row(Card("Weight", WeightChart(h.WeightHistory)), Card("BMI", BMIChart(h.BMIHistory))))
	b.WriteString("\n")
	b.WriteString(Card("Blood pressure "+dimStyle.Render("(systolic/diastolic)"), BloodPressureChart(h.BloodPressureHistory)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("CONSULTATIONS") + "\n")
	rating := EmptyState("no ratings yet")
	if c.AverageRating != nil {
		rating = m.rating.ViewAs(*c.AverageRating/5) + " " + valueStyle.Render(fmt.Sprintf("%.1f/5", *c.AverageRating))
	}
	b.WriteString(Row(Stat("Questions", fmt.Sprint(c.TotalChats)), Card("Average rating", rating)))
	b.WriteString("\n")

	activity := make([]float64, 0, len(c.RecentActivity))
	for i := len(c.RecentActivity) - 1; i >= 0; i-- {
		activity = append(activity, float64(c.RecentActivity[i].Count))
	}
	topics := EmptyState("no topics yet")
	if len(c.PopularTopics) > 0 {
		lines := make([]string, 0, len(c.PopularTopics))
		for _, t := range c.PopularTopics {
			lines = append(lines, fmt.Sprintf("%-12s %s", t.Topic, valueStyle.Render(fmt.Sprint(t.Count))))
		}
		topics = strings.Join(lines, "\n")
	}
	b.WriteString(Row(Card("Recent activity", Sparkline(activity)), Card("Popular topics", topics)))
	b.WriteString("\n")
	b.WriteString(failedSections(m.reports.Failed))
	return b.String()
}

func failedSections(failed []string) string {
	if len(failed) == 0 {
		return ""
	}
	return warningStyle.Render("⚠ could not load: "+strings.Join(failed, ", ")) + "\n"
}
