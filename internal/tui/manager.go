package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/healthdash/internal/crud"
)

// Column is one column of a manager list.
type Column[T any] struct {
	Title string
	// Width pads the column; 0 leaves the last column unpadded.
	Width int
	Cell  func(T) string
}

// Field is one input of a manager form. Set parses the raw text into the
// form and returns an error phrased to follow the lowercased label, such
// as "must be a number".
type Field[F any] struct {
	Label       string
	Placeholder string
	// Limit caps the input length; 0 means 40 characters.
	Limit int
	Get   func(F) string
	Set   func(*F, string) error
}

// Screen describes how a resource is listed, edited and shown.
type Screen[T any, F crud.Validator] struct {
	// Title is the header text.
	Title string
	// Noun names one item, as in "New health record".
	Noun    string
	Empty   string
	Columns []Column[T]
	Fields  []Field[F]
	// Detail renders the detail body. Nil lists every column.
	Detail func(T) string
	// Confirm phrases the delete question. Nil asks "Delete this <noun>?".
	Confirm func(T) string
	// Deletable reports whether item may be deleted. Nil allows all.
	Deletable func(T) bool
	// Remove is the delete key hint. Empty means "delete".
	Remove string
}

// ManagerModel lists a resource a page at a time and edits it in modals.
// All state changes go through a crud.Page.
type ManagerModel[T any, F crud.Validator] struct {
	screen Screen[T, F]
	page   *crud.Page[T, F]
	notes  *crud.Log

	state  crud.State[T, F]
	cursor int
	inputs []textinput.Model
	focus  int

	notice   *crud.Notification
	busy     bool
	spinner  spinner.Model
	quitting bool
}

// NewManagerModel creates the screen for page. notes must be the notifier
// page was created with.
func NewManagerModel[T any, F crud.Validator](screen Screen[T, F], page *crud.Page[T, F], notes *crud.Log) ManagerModel[T, F] {
	return ManagerModel[T, F]{
		screen:  screen,
		page:    page,
		notes:   notes,
		state:   page.State(),
		busy:    true,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(chartStyle)),
	}
}

// pageMsg reports that a page operation finished.
type pageMsg struct{ err error }

func (m ManagerModel[T, F]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(func() error { return m.page.FetchList(1) }))
}

// run executes op off the UI goroutine.
func (m ManagerModel[T, F]) run(op func() error) tea.Cmd {
	return func() tea.Msg {
		return pageMsg{op()}
	}
}

func (m ManagerModel[T, F]) start(op func() error) (tea.Model, tea.Cmd) {
	m.busy = true
	m.notice = nil
	return m, m.run(op)
}

func (m ManagerModel[T, F]) selected() (T, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Items) {
		var zero T
		return zero, false
	}
	return m.state.Items[m.cursor], true
}

func (m ManagerModel[T, F]) canCreate() bool {
	return len(m.screen.Fields) > 0 && m.page.Supports(crud.OpCreate)
}

func (m ManagerModel[T, F]) canEdit() bool {
	return len(m.screen.Fields) > 0 && m.page.Supports(crud.OpUpdate)
}

func (m ManagerModel[T, F]) canDelete(item T) bool {
	if !m.page.Supports(crud.OpDelete) {
		return false
	}
	return m.screen.Deletable == nil || m.screen.Deletable(item)
}

func (m *ManagerModel[T, F]) sync() {
	m.state = m.page.State()
	if m.cursor >= len(m.state.Items) {
		m.cursor = max(len(m.state.Items)-1, 0)
	}
	if notes := m.notes.Drain(); len(notes) > 0 {
		n := notes[len(notes)-1]
		m.notice = &n
	}
	if m.state.Modal.Kind != crud.ModalCreate && m.state.Modal.Kind != crud.ModalEdit {
		m.inputs = nil
	}
}

func (m ManagerModel[T, F]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageMsg:
		m.busy = false
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.state.Modal.Kind {
		case crud.ModalCreate, crud.ModalEdit:
			return m.updateForm(msg)
		case crud.ModalDelete:
			return m.updateConfirm(msg)
		case crud.ModalDetail:
			switch msg.String() {
			case "esc", "enter", "q":
				m.page.Close()
				m.sync()
			}
			return m, nil
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m ManagerModel[T, F]) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.page.Dispose()
	return m, tea.Quit
}

func (m ManagerModel[T, F]) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.state.Pagination
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Items)-1 {
			m.cursor++
		}
	case "left", "h":
		if p.Page > 1 {
			m.cursor = 0
			return m.start(func() error { return m.page.SetPage(p.Page - 1) })
		}
	case "right", "l":
		if p.Page < p.TotalPages {
			m.cursor = 0
			return m.start(func() error { return m.page.SetPage(p.Page + 1) })
		}
	case "r":
		return m.start(m.page.Refresh)
	case "n":
		if m.canCreate() {
			m.page.OpenCreate()
			m.sync()
			return m, m.openForm()
		}
	case "e":
		if item, ok := m.selected(); ok && m.canEdit() {
			m.page.OpenEdit(item)
			m.sync()
			return m, m.openForm()
		}
	case "d":
		if item, ok := m.selected(); ok && m.canDelete(item) {
			m.page.OpenDelete(item)
			m.sync()
		}
	case "enter":
		if item, ok := m.selected(); ok {
			m.page.OpenDetail(item)
			m.sync()
		}
	}
	return m, nil
}

func (m ManagerModel[T, F]) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		target := m.state.Modal.Target
		if target == nil {
			return m, nil
		}
		item := *target
		return m.start(func() error { return m.page.ConfirmDelete(item) })
	case "n", "esc":
		m.page.Close()
		m.sync()
	}
	return m, nil
}

// openForm builds the inputs from the form held by the page.
func (m *ManagerModel[T, F]) openForm() tea.Cmd {
	fields := m.screen.Fields
	m.inputs = make([]textinput.Model, len(fields))
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Placeholder
		in.CharLimit = f.Limit
		if in.CharLimit == 0 {
			in.CharLimit = 40
		}
		in.SetValue(f.Get(m.state.Form))
		m.inputs[i] = in
	}
	m.focus = 0
	m.notice = nil
	return m.inputs[0].Focus()
}

func (m ManagerModel[T, F]) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.page.Close()
		m.sync()
		return m, nil
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "enter":
		in, err := m.formInput()
		if err != nil {
			m.notice = &crud.Notification{Level: crud.Failure, Message: err.Error()}
			return m, nil
		}
		return m.start(func() error { return m.page.Submit(in) })
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *ManagerModel[T, F]) moveFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

// formInput applies the inputs to the page's form. Values the form does
// not show are kept.
func (m ManagerModel[T, F]) formInput() (F, error) {
	form := m.state.Form
	for i, f := range m.screen.Fields {
		if err := f.Set(&form, strings.TrimSpace(m.inputs[i].Value())); err != nil {
			var zero F
			return zero, fmt.Errorf("%s %w", strings.ToLower(f.Label), err)
		}
	}
	return form, nil
}

func (m ManagerModel[T, F]) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(" " + strings.ToUpper(m.screen.Title) + " "))
	if m.busy {
		b.WriteString(" " + Loading(m.spinner.View(), "loading"))
	}
	b.WriteString("\n\n")

	switch m.state.Modal.Kind {
	case crud.ModalCreate, crud.ModalEdit:
		b.WriteString(m.viewForm())
	case crud.ModalDelete:
		b.WriteString(m.viewConfirm())
	case crud.ModalDetail:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewList())
	}

	if m.notice != nil {
		b.WriteString("\n" + Notification(*m.notice) + "\n")
	}
	return containerStyle.Render(b.String())
}

func (m ManagerModel[T, F]) row(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		w := m.screen.Columns[i].Width
		if w > 0 {
			c = fmt.Sprintf("%-*s", w, Truncate(c, w))
		}
		parts[i] = c
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}

func (m ManagerModel[T, F]) viewList() string {
	var b strings.Builder
	if len(m.state.Items) == 0 {
		if !m.busy {
			b.WriteString(EmptyState(m.screen.Empty) + "\n")
		}
	} else {
		titles := make([]string, len(m.screen.Columns))
		for i, c := range m.screen.Columns {
			titles[i] = c.Title
		}
		b.WriteString(labelStyle.Render(m.row(titles)) + "\n")
		for i, item := range m.state.Items {
			cells := make([]string, len(m.screen.Columns))
			for j, c := range m.screen.Columns {
				cells[j] = c.Cell(item)
			}
			line := m.row(cells)
			if i == m.cursor {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + Pagination(m.state.Pagination) + "\n")

	keys := []string{}
	if m.canCreate() {
		keys = append(keys, "n", "new")
	}
	if m.canEdit() {
		keys = append(keys, "e", "edit")
	}
	if m.page.Supports(crud.OpDelete) {
		keys = append(keys, "d", m.removeVerb())
	}
	keys = append(keys, "enter", "view", "←/→", "page", "r", "refresh", "q", "quit")
	b.WriteString(Footer(keys...))
	return b.String()
}

func (m ManagerModel[T, F]) removeVerb() string {
	if m.screen.Remove != "" {
		return m.screen.Remove
	}
	return "delete"
}

func (m ManagerModel[T, F]) viewForm() string {
	title := "New " + m.screen.Noun
	if m.state.Modal.Kind == crud.ModalEdit {
		title = "Edit " + m.screen.Noun
	}
	width := 0
	for _, f := range m.screen.Fields {
		width = max(width, len(f.Label))
	}
	var b strings.Builder
	for i, in := range m.inputs {
		label := fmt.Sprintf("%-*s", width, m.screen.Fields[i].Label)
		if i == m.focus {
			label = footerKeyStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	b.WriteString(Footer("tab", "next", "enter", "save", "esc", "cancel"))
	return Card(title, b.String())
}

func (m ManagerModel[T, F]) viewConfirm() string {
	body := fmt.Sprintf("Delete this %s?", m.screen.Noun)
	if t := m.state.Modal.Target; t != nil && m.screen.Confirm != nil {
		body = m.screen.Confirm(*t)
	}
	return Card("Confirm", warningStyle.Render(body)+"\n"+Footer("y", "yes", "n", "no"))
}

func (m ManagerModel[T, F]) viewDetail() string {
	t := m.state.Modal.Target
	if t == nil {
		return ""
	}
	var body string
	if m.screen.Detail != nil {
		body = m.screen.Detail(*t)
	} else {
		width := 0
		for _, c := range m.screen.Columns {
			width = max(width, len(c.Title))
		}
		lines := make([]string, len(m.screen.Columns))
		for i, c := range m.screen.Columns {
			lines[i] = labelStyle.Render(fmt.Sprintf("%-*s ", width, c.Title)) + c.Cell(*t)
		}
		body = strings.Join(lines, "\n")
	}
	title := strings.ToUpper(m.screen.Noun[:1]) + m.screen.Noun[1:]
	return Card(title, body+"\n"+Footer("esc", "close"))
}

// Notice returns the notification currently shown, if any.
func (m ManagerModel[T, F]) Notice() (crud.Notification, bool) {
	if m.notice == nil {
		return crud.Notification{}, false
	}
	return *m.notice, true
}
