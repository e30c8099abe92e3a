package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

type fixture struct {
	srv  *apitest.Server
	user v1.User
	reg  services.Registry
}

func newFixture(t *testing.T, role v1.Role) *fixture {
	t.Helper()
	srv, url := apitest.Start(t)
	user, token := srv.AddUser("Ann", "ann@example.com", "secret1", role)
	client, store := apitest.NewClient(t, url, token, user)
	return &fixture{
		srv:  srv,
		user: user,
		reg:  services.NewRegistry(services.Options{Client: client, Store: store}),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs cmd synchronously and feeds its message back into m.
func exec[M tea.Model](t *testing.T, m M, cmd tea.Cmd) M {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	next, _ := m.Update(cmd())
	return next.(M)
}

func press[M tea.Model](t *testing.T, m M, keys ...string) (M, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(M)
	}
	return m, cmd
}
