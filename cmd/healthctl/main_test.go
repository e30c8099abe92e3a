package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// cli runs healthctl against an in-memory API with an isolated HOME.
type cli struct {
	t   *testing.T
	srv *apitest.Server
	url string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	srv, url := apitest.Start(t)
	return &cli{t: t, srv: srv, url: url}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()
	var out, errb bytes.Buffer
	code := run(context.Background(), append([]string{"--api-url", c.url}, args...), &out, &errb)
	return code, out.String(), errb.String()
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	code, out, errOut := c.run(args...)
	require.Equal(c.t, 0, code, "healthctl %s: %s", strings.Join(args, " "), errOut)
	return out
}

func (c *cli) register() {
	c.t.Helper()
	c.mustRun("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
}

func TestCLI_RecordLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	assert.Contains(t, out, "Welcome, Ann")

	out = c.mustRun("whoami")
	assert.Contains(t, out, "Ann <ann@example.com>")

	out = c.mustRun("records", "add", "--weight", "70.5", "--height", "175", "--note", "after run")
	assert.Contains(t, out, "Health record created:")
	assert.Equal(t, 1, c.srv.Count(apitest.KindRecords))

	out = c.mustRun("--json", "records", "list")
	var page v1.Page[v1.HealthRecord]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Weight)
	assert.Equal(t, 70.5, *page.Items[0].Weight)
	assert.Equal(t, "after run", page.Items[0].Note)

	id := page.Items[0].ID
	c.mustRun("records", "update", id, "--weight", "69.8")
	out = c.mustRun("records", "show", id)
	assert.Contains(t, out, "69.8 kg")
	assert.Contains(t, out, "after run", "unchanged fields are kept")

	out = c.mustRun("records", "delete", id)
	assert.Contains(t, out, "Health record deleted")
	assert.Equal(t, 0, c.srv.Count(apitest.KindRecords))

	out = c.mustRun("logout")
	assert.Contains(t, out, "Logged out")

	code, _, errOut := c.run("records", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "you are not logged in")
}

func TestCLI_ValidationErrorIsPrinted(t *testing.T) {
	c := newCLI(t)
	c.register()

	code, out, errOut := c.run("records", "add", "--note", "nothing measured")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "Error: enter at least a height or a weight\n", errOut)
	assert.Equal(t, 1, strings.Count(errOut, "Error:"), "error printed once")
	assert.Equal(t, 0, c.srv.Count(apitest.KindRecords), "invalid form never reaches the API")
}

func TestCLI_ServerMessageIsShown(t *testing.T) {
	c := newCLI(t)
	c.register()
	c.srv.FailNext(http.MethodGet, "/health-goals", http.StatusBadRequest, "Goals are unavailable")

	code, _, errOut := c.run("goals", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: Goals are unavailable")
}

func TestCLI_WrongPasswordIsNotAnExpiredSession(t *testing.T) {
	c := newCLI(t)
	c.register()
	c.mustRun("logout")

	code, _, errOut := c.run("login", "--email", "ann@example.com", "--password", "wrong12")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: Invalid email or password")
	assert.NotContains(t, errOut, sessionExpiredHint)
}

func TestCLI_SessionExpired(t *testing.T) {
	c := newCLI(t)
	c.register()
	c.srv.RevokeTokens()

	code, _, errOut := c.run("records", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, sessionExpiredHint)

	code, _, errOut = c.run("whoami")
	assert.Equal(t, 1, code, "session file was cleared")
	assert.Contains(t, errOut, "you are not logged in")
}

func TestCLI_UsageErrors(t *testing.T) {
	c := newCLI(t)
	c.register()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non-numeric water", []string{"water", "add", "lots"}, "whole number of millilitres"},
		{"bad stats period", []string{"sleep", "stats", "--period", "decade"}, "week, month or year"},
		{"bad goal value", []string{"goals", "progress", "abc", "ten"}, "value must be a number"},
		{"empty profile", []string{"users", "profile"}, "nothing to update"},
		{"unknown flag", []string{"records", "list", "--colour"}, "--help"},
		{"unknown manager", []string{"dashboard", "--manage", "pets"}, `unknown resource "pets"`},
		{"users manager needs admin", []string{"dashboard", "--manage", "users"}, "needs an admin account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := c.run(tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestCLI_GoalProgress(t *testing.T) {
	c := newCLI(t)
	c.register()

	out := c.mustRun("--json", "goals", "add", "--title", "Drink more", "--type", "water", "--target", "2000", "--unit", "ml")
	var g v1.HealthGoal
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	require.NotEmpty(t, g.ID)

	out = c.mustRun("goals", "progress", g.ID, "2000")
	assert.Contains(t, out, "Drink more")

	out = c.mustRun("goals", "list")
	assert.Contains(t, out, "Drink more")
}

func TestCLI_TrackingStats(t *testing.T) {
	c := newCLI(t)
	c.register()

	c.mustRun("water", "add", "250")
	c.mustRun("water", "add", "500", "--note", "lunch")

	out := c.mustRun("water", "list")
	assert.Contains(t, out, "500 ml")
	assert.Contains(t, out, "page 1 of 1 (2 items)")

	out = c.mustRun("water", "stats", "--period", "month")
	countAt := strings.Index(out, "count")
	periodAt := strings.Index(out, "period")
	require.True(t, countAt >= 0 && periodAt >= 0, out)
	assert.Less(t, countAt, periodAt, "keys are sorted")
	assert.Contains(t, out, "month")
}

func TestCLI_SleepUpdateKeepsFields(t *testing.T) {
	c := newCLI(t)
	c.register()

	out := c.mustRun("--json", "sleep", "add", "--date", "2024-03-01", "--bedtime", "23:00", "--quality", "fair")
	var s v1.SleepEntry
	require.NoError(t, json.Unmarshal([]byte(out), &s))

	out = c.mustRun("--json", "sleep", "update", s.ID, "--wake", "06:30")
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "23:00", s.Bedtime)
	assert.Equal(t, "06:30", s.WakeTime)
	assert.Equal(t, "fair", s.Quality)

	code, _, errOut := c.run("sleep", "update", "missing", "--wake", "06:00")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no entry with id missing")
}

func TestParseDays(t *testing.T) {
	days, err := parseDays("mon, 3,SAT")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 6}, days)

	_, err = parseDays("funday")
	require.Error(t, err)
	assert.Contains(t, userMessage(err), "invalid day")
}

func TestPaginationLine(t *testing.T) {
	assert.Equal(t, "page 1 of 1 (0 items)", paginationLine(v1.Pagination{Page: 1}))
	assert.Equal(t, "page 2 of 3 (25 items)", paginationLine(v1.Pagination{Page: 2, TotalPages: 3, TotalItems: 25}))
}

func TestFindByID_WalksPages(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	calls := 0
	list := func(_ context.Context, q v1.ListQuery) (v1.Page[string], error) {
		calls++
		items := map[int][]string{1: {"a", "b"}, 2: {"c"}}[q.Page]
		return v1.Page[string]{Items: items, Pagination: v1.Pagination{Page: q.Page, TotalPages: 2}}, nil
	}
	key := func(s string) string { return s }

	got, err := findByID(cmd, "c", list, key)
	require.NoError(t, err)
	assert.Equal(t, "c", got)
	assert.Equal(t, 2, calls)

	_, err = findByID(cmd, "z", list, key)
	require.Error(t, err)
}
