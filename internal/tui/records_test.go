package tui

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	"github.com/fyrsmithlabs/healthdash/internal/crud"
)

func newRecords(t *testing.T, f *fixture) RecordsModel {
	t.Helper()
	notes := &crud.Log{}
	page := crud.New(context.Background(), "health record", crud.Records(f.reg.Records()), crud.RecordForm(), notes)
	t.Cleanup(page.Dispose)

	m := NewRecordsModel(page, notes)
	return exec(t, m, m.run(func() error { return page.FetchList(1) }))
}

func TestRecordsModel_EmptyState(t *testing.T) {
	f := newFixture(t, "user")
	m := newRecords(t, f)

	assert.False(t, m.busy)
	assert.Contains(t, m.View(), "No health records yet")
}

func TestRecordsModel_CreateThroughForm(t *testing.T) {
	f := newFixture(t, "user")
	m := newRecords(t, f)

	m, _ = press(t, m, "n")
	require.Equal(t, crud.ModalCreate, m.state.Modal.Kind)
	require.Len(t, m.inputs, fieldCount)

	m, _ = press(t, m, "70", "tab", "175")
	m, cmd := press(t, m, "enter")
	assert.True(t, m.busy)
	m = exec(t, m, cmd)

	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind)
	assert.Nil(t, m.inputs)
	require.Len(t, m.state.Items, 1)
	assert.Equal(t, 70.0, *m.state.Items[0].Weight)
	assert.Equal(t, 175.0, *m.state.Items[0].Height)

	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, crud.Success, n.Level)
	assert.Equal(t, "health record created", n.Message)
}

func TestRecordsModel_FormRejectsNonNumeric(t *testing.T) {
	f := newFixture(t, "user")
	m := newRecords(t, f)

	m, _ = press(t, m, "n", "abc")
	m, cmd := press(t, m, "enter")

	assert.Nil(t, cmd, "nothing is sent")
	assert.Equal(t, crud.ModalCreate, m.state.Modal.Kind)
	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, "weight (kg) must be a number", n.Message)
	assert.Equal(t, "abc", m.inputs[fieldWeight].Value(), "entered values are kept")
}

func TestRecordsModel_ValidationFailureKeepsForm(t *testing.T) {
	f := newFixture(t, "user")
	m := newRecords(t, f)

	m, _ = press(t, m, "n")
	m, cmd := press(t, m, "enter")
	m = exec(t, m, cmd)

	assert.Equal(t, crud.ModalCreate, m.state.Modal.Kind)
	assert.Len(t, m.inputs, fieldCount)
	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, crud.Failure, n.Level)
	assert.Equal(t, "enter at least a height or a weight", n.Message)
	assert.Zero(t, f.srv.Count(apitest.KindRecords))
}

func TestRecordsModel_EditPrefillsForm(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{
		"weight":        68.5,
		"bloodPressure": map[string]any{"systolic": 118.0, "diastolic": 76.0},
	})
	m := newRecords(t, f)

	m, _ = press(t, m, "e")
	require.Equal(t, crud.ModalEdit, m.state.Modal.Kind)
	assert.Equal(t, "68.5", m.inputs[fieldWeight].Value())
	assert.Equal(t, "118", m.inputs[fieldSystolic].Value())
	assert.Equal(t, "76", m.inputs[fieldDiastolic].Value())
	assert.Empty(t, m.inputs[fieldHeight].Value())

	m, _ = press(t, m, "esc")
	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind)
}

func TestRecordsModel_DeleteAfterConfirm(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	m := newRecords(t, f)
	require.Len(t, m.state.Items, 1)

	m, _ = press(t, m, "d")
	require.Equal(t, crud.ModalDelete, m.state.Modal.Kind)
	assert.Contains(t, m.View(), "Delete the record")

	m, cmd := press(t, m, "y")
	m = exec(t, m, cmd)

	assert.Empty(t, m.state.Items)
	assert.Zero(t, f.srv.Count(apitest.KindRecords))
	n, _ := m.Notice()
	assert.Equal(t, "health record deleted", n.Message)
}

func TestRecordsModel_DeclineDelete(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	m := newRecords(t, f)

	m, _ = press(t, m, "d", "n")
	assert.Equal(t, crud.ModalNone, m.state.Modal.Kind)
	assert.Equal(t, 1, f.srv.Count(apitest.KindRecords))
}

func TestRecordsModel_Paging(t *testing.T) {
	f := newFixture(t, "user")
	for i := 0; i < 12; i++ {
		f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 60.0 + float64(i)})
	}
	m := newRecords(t, f)
	require.Len(t, m.state.Items, 10)
	assert.Contains(t, m.View(), "page 1 of 2 (12 items)")

	_, cmd := press(t, m, "left")
	assert.Nil(t, cmd, "already on the first page")

	m, cmd = press(t, m, "right")
	m = exec(t, m, cmd)
	assert.Equal(t, 2, m.state.Pagination.Page)
	assert.Len(t, m.state.Items, 2)

	_, cmd = press(t, m, "right")
	assert.Nil(t, cmd, "already on the last page")
}

func TestRecordsModel_FetchFailureKeepsItems(t *testing.T) {
	f := newFixture(t, "user")
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	m := newRecords(t, f)

	f.srv.FailNext(http.MethodGet, "/health-records", http.StatusInternalServerError, "db down")
	m, cmd := press(t, m, "r")
	m = exec(t, m, cmd)

	assert.Len(t, m.state.Items, 1)
	n, ok := m.Notice()
	require.True(t, ok)
	assert.Equal(t, crud.Failure, n.Level)
	assert.NotContains(t, n.Message, "db down")
}

func TestRecordsModel_QuitDisposesPage(t *testing.T) {
	f := newFixture(t, "user")
	m := newRecords(t, f)

	m, cmd := press(t, m, "q")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.ErrorIs(t, m.page.Refresh(), crud.ErrDisposed)
}
