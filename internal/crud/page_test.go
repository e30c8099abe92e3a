package crud

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apitest"
	"github.com/fyrsmithlabs/healthdash/internal/services"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

type recordsFixture struct {
	srv  *apitest.Server
	user v1.User
	page *Page[v1.HealthRecord, v1.HealthRecordInput]
	log  *Log
}

func newRecordsPage(t *testing.T) *recordsFixture {
	t.Helper()
	srv, url := apitest.Start(t)
	user, token := srv.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	client, store := apitest.NewClient(t, url, token, user)
	reg := services.NewRegistry(services.Options{Client: client, Store: store})

	log := &Log{}
	page := New(context.Background(), "health record", Records(reg.Records()), RecordForm(), log)
	t.Cleanup(page.Dispose)
	return &recordsFixture{srv: srv, user: user, page: page, log: log}
}

func TestPage_CreateThenFetchIncludesItem(t *testing.T) {
	f := newRecordsPage(t)
	require.NoError(t, f.page.FetchList(1))
	assert.Empty(t, f.page.State().Items)

	f.page.OpenCreate()
	assert.Equal(t, ModalCreate, f.page.State().Modal.Kind)

	require.NoError(t, f.page.Submit(v1.HealthRecordInput{Weight: v1.Float(70), Height: v1.Float(175), Note: "morning"}))

	st := f.page.State()
	assert.Equal(t, ModalNone, st.Modal.Kind)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 70.0, *st.Items[0].Weight)
	assert.Equal(t, "morning", st.Items[0].Note)

	n, ok := f.log.Last()
	require.True(t, ok)
	assert.Equal(t, Notification{Level: Success, Message: "health record created"}, n)
}

func TestPage_EditUpdatesTarget(t *testing.T) {
	f := newRecordsPage(t)
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0, "note": "old"})
	require.NoError(t, f.page.FetchList(1))
	item := f.page.State().Items[0]

	f.page.OpenEdit(item)
	st := f.page.State()
	assert.Equal(t, ModalEdit, st.Modal.Kind)
	assert.Equal(t, "old", st.Form.Note, "form pre-filled from item")

	form := st.Form
	form.Note = "new"
	require.NoError(t, f.page.Submit(form))

	items := f.page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, "new", items[0].Note)
}

func TestPage_DeleteThenFetchExcludesItem(t *testing.T) {
	f := newRecordsPage(t)
	keep := f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	gone := f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 71.0})
	require.NoError(t, f.page.FetchList(1))

	var target v1.HealthRecord
	for _, r := range f.page.State().Items {
		if r.ID == gone {
			target = r
		}
	}
	f.page.OpenDelete(target)
	require.NoError(t, f.page.ConfirmDelete(target))

	items := f.page.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)
}

func TestPage_ValidationFailureKeepsModalAndForm(t *testing.T) {
	f := newRecordsPage(t)
	f.page.OpenCreate()
	before := f.srv.Requests()

	form := v1.HealthRecordInput{Note: "no measurements"}
	err := f.page.Submit(form)
	require.ErrorIs(t, err, v1.ErrValidation)

	st := f.page.State()
	assert.Equal(t, ModalCreate, st.Modal.Kind)
	assert.Equal(t, form, st.Form)
	assert.Equal(t, before, f.srv.Requests(), "nothing sent")

	notes := f.log.Drain()
	require.Len(t, notes, 1, "one notification for the whole form")
	assert.Equal(t, Failure, notes[0].Level)
}

func TestPage_ServerFailureKeepsModalOpen(t *testing.T) {
	f := newRecordsPage(t)
	f.page.OpenCreate()
	f.srv.FailNext(http.MethodPost, "/health-records", http.StatusConflict, "Duplicate record")

	form := v1.HealthRecordInput{Weight: v1.Float(70)}
	require.Error(t, f.page.Submit(form))

	st := f.page.State()
	assert.Equal(t, ModalCreate, st.Modal.Kind)
	assert.Equal(t, form, st.Form)
	n, _ := f.log.Last()
	assert.Equal(t, Notification{Level: Failure, Message: "Duplicate record"}, n)
}

func TestPage_FetchFailureKeepsPreviousItems(t *testing.T) {
	f := newRecordsPage(t)
	f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	require.NoError(t, f.page.FetchList(1))

	f.srv.FailNext(http.MethodGet, "/health-records", http.StatusInternalServerError, "db down")
	require.Error(t, f.page.FetchList(1))

	st := f.page.State()
	assert.Len(t, st.Items, 1)
	assert.False(t, st.Loading)
	n, _ := f.log.Last()
	assert.Equal(t, Failure, n.Level)
	assert.NotContains(t, n.Message, "db down", "5xx details stay hidden")
}

func TestPage_OutOfRangePageRendersEmpty(t *testing.T) {
	f := newRecordsPage(t)
	for i := 0; i < 23; i++ {
		f.srv.Insert(apitest.KindRecords, f.user.ID, map[string]any{"weight": 70.0})
	}

	require.NoError(t, f.page.FetchList(1))
	st := f.page.State()
	assert.Equal(t, 3, st.Pagination.TotalPages)
	assert.Equal(t, 23, st.Pagination.TotalItems)

	require.NoError(t, f.page.SetPage(4))
	st = f.page.State()
	assert.Empty(t, st.Items)
	assert.NotNil(t, st.Items)
	assert.Equal(t, 4, st.Pagination.Page)
}

func TestPage_DisposeRejectsOperations(t *testing.T) {
	f := newRecordsPage(t)
	f.page.Dispose()

	assert.ErrorIs(t, f.page.FetchList(1), ErrDisposed)
	assert.ErrorIs(t, f.page.Submit(v1.HealthRecordInput{Weight: v1.Float(1)}), ErrDisposed)
	assert.ErrorIs(t, f.page.ConfirmDelete(v1.HealthRecord{ID: "x"}), ErrDisposed)
}

// blockingResource releases list calls one at a time.
type blockingResource struct {
	calls   chan v1.ListQuery
	results chan v1.Page[v1.HealthRecord]
}

func (b *blockingResource) resource() Funcs[v1.HealthRecord, v1.HealthRecordInput] {
	return Funcs[v1.HealthRecord, v1.HealthRecordInput]{
		ListFn: func(ctx context.Context, q v1.ListQuery) (v1.Page[v1.HealthRecord], error) {
			b.calls <- q
			select {
			case r := <-b.results:
				return r, nil
			case <-ctx.Done():
				return v1.Page[v1.HealthRecord]{}, ctx.Err()
			}
		},
		CreateFn: func(context.Context, v1.HealthRecordInput) error { return nil },
		UpdateFn: func(context.Context, string, v1.HealthRecordInput) error { return nil },
		DeleteFn: func(context.Context, string) error { return nil },
	}
}

func pageOf(ids ...string) v1.Page[v1.HealthRecord] {
	items := make([]v1.HealthRecord, len(ids))
	for i, id := range ids {
		items[i] = v1.HealthRecord{ID: id}
	}
	return v1.Page[v1.HealthRecord]{Items: items, Pagination: v1.Pagination{Page: 1, Limit: 10, TotalItems: len(ids), TotalPages: 1}}
}

func TestPage_DropsSupersededResult(t *testing.T) {
	b := &blockingResource{calls: make(chan v1.ListQuery), results: make(chan v1.Page[v1.HealthRecord])}
	page := New(context.Background(), "record", b.resource(), RecordForm(), nil)
	defer page.Dispose()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = page.FetchList(1)
	}()
	<-b.calls // first fetch is in flight

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = page.FetchList(2)
	}()
	<-b.calls // second fetch is in flight

	b.results <- pageOf("new")
	b.results <- pageOf("old")
	wg.Wait()

	// Whichever call received which result, only the newer fetch may write.
	st := page.State()
	require.Len(t, st.Items, 1)
	assert.False(t, st.Loading)
}

func TestPage_DisposeDropsInFlightResult(t *testing.T) {
	b := &blockingResource{calls: make(chan v1.ListQuery), results: make(chan v1.Page[v1.HealthRecord])}
	log := &Log{}
	page := New(context.Background(), "record", b.resource(), RecordForm(), log)

	done := make(chan error, 1)
	go func() { done <- page.FetchList(1) }()
	<-b.calls

	page.Dispose()
	require.NoError(t, <-done)

	assert.Empty(t, page.State().Items)
	assert.Empty(t, log.Drain(), "no error shown for a disposed page")
}

func TestPage_ReminderFormNormalizes(t *testing.T) {
	var got v1.ReminderInput
	res := Funcs[v1.Reminder, v1.ReminderInput]{
		ListFn: func(context.Context, v1.ListQuery) (v1.Page[v1.Reminder], error) {
			return v1.Page[v1.Reminder]{}, nil
		},
		CreateFn: func(_ context.Context, in v1.ReminderInput) error {
			got = in
			return nil
		},
		UpdateFn: func(context.Context, string, v1.ReminderInput) error { return errors.New("unexpected") },
		DeleteFn: func(context.Context, string) error { return errors.New("unexpected") },
	}
	page := New(context.Background(), "reminder", res, ReminderForm(), nil)
	defer page.Dispose()

	page.OpenCreate()
	form := page.State().Form
	form.Title = "Pills"
	form.DaysOfWeek = []int{5, 1, 3}
	require.NoError(t, page.Submit(form))
	assert.Equal(t, []int{1, 3, 5}, got.DaysOfWeek)
}
