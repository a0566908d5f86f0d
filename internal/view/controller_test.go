package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-admin/internal/editor"
	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
)

type storeCall struct {
	Op     string
	ID     models.ID
	Record models.Record
}

type storeSpy struct {
	mu        sync.Mutex
	calls     []storeCall
	records   []models.Record
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	// block, when set, makes List wait for cancellation.
	block   bool
	entered chan struct{}
}

func (s *storeSpy) record(call storeCall) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *storeSpy) List(ctx context.Context) ([]models.Record, error) {
	s.record(storeCall{Op: "list"})
	s.mu.Lock()
	block, records, err := s.block, append([]models.Record(nil), s.records...), s.listErr
	s.mu.Unlock()
	if block {
		if s.entered != nil {
			close(s.entered)
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return records, err
}

func (s *storeSpy) Create(ctx context.Context, record models.Record) error {
	s.record(storeCall{Op: "create", Record: record})
	return s.createErr
}

func (s *storeSpy) Update(ctx context.Context, id models.ID, record models.Record) error {
	s.record(storeCall{Op: "update", ID: id, Record: record})
	return s.updateErr
}

func (s *storeSpy) Delete(ctx context.Context, id models.ID) error {
	s.record(storeCall{Op: "delete", ID: id})
	return s.deleteErr
}

func (s *storeSpy) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Op)
	}
	return out
}

func (s *storeSpy) call(i int) storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func newTeacherView(store *storeSpy) *Controller {
	return New(models.TeacherKind(""), store, nil, nil)
}

func TestMountFetchesOnce(t *testing.T) {
	store := &storeSpy{records: []models.Record{{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "Senior"}}}
	c := newTeacherView(store)

	c.Mount(context.Background())
	c.Mount(context.Background())

	assert.Equal(t, []string{"list"}, store.ops())
	state := c.State()
	assert.True(t, state.Loaded)
	assert.Len(t, state.Rows, 1)
	assert.Equal(t, 1, state.Total)
}

func TestCategoryFilterScenario(t *testing.T) {
	store := &storeSpy{records: []models.Record{{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "Senior"}}}
	c := newTeacherView(store)
	c.Mount(context.Background())

	c.SetCategoryFilter("Junior")
	assert.Empty(t, c.Rows())

	c.SetCategoryFilter("")
	assert.Len(t, c.Rows(), 1)
}

func TestCreateScenario(t *testing.T) {
	store := &storeSpy{}
	c := newTeacherView(store)
	c.Mount(context.Background())

	c.OpenCreate()
	require.NoError(t, c.EditField(models.FieldFirstName, "Max"))
	require.NoError(t, c.EditField(models.FieldLastName, "Roy"))
	require.NoError(t, c.EditField(models.FieldCategory, "Middle"))
	require.NoError(t, c.Save(context.Background()))

	assert.Equal(t, []string{"list", "create", "list"}, store.ops())
	created := store.call(1).Record
	assert.Equal(t, models.Record{FirstName: "Max", LastName: "Roy", Category: "Middle"}, created)
	assert.True(t, created.ID.IsZero())
	assert.False(t, c.State().ModalOpen())
}

func TestEditScenario(t *testing.T) {
	store := &storeSpy{records: []models.Record{{ID: "5", FirstName: "Ann", LastName: "Lee", Category: "Senior"}}}
	c := newTeacherView(store)
	c.Mount(context.Background())

	require.NoError(t, c.OpenEdit("5"))
	assert.Equal(t, editor.StateEdit, c.State().EditorState)
	require.NoError(t, c.EditField(models.FieldLastName, "Kim"))

	// The displayed row is untouched until the save round-trips.
	assert.Equal(t, "Lee", c.Rows()[0].LastName)

	require.NoError(t, c.Save(context.Background()))
	assert.Equal(t, []string{"list", "update", "list"}, store.ops())
	update := store.call(1)
	assert.Equal(t, models.ID("5"), update.ID)
	assert.Equal(t, models.Record{ID: "5", FirstName: "Ann", LastName: "Kim", Category: "Senior"}, update.Record)
}

func TestOpenEditUnknownRow(t *testing.T) {
	c := newTeacherView(&storeSpy{})
	c.Mount(context.Background())
	assert.True(t, appErrors.Is(c.OpenEdit("404"), appErrors.ErrNotFound))
	assert.False(t, c.State().ModalOpen())
}

func TestDeleteScenario(t *testing.T) {
	store := &storeSpy{records: []models.Record{{ID: "7", FirstName: "Ann", LastName: "Lee", Category: "Senior"}}}
	c := newTeacherView(store)
	c.Mount(context.Background())

	require.NoError(t, c.Delete(context.Background(), "7"))
	assert.Equal(t, []string{"list", "delete", "list"}, store.ops())
	assert.Equal(t, models.ID("7"), store.call(1).ID)
}

func TestSaveWithMissingFieldNeverCallsStore(t *testing.T) {
	store := &storeSpy{}
	c := newTeacherView(store)

	c.OpenCreate()
	require.NoError(t, c.EditField(models.FieldFirstName, "Max"))
	err := c.Save(context.Background())

	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, store.ops())
	assert.True(t, c.State().ModalOpen())
	assert.Equal(t, []string{"Please fill out all required fields."}, c.TakeAlerts())
	assert.Empty(t, c.TakeAlerts())
}

func TestSaveFailureAlertsAndKeepsModal(t *testing.T) {
	store := &storeSpy{
		records:   []models.Record{{ID: "5", FirstName: "Ann", LastName: "Lee", Category: "Senior"}},
		updateErr: errors.New("503"),
		createErr: errors.New("offline"),
	}
	c := newTeacherView(store)
	c.Mount(context.Background())

	require.NoError(t, c.OpenEdit("5"))
	require.Error(t, c.Save(context.Background()))
	assert.True(t, c.State().ModalOpen())
	assert.Equal(t, []string{"Failed to update teacher. Please try again later."}, c.TakeAlerts())

	c.Cancel()
	c.OpenCreate()
	require.NoError(t, c.EditField(models.FieldFirstName, "Max"))
	require.NoError(t, c.EditField(models.FieldLastName, "Roy"))
	require.NoError(t, c.EditField(models.FieldCategory, "Junior"))
	require.Error(t, c.Save(context.Background()))
	assert.Equal(t, []string{"Failed to add new teacher. Please try again later."}, c.TakeAlerts())

	// No re-fetch after failed mutations.
	assert.Equal(t, []string{"list", "update", "create"}, store.ops())
}

func TestDeleteFailureAlerts(t *testing.T) {
	store := &storeSpy{deleteErr: errors.New("500")}
	c := New(models.StudentKind(""), store, nil, nil)

	require.Error(t, c.Delete(context.Background(), "7"))
	assert.Equal(t, []string{"delete"}, store.ops())
	assert.Equal(t, []string{"Failed to delete student. Please try again later."}, c.TakeAlerts())
}

func TestListFailureKeepsPreviousRows(t *testing.T) {
	store := &storeSpy{records: []models.Record{{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "Senior"}}}
	c := newTeacherView(store)
	c.Mount(context.Background())

	store.mu.Lock()
	store.listErr = errors.New("down")
	store.mu.Unlock()

	require.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.Rows(), 1)
	assert.Empty(t, c.TakeAlerts())
}

func TestCriteriaSurviveMutations(t *testing.T) {
	store := &storeSpy{records: []models.Record{
		{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "Senior"},
		{ID: "2", FirstName: "Bob", LastName: "Ray", Category: "Junior"},
	}}
	c := newTeacherView(store)
	c.Mount(context.Background())
	c.SetSearch("ann")
	c.SetCategoryFilter("Senior")

	require.NoError(t, c.Delete(context.Background(), "2"))
	state := c.State()
	assert.Equal(t, "ann", state.SearchText)
	assert.Equal(t, "Senior", state.Category)
	require.Len(t, state.Rows, 1)
	assert.Equal(t, models.ID("1"), state.Rows[0].ID)
}

func TestSaveKeepsModalReopenedDuringRequest(t *testing.T) {
	store := &storeSpy{records: []models.Record{
		{ID: "1", FirstName: "Ann", LastName: "Lee", Category: "Senior"},
		{ID: "2", FirstName: "Bob", LastName: "Ray", Category: "Junior"},
	}}
	c := newTeacherView(store)
	c.Mount(context.Background())

	require.NoError(t, c.OpenEdit("1"))
	c.mu.Lock()
	c.draftSeq++ // another OpenEdit landed while the update was in flight
	c.mu.Unlock()
	require.NoError(t, c.Save(context.Background()))
	assert.True(t, c.State().ModalOpen())
}

func TestToggleSidebar(t *testing.T) {
	c := newTeacherView(&storeSpy{})
	assert.True(t, c.ToggleSidebar())
	assert.True(t, c.State().Collapsed)
	assert.False(t, c.ToggleSidebar())
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	store := &storeSpy{block: true, entered: make(chan struct{})}
	c := newTeacherView(store)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	<-store.entered
	c.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh was not cancelled")
	}
	assert.False(t, c.State().Loaded)
}

func TestClosedViewRejectsMutations(t *testing.T) {
	store := &storeSpy{}
	c := newTeacherView(store)
	c.Close()

	assert.True(t, appErrors.Is(c.Delete(context.Background(), "1"), appErrors.ErrViewClosed))
	c.OpenCreate()
	assert.True(t, appErrors.Is(c.Save(context.Background()), appErrors.ErrViewClosed))
	c.Mount(context.Background())
	assert.Empty(t, store.ops())
}
