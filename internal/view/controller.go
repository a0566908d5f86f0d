// Package view implements the list/edit workflow shared by every record view:
// fetch on mount, client-side filtering, the add/edit modal and delete, with a
// full re-fetch after every successful mutation.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/editor"
	"github.com/noah-isme/sma-adp-admin/internal/filter"
	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
)

// RecordStore is the backend accessor a controller drives.
type RecordStore interface {
	List(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, record models.Record) error
	Update(ctx context.Context, id models.ID, record models.Record) error
	Delete(ctx context.Context, id models.ID) error
}

// State is a read-only snapshot used to render the view.
type State struct {
	Kind        models.Kind
	Rows        []models.Record
	Total       int
	Loaded      bool
	SearchText  string
	Category    string
	EditorState editor.State
	EditorTitle string
	Draft       models.Record
	Collapsed   bool
}

// ModalOpen reports whether the add/edit modal is showing.
func (s State) ModalOpen() bool {
	return s.EditorState != editor.StateClosed
}

// Controller owns the state of one mounted record view. It is safe for
// concurrent use; the mutex is never held across a backend call.
type Controller struct {
	kind   models.Kind
	store  RecordStore
	logger *zap.Logger

	// ctx lives as long as the view is mounted; Close cancels it and with it
	// every backend call still in flight.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	mounted   bool
	closed    bool
	loaded    bool
	records   []models.Record
	criteria  filter.Criteria
	editor    *editor.Editor
	draftSeq  uint64
	alerts    []string
	collapsed bool
}

// New constructs an unmounted controller for kind.
func New(kind models.Kind, store RecordStore, validate *validator.Validate, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		kind:   kind,
		store:  store,
		logger: logger.With(zap.String("view", kind.Plural)),
		ctx:    ctx,
		cancel: cancel,
		editor: editor.New(kind, validate),
	}
}

// Kind returns the record kind of the view.
func (c *Controller) Kind() models.Kind {
	return c.kind
}

// Mount performs the initial fetch. Only the first call per controller
// reaches the backend.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.mounted || c.closed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.mu.Unlock()

	_ = c.Refresh(ctx)
}

// Refresh re-fetches the full collection. On failure the error is logged and
// the previously displayed collection is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	callCtx, done := c.callContext(ctx)
	defer done()

	records, err := c.store.List(callCtx)
	if err != nil {
		c.logger.Error(fmt.Sprintf("Error fetching %s", c.kind.Plural), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return appErrors.ErrViewClosed
	}
	c.records = records
	c.loaded = true
	return nil
}

// SetSearch replaces the free-text query.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	c.criteria.SearchText = text
	c.mu.Unlock()
}

// SetCategoryFilter replaces the category filter; "" shows every category.
func (c *Controller) SetCategoryFilter(category string) {
	c.mu.Lock()
	c.criteria.Category = category
	c.mu.Unlock()
}

// Rows returns the filtered view of the last fetched collection.
func (c *Controller) Rows() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.ApplyCriteria(c.records, c.criteria)
}

// State snapshots everything needed to render the view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft, _ := c.editor.Draft()
	return State{
		Kind:        c.kind,
		Rows:        filter.ApplyCriteria(c.records, c.criteria),
		Total:       len(c.records),
		Loaded:      c.loaded,
		SearchText:  c.criteria.SearchText,
		Category:    c.criteria.Category,
		EditorState: c.editor.State(),
		EditorTitle: c.editor.Title(),
		Draft:       draft,
		Collapsed:   c.collapsed,
	}
}

// OpenCreate opens the modal on a blank draft.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editor.OpenCreate()
	c.draftSeq++
}

// OpenEdit opens the modal on a copy of the displayed record with id.
func (c *Controller) OpenEdit(id models.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range c.records {
		if record.ID == id {
			c.editor.OpenEdit(record)
			c.draftSeq++
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", c.kind.Name, id))
}

// EditField changes one field of the draft.
func (c *Controller) EditField(field models.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Set(field, value)
}

// Cancel closes the modal and drops the draft without a backend call.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editor.Cancel()
}

// Save validates the draft and creates or updates it. Validation and backend
// failures raise an alert and leave the modal open; success closes the modal
// and re-fetches the collection.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.ErrViewClosed
	}
	if err := c.editor.Validate(); err != nil {
		if appErrors.Is(err, appErrors.ErrValidation) {
			c.alerts = append(c.alerts, appErrors.ErrValidation.Message)
		}
		c.mu.Unlock()
		return err
	}
	draft, _ := c.editor.Draft()
	intent := c.editor.Intent()
	seq := c.draftSeq
	c.mu.Unlock()

	callCtx, done := c.callContext(ctx)
	var err error
	switch intent {
	case editor.IntentUpdate:
		err = c.store.Update(callCtx, draft.ID, draft)
	default:
		err = c.store.Create(callCtx, draft)
	}
	done()

	if err != nil {
		message := c.failureMessage(intent)
		c.logger.Error(message, zap.String("id", draft.ID.String()), zap.Error(err))
		c.alert(message)
		return err
	}

	c.mu.Lock()
	// The user may have reopened the modal on another record meanwhile.
	if c.draftSeq == seq {
		c.editor.Close()
	}
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

// Delete removes the record with id without confirmation, then re-fetches.
func (c *Controller) Delete(ctx context.Context, id models.ID) error {
	if c.isClosed() {
		return appErrors.ErrViewClosed
	}

	callCtx, done := c.callContext(ctx)
	err := c.store.Delete(callCtx, id)
	done()

	if err != nil {
		message := fmt.Sprintf("Failed to delete %s. Please try again later.", c.kind.Name)
		c.logger.Error(message, zap.String("id", id.String()), zap.Error(err))
		c.alert(message)
		return err
	}

	_ = c.Refresh(ctx)
	return nil
}

// TakeAlerts returns and clears the pending user-facing alerts.
func (c *Controller) TakeAlerts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	alerts := c.alerts
	c.alerts = nil
	return alerts
}

// ToggleSidebar flips the collapsed side panel.
func (c *Controller) ToggleSidebar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collapsed = !c.collapsed
	return c.collapsed
}

// Close unmounts the view: in-flight calls are cancelled and late results are
// discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) alert(message string) {
	c.mu.Lock()
	c.alerts = append(c.alerts, message)
	c.mu.Unlock()
}

func (c *Controller) failureMessage(intent editor.Intent) string {
	if intent == editor.IntentUpdate {
		return fmt.Sprintf("Failed to update %s. Please try again later.", c.kind.Name)
	}
	return fmt.Sprintf("Failed to add new %s. Please try again later.", c.kind.Name)
}

// callContext keeps the values of parent (request id) but ties cancellation
// to the view's lifetime rather than to the triggering request.
func (c *Controller) callContext(parent context.Context) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(c.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
