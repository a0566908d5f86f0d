// Package editor holds the draft record behind the add/edit modal.
package editor

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	appErrors "github.com/noah-isme/sma-adp-admin/pkg/errors"
)

// State is the editor's modal state.
type State int

const (
	StateClosed State = iota
	StateCreate
	StateEdit
)

func (s State) String() string {
	switch s {
	case StateCreate:
		return "open-create"
	case StateEdit:
		return "open-edit"
	default:
		return "closed"
	}
}

// Intent tells which backend call a save dispatches to.
type Intent int

const (
	IntentNone Intent = iota
	IntentCreate
	IntentUpdate
)

type draftInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Category  string `validate:"required"`
}

// Editor is not safe for concurrent use; the view controller serialises
// access to it.
type Editor struct {
	kind      models.Kind
	validator *validator.Validate
	state     State
	draft     models.Record
}

// New constructs a closed editor for kind.
func New(kind models.Kind, validate *validator.Validate) *Editor {
	if validate == nil {
		validate = validator.New()
	}
	return &Editor{kind: kind, validator: validate}
}

// State returns the current modal state.
func (e *Editor) State() State {
	return e.state
}

// IsOpen reports whether the modal is showing.
func (e *Editor) IsOpen() bool {
	return e.state != StateClosed
}

// Draft returns a copy of the record being edited and whether one exists.
func (e *Editor) Draft() (models.Record, bool) {
	if !e.IsOpen() {
		return models.Record{}, false
	}
	return e.draft.Clone(), true
}

// Title is the modal heading.
func (e *Editor) Title() string {
	if e.state == StateEdit {
		return "Edit " + e.kind.Title
	}
	return "Add " + e.kind.Title
}

// OpenCreate starts a blank draft.
func (e *Editor) OpenCreate() {
	e.state = StateCreate
	e.draft = models.Record{}
}

// OpenEdit starts a draft copied from record so edits do not touch the
// displayed row until saved. A record without id opens as a create.
func (e *Editor) OpenEdit(record models.Record) {
	e.draft = record.Clone()
	if record.Persisted() {
		e.state = StateEdit
		return
	}
	e.state = StateCreate
}

// Set replaces the draft with a copy carrying one changed field.
func (e *Editor) Set(field models.Field, value string) error {
	if !e.IsOpen() {
		return appErrors.ErrEditorClosed
	}
	next, err := e.draft.With(field, value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "unknown field")
	}
	e.draft = next
	return nil
}

// Intent reports create or update by presence of the draft id.
func (e *Editor) Intent() Intent {
	if !e.IsOpen() {
		return IntentNone
	}
	if e.draft.Persisted() {
		return IntentUpdate
	}
	return IntentCreate
}

// Validate checks the draft before save. Names must be non-blank and the
// category must be one of the kind's values.
func (e *Editor) Validate() error {
	if !e.IsOpen() {
		return appErrors.ErrEditorClosed
	}
	input := draftInput{
		FirstName: strings.TrimSpace(e.draft.FirstName),
		LastName:  strings.TrimSpace(e.draft.LastName),
		Category:  e.draft.Category,
	}
	if err := e.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	if err := e.validator.Var(input.Category, "oneof="+strings.Join(e.kind.Categories, " ")); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	return nil
}

// Cancel discards the draft.
func (e *Editor) Cancel() {
	e.Close()
}

// Close returns to the closed state after a successful save.
func (e *Editor) Close() {
	e.state = StateClosed
	e.draft = models.Record{}
}
