package presenter

import (
	"time"

	"bigtrip/internal/model"

	"github.com/google/uuid"
)

// NewPointFormPresenter manages the creation form at the head of the list.
type NewPointFormPresenter struct {
	container Container
	views     Views
	escape    *EscapeBus
	onAction  ActionFunc
	onClose   func()
	now       func() time.Time

	editor    EditorView
	escapeSub *Subscription
	form      int
}

func NewNewPointPresenter(container Container, views Views, escape *EscapeBus, onAction ActionFunc, onClose func(), now func() time.Time) *NewPointFormPresenter {
	if now == nil {
		now = time.Now
	}
	return &NewPointFormPresenter{
		container: container,
		views:     views,
		escape:    escape,
		onAction:  onAction,
		onClose:   onClose,
		now:       now,
	}
}

// Init mounts a blank form. It does nothing while a form is open.
func (p *NewPointFormPresenter) Init() {
	if p.editor != nil {
		return
	}
	p.form++
	p.editor = p.views.EditorView(BlankPoint(p.now()), true, EditorHandlers{
		OnSubmit: p.handleSubmit,
		OnCancel: p.Destroy,
		OnDelete: func(model.Point) { p.Destroy() },
	})
	p.container.Prepend(p.editor)
	p.escapeSub = p.escape.Acquire(p.Destroy)
}

// Destroy removes the form and tells the host. Repeated calls do nothing.
func (p *NewPointFormPresenter) Destroy() {
	if p.editor == nil {
		return
	}
	p.container.Remove(p.editor)
	p.editor = nil
	p.escapeSub.Release()
	p.escapeSub = nil
	p.onClose()
}

// Form identifies the open form; every Init opens a new one. It is zero
// while no form is mounted.
func (p *NewPointFormPresenter) Form() int {
	if p.editor == nil {
		return 0
	}
	return p.form
}

// Active reports whether the form is mounted.
func (p *NewPointFormPresenter) Active() bool {
	return p.editor != nil
}

func (p *NewPointFormPresenter) SetSaving() {
	if p.editor != nil {
		p.editor.SetState(EditorState{Saving: true})
	}
}

func (p *NewPointFormPresenter) SetAborting() {
	if p.editor == nil {
		return
	}
	editor := p.editor
	editor.Shake(func() {
		editor.SetState(EditorState{})
	})
}

func (p *NewPointFormPresenter) handleSubmit(draft model.Point) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	p.onAction(model.ActionAdd, model.UpdateMajor, draft)
}

// BlankPoint is the initial draft of the creation form.
func BlankPoint(now time.Time) model.Point {
	start := now.Truncate(time.Minute)
	return model.Point{
		Type:      model.TypeFlight,
		StartDate: start,
		EndDate:   start,
		Offers:    []string{},
	}
}
