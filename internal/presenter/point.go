package presenter

import (
	"slices"

	"bigtrip/internal/model"
)

// PointPresenter shows one point either as a card or as a form.
type PointPresenter struct {
	container    Container
	views        Views
	escape       *EscapeBus
	onAction     ActionFunc
	onModeChange func()

	point      model.Point
	card       PointView
	editor     EditorView
	mode       model.Mode
	escapeSub  *Subscription
	optimistic bool
}

func NewPointPresenter(container Container, views Views, escape *EscapeBus, onAction ActionFunc, onModeChange func()) *PointPresenter {
	return &PointPresenter{
		container:    container,
		views:        views,
		escape:       escape,
		onAction:     onAction,
		onModeChange: onModeChange,
	}
}

// Init renders point. On later calls both views are rebuilt from the fresh
// point; an open form stays open and keeps the fields the user changed.
func (p *PointPresenter) Init(point model.Point) {
	prevCard, prevEditor := p.card, p.editor

	var draft model.Point
	if p.mode == model.ModeEditing && prevEditor != nil {
		draft = reconcile(p.point, prevEditor.Draft(), point)
	}

	p.point = point.Clone()
	p.optimistic = false
	p.card = p.newCard(p.point)
	p.editor = p.views.EditorView(p.point, false, EditorHandlers{
		OnSubmit: p.handleSubmit,
		OnCancel: p.handleCancel,
		OnDelete: p.handleDelete,
	})

	if prevCard == nil || prevEditor == nil {
		p.container.Append(p.card)
		return
	}

	switch p.mode {
	case model.ModeDefault:
		p.container.Replace(p.card, prevCard)
	case model.ModeEditing:
		p.editor.Reset(draft)
		p.container.Replace(p.editor, prevEditor)
	}
}

// ResetView closes the form, discarding its edits.
func (p *PointPresenter) ResetView() {
	if p.mode != model.ModeDefault {
		p.editor.Reset(p.point)
		p.replaceFormToCard()
	}
}

// Destroy detaches both views.
func (p *PointPresenter) Destroy() {
	p.container.Remove(p.card)
	p.container.Remove(p.editor)
	p.escapeSub.Release()
	p.escapeSub = nil
}

func (p *PointPresenter) SetSaving() {
	if p.mode == model.ModeEditing {
		p.editor.SetState(EditorState{Saving: true})
	}
}

func (p *PointPresenter) SetDeleting() {
	if p.mode == model.ModeEditing {
		p.editor.SetState(EditorState{Deleting: true})
	}
}

// SetAborting flags a rejected request. A rejected favourite reverts the
// card to the stored point and shakes it, even behind an open form.
// Otherwise the visible view shakes and the form returns to its neutral
// state.
func (p *PointPresenter) SetAborting() {
	if p.optimistic {
		prev := p.card
		p.card = p.newCard(p.point)
		p.optimistic = false
		if p.mode == model.ModeDefault {
			p.container.Replace(p.card, prev)
		}
		p.card.Shake(nil)
		return
	}

	if p.mode == model.ModeDefault {
		p.card.Shake(nil)
		return
	}

	editor := p.editor
	editor.Shake(func() {
		editor.SetState(EditorState{})
	})
}

// Shake flags the visible view without changing its state.
func (p *PointPresenter) Shake() {
	if p.mode == model.ModeEditing {
		p.editor.Shake(nil)
		return
	}
	p.card.Shake(nil)
}

func (p *PointPresenter) Mode() model.Mode {
	return p.mode
}

func (p *PointPresenter) Point() model.Point {
	return p.point.Clone()
}

func (p *PointPresenter) newCard(point model.Point) PointView {
	return p.views.PointView(point, PointHandlers{
		OnEdit:     p.handleEdit,
		OnFavorite: p.handleFavorite,
	})
}

func (p *PointPresenter) replaceCardToForm() {
	p.onModeChange()
	p.container.Replace(p.editor, p.card)
	p.escapeSub = p.escape.Acquire(p.handleCancel)
	p.mode = model.ModeEditing
}

func (p *PointPresenter) replaceFormToCard() {
	p.container.Replace(p.card, p.editor)
	p.escapeSub.Release()
	p.escapeSub = nil
	p.mode = model.ModeDefault
}

func (p *PointPresenter) handleEdit() {
	if p.mode == model.ModeEditing {
		return
	}
	p.replaceCardToForm()
}

func (p *PointPresenter) handleFavorite() {
	if p.mode != model.ModeDefault {
		return
	}
	flipped := p.point.Clone()
	flipped.IsFavorite = !flipped.IsFavorite

	prev := p.card
	p.card = p.newCard(flipped)
	p.optimistic = true
	p.container.Replace(p.card, prev)

	p.onAction(model.ActionUpdate, model.UpdatePatch, flipped)
}

func (p *PointPresenter) handleSubmit(draft model.Point) {
	draft.ID = p.point.ID
	p.onAction(model.ActionUpdate, model.UpdateMinor, draft)
}

func (p *PointPresenter) handleCancel() {
	p.ResetView()
}

func (p *PointPresenter) handleDelete(model.Point) {
	p.onAction(model.ActionDelete, model.UpdateMinor, p.point.Clone())
}

// reconcile merges a form draft with a freshly loaded point: fields the user
// changed relative to base keep the draft value, the rest take fresh.
func reconcile(base, draft, fresh model.Point) model.Point {
	out := fresh.Clone()
	if draft.Type != base.Type {
		out.Type = draft.Type
		out.Offers = slices.Clone(draft.Offers)
	} else if !slices.Equal(draft.Offers, base.Offers) {
		out.Offers = slices.Clone(draft.Offers)
	}
	if !draft.StartDate.Equal(base.StartDate) {
		out.StartDate = draft.StartDate
	}
	if !draft.EndDate.Equal(base.EndDate) {
		out.EndDate = draft.EndDate
	}
	if draft.Price != base.Price {
		out.Price = draft.Price
	}
	if draft.DestinationID != base.DestinationID {
		out.DestinationID = draft.DestinationID
	}
	if draft.IsFavorite != base.IsFavorite {
		out.IsFavorite = draft.IsFavorite
	}
	return out
}
