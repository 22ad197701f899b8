package ui

import (
	"testing"

	"bigtrip/internal/model"
	"bigtrip/internal/presenter"
	"bigtrip/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardView(t *testing.T) {
	views := NewViews(testCatalog(), NewScheduler(), nil, false)
	edits, favorites := 0, 0
	card := views.PointView(testPoint(), presenter.PointHandlers{
		OnEdit:     func() { edits++ },
		OnFavorite: func() { favorites++ },
	}).(*cardView)

	view := card.View(100)
	assert.Contains(t, view, "Taxi Amsterdam")
	assert.Contains(t, view, "10:00 — 11:30")
	assert.Contains(t, view, "01H 30M")
	assert.Contains(t, view, util.FormatPrice(120))
	assert.Contains(t, view, "★")
	assert.Contains(t, view, "+ Upgrade")
	assert.NotContains(t, view, "Radio")

	card.edit()
	card.favorite()
	assert.Equal(t, 1, edits)
	assert.Equal(t, 1, favorites)
}

func TestCardView_ShakeEndsOnTimer(t *testing.T) {
	sched := NewScheduler()
	views := NewViews(testCatalog(), sched, nil, false)
	card := views.PointView(testPoint(), presenter.PointHandlers{}).(*cardView)

	done := false
	card.Shake(func() { done = true })
	assert.True(t, card.shaking)

	msgs := collect(t, sched.Flush())
	require.Len(t, msgs, 1)
	sched.complete(msgs[0].(jobDoneMsg))

	assert.False(t, card.shaking)
	assert.True(t, done)
}

func TestButtonView_DisabledIgnoresClicks(t *testing.T) {
	views := NewViews(testCatalog(), NewScheduler(), nil, false)
	clicks := 0
	button := views.ButtonView(func() { clicks++ })

	button.SetDisabled(true)
	views.button.click()
	button.SetDisabled(false)
	views.button.click()

	assert.Equal(t, 1, clicks)
}

func TestFilterView(t *testing.T) {
	views := NewViews(testCatalog(), NewScheduler(), nil, false)
	var chosen []model.FilterType
	node := views.FilterView([]presenter.FilterItem{
		{Type: model.FilterEverything, Count: 3},
		{Type: model.FilterPast, Count: 0, Disabled: true},
	}, model.FilterEverything, func(f model.FilterType) { chosen = append(chosen, f) })

	view := node.View(80)
	assert.Contains(t, view, "1 Everything (3)")
	assert.Contains(t, view, "2 Past (0)")

	views.filter.change(model.FilterPast)
	assert.Equal(t, []model.FilterType{model.FilterPast}, chosen)
}

func TestMessageView(t *testing.T) {
	views := NewViews(testCatalog(), NewScheduler(), nil, false)

	assert.Contains(t, views.MessageView(presenter.MessageEmpty, "Click New Event to create your first point").View(80), "first point")
	assert.Contains(t, views.MessageView(presenter.MessageError, "Failed to load latest route information").View(80), "Failed to load")
}
