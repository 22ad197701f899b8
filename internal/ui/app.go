package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/presenter"
	"bigtrip/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// PrefsSaver persists UI preferences.
type PrefsSaver interface {
	SaveFilter(ctx context.Context, f model.FilterType) error
	SavePictures(ctx context.Context, on bool) error
}

// Options wires the root model to the data models.
type Options struct {
	Points       *store.PointsModel
	Offers       *store.OffersModel
	Destinations *store.DestinationsModel
	Filter       *store.FilterModel
	// Scheduler must be the runner the models were built with.
	Scheduler *Scheduler
	// Pictures and Prefs may be nil.
	Pictures     PictureSource
	ShowPictures bool
	Prefs        PrefsSaver
	Log          *zap.Logger
	Now          func() time.Time
}

// banner holds the messages shown above the list.
type banner struct {
	error string
	info  string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	sched     *Scheduler
	views     *Views
	header    *Stack
	controls  *Stack
	main      *Stack
	board     *presenter.Board
	escape    *presenter.EscapeBus
	banner    *banner
	prefs     PrefsSaver
	log       *zap.Logger
	bootstrap func()

	width  int
	height int

	showingHelp bool
	gState      GState
	spinning    bool
	spinner     spinner.Model

	keys     KeyMap
	formKeys FormKeyMap
}

// New builds the presenters over the given models and mounts them.
func New(ctx context.Context, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	catalog := store.NewCatalog(opts.Offers, opts.Destinations)
	var pictures *pictureCache
	if opts.Pictures != nil {
		pictures = newPictureCache(ctx, opts.Pictures, opts.Scheduler, log)
	}

	m := Model{
		ctx:      ctx,
		sched:    opts.Scheduler,
		views:    NewViews(catalog, opts.Scheduler, pictures, opts.ShowPictures),
		header:   &Stack{},
		controls: &Stack{},
		main:     &Stack{},
		escape:   presenter.NewEscapeBus(log),
		banner:   &banner{},
		prefs:    opts.Prefs,
		log:      log,
		keys:     DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m.spinner = sp

	status := m.banner
	m.board = presenter.NewBoard(ctx, presenter.BoardConfig{
		Container:       m.main,
		ButtonContainer: m.controls,
		Views:           m.views,
		Points:          opts.Points,
		Filter:          opts.Filter,
		Escape:          m.escape,
		Log:             log,
		Now:             opts.Now,
		OnError: func(action model.UserAction, err error) {
			status.error = fmt.Sprintf("Failed to %s event: %v", action, err)
		},
	})
	filters := presenter.NewFilterPresenter(m.controls, m.views, opts.Points, opts.Filter, opts.Now)
	header := presenter.NewHeaderPresenter(m.header, m.views, opts.Points, catalog, opts.Offers, opts.Destinations)

	filters.Init()
	m.board.Init()
	header.Init()

	if m.prefs != nil {
		opts.Filter.Subscribe(func(model.Event) {
			m.savePref("filter", func(ctx context.Context) error {
				return m.prefs.SaveFilter(ctx, opts.Filter.Filter())
			})
		})
	}

	m.bootstrap = func() {
		store.Bootstrap(ctx, m.sched, opts.Offers, opts.Destinations, opts.Points)
	}
	return m
}

// Init starts loading the trip.
func (m Model) Init() tea.Cmd {
	m.bootstrap()
	return m.sched.Flush()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case jobDoneMsg:
		m.sched.complete(msg)

	case spinner.TickMsg:
		if m.board.InFlight() == 0 {
			m.spinning = false
			break
		}
		m.spinner, cmd = m.spinner.Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.banner.error = ""
		m.banner.info = ""

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			break
		}

		if editor, ok := m.views.list.Editor(); ok {
			if key.Matches(msg, m.formKeys.Cancel) {
				m.escape.Press()
				break
			}
			cmd = editor.Update(msg)
			break
		}

		var quit bool
		m, quit = m.handleListKey(msg)
		if quit {
			return m, tea.Quit
		}
	}

	if editor, ok := m.views.list.Editor(); ok {
		editor.prefetchPictures()
	}

	var spin tea.Cmd
	if m.board.InFlight() > 0 && !m.spinning {
		m.spinning = true
		spin = m.spinner.Tick
	}

	return m, tea.Batch(cmd, spin, m.sched.Flush())
}

// handleListKey handles input while no form is open. It reports whether
// the program should quit.
func (m Model) handleListKey(msg tea.KeyMsg) (Model, bool) {
	list := m.views.list

	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateFirstG {
			list.Top()
			m.gState = GStateIdle
		} else {
			m.gState = GStateFirstG
		}
		return m, false
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, true
	case key.Matches(msg, m.keys.Help):
		m.showingHelp = true
	case key.Matches(msg, m.keys.Up):
		list.Move(-1)
	case key.Matches(msg, m.keys.Down):
		list.Move(1)
	case key.Matches(msg, m.keys.Bottom):
		list.Bottom()
	case key.Matches(msg, m.keys.Edit):
		if card, ok := m.selectedCard(); ok {
			card.edit()
		}
	case key.Matches(msg, m.keys.Favorite):
		if card, ok := m.selectedCard(); ok {
			card.favorite()
		}
	case key.Matches(msg, m.keys.New):
		if m.views.button != nil {
			m.views.button.click()
			list.Top()
		}
	case key.Matches(msg, m.keys.Filters):
		i := int(msg.Runes[0] - '1')
		if m.views.filter != nil && i >= 0 && i < len(model.FilterTypes) {
			m.views.filter.change(model.FilterTypes[i])
		}
	case key.Matches(msg, m.keys.SortDay):
		m.changeSort(model.SortDay)
	case key.Matches(msg, m.keys.SortTime):
		m.changeSort(model.SortTime)
	case key.Matches(msg, m.keys.SortPrice):
		m.changeSort(model.SortPrice)
	case key.Matches(msg, m.keys.Pictures):
		m.togglePictures()
	case key.Matches(msg, m.keys.Back):
		m.escape.Press()
	}
	return m, false
}

func (m Model) selectedCard() (*cardView, bool) {
	n, ok := m.views.list.Selected()
	if !ok {
		return nil, false
	}
	card, ok := n.(*cardView)
	return card, ok
}

// changeSort goes through the sort controls, which are only live while
// they are shown.
func (m Model) changeSort(s model.SortType) {
	if m.views.sort == nil || !m.main.Holds(m.views.sort) {
		return
	}
	m.views.sort.change(s)
}

func (m Model) togglePictures() {
	m.views.showPictures = !m.views.showPictures
	on := m.views.showPictures
	if on {
		m.banner.info = "Destination pictures on"
	} else {
		m.banner.info = "Destination pictures off"
	}
	if m.prefs != nil {
		m.savePref("pictures", func(ctx context.Context) error {
			return m.prefs.SavePictures(ctx, on)
		})
	}
}

func (m Model) savePref(name string, save func(ctx context.Context) error) {
	m.sched.Run(m.ctx, save, func(err error) {
		if err != nil {
			m.log.Warn("failed to save preference", zap.String("pref", name), zap.Error(err))
		}
	})
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	_, editing := m.views.list.Editor()

	top := []string{renderHeader(m.statusText(), m.width)}
	if info := m.header.View(m.width); info != "" {
		top = append(top, info)
	}
	top = append(top, BarStyle.Width(m.width).Render(m.controls.View(m.width)))
	if m.banner.error != "" {
		top = append(top, ErrorStyle.Width(m.width).Render("Error: "+m.banner.error))
	}
	if m.banner.info != "" {
		top = append(top, SuccessStyle.Width(m.width).Render(m.banner.info))
	}

	footer := RenderHelp(editing, m.width)
	head := lipgloss.JoinVertical(lipgloss.Left, top...)

	contentHeight := max(1, m.height-lipgloss.Height(head)-lipgloss.Height(footer))
	content := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(m.renderContent(contentHeight))

	return lipgloss.JoinVertical(lipgloss.Left, head, content, footer)
}

// renderContent renders the board and scrolls it so the selected card
// stays in view.
func (m Model) renderContent(height int) string {
	var lines []string
	focusTop, focusBottom := 0, 0
	for _, n := range m.main.Nodes() {
		offset := len(lines)
		view := n.View(m.width)
		if view == "" {
			continue
		}
		if n == presenter.Node(m.views.list) {
			top, bottom := m.views.list.SelectedLines()
			focusTop, focusBottom = offset+top, offset+bottom
		}
		lines = append(lines, strings.Split(view, "\n")...)
	}

	start := 0
	if focusBottom >= height {
		start = min(focusTop, focusBottom-height+1)
	}
	end := min(len(lines), start+height)
	return strings.Join(lines[start:end], "\n")
}

func (m Model) statusText() string {
	if n := m.board.InFlight(); n > 0 {
		return m.spinner.View() + " Saving..."
	}
	return ""
}

func renderHeader(status string, width int) string {
	left := "  " + HeaderStyle.Render("Big Trip")

	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	if status != "" {
		right = BreadcrumbStyle.Render(status) + "   " + right
	}

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}
