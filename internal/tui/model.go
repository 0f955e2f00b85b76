// Package tui is the terminal browse view. It owns the browse controller and
// feeds it keystrokes, debounced search input and fetch completions.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handsomefox/movie-explorer/internal/browse"
	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/media"
)

type Options struct {
	Catalog  browse.Catalog
	Images   media.Resolver
	Logger   *slog.Logger
	Debounce time.Duration
}

// settleMsg fires once the debounce window has passed after an input change.
type settleMsg struct {
	token uint64
}

type resultMsg struct {
	result browse.Result
}

// listState is shared by model copies so the controller's scroll hook can
// reset it.
type listState struct {
	cursor int
	offset int
}

type Model struct {
	ctx       context.Context
	ctrl      *browse.Controller
	coalescer *browse.Coalescer
	images    media.Resolver
	log       *slog.Logger

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	list    *listState

	showDetail bool
	status     string
	width      int
	height     int
}

func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	ls := &listState{}
	ctrl := browse.New(opts.Catalog,
		browse.WithLogger(log),
		browse.WithScrollReset(func() {
			ls.cursor = 0
			ls.offset = 0
		}),
	)

	in := textinput.New()
	in.Placeholder = "Search movies..."
	in.Prompt = "/ "
	in.CharLimit = 120

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cursorStyle

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		coalescer: browse.NewCoalescer(opts.Debounce),
		images:    opts.Images,
		log:       log,
		input:     in,
		spinner:   s,
		help:      help.New(),
		keys:      keys,
		list:      ls,
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// start issues the mount requests.
func (m Model) start() tea.Cmd {
	return m.fetch(m.ctrl.Mount()...)
}

func (m Model) fetch(reqs ...browse.Request) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, func() tea.Msg {
			return resultMsg{result: m.ctrl.Fetch(m.ctx, req)}
		})
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settleMsg:
		ev, ok := m.coalescer.Settle(msg.token)
		if !ok {
			return m, nil
		}
		return m.onInputEvent(ev)

	case resultMsg:
		if !m.ctrl.Apply(msg.result) {
			return m, nil
		}
		m.clampCursor()
		if msg.result.Request.Kind == browse.KindList {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showDetail {
			return m.updateDetail(msg)
		}
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) onInputEvent(ev browse.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case browse.EventQuery:
		req, err := m.ctrl.SubmitSearch(ev.Query)
		if err != nil {
			return m, nil
		}
		return m, m.fetch(req)
	case browse.EventCleared:
		if m.ctrl.Mode() != catalog.ModeSearch {
			return m, nil
		}
		return m, m.fetch(m.ctrl.ClearSearch())
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// An unsent draft is discarded in place; only an active search
		// falls back to popular.
		m.resetInput()
		if m.ctrl.Mode() != catalog.ModeSearch {
			return m, nil
		}
		return m, m.fetch(m.ctrl.ClearSearch())
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	token := m.coalescer.Input(m.input.Value())
	settle := tea.Tick(m.coalescer.Window(), func(time.Time) tea.Msg {
		return settleMsg{token: token}
	})
	return m, tea.Batch(cmd, settle)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Search):
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		if req, ok := m.ctrl.PreviousPage(); ok {
			return m, m.fetch(req)
		}
	case key.Matches(msg, m.keys.Next):
		if req, ok := m.ctrl.NextPage(); ok {
			return m, m.fetch(req)
		}
	case key.Matches(msg, m.keys.First):
		if req, ok := m.ctrl.GoToPage(1); ok {
			return m, m.fetch(req)
		}
	case key.Matches(msg, m.keys.Last):
		if total := m.ctrl.TotalPages(); total > 0 {
			if req, ok := m.ctrl.GoToPage(total); ok {
				return m, m.fetch(req)
			}
		}
	case key.Matches(msg, m.keys.Popular):
		m.resetInput()
		return m, m.fetch(m.ctrl.SelectPopular())
	case key.Matches(msg, m.keys.NowPlaying):
		m.resetInput()
		return m, m.fetch(m.ctrl.SelectNowPlaying())
	case key.Matches(msg, m.keys.Retry):
		m.status = "Retrying..."
		return m, m.fetch(m.ctrl.Retry())
	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Mode() == catalog.ModeSearch {
			m.resetInput()
			return m, m.fetch(m.ctrl.ClearSearch())
		}
	case key.Matches(msg, m.keys.Open):
		movies := m.ctrl.Movies()
		if m.list.cursor < len(movies) {
			m.showDetail = true
			return m, m.fetch(m.ctrl.OpenMovie(movies[m.list.cursor].ID))
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.ctrl.CloseMovie()
		m.showDetail = false
	case key.Matches(msg, m.keys.Retry):
		movies := m.ctrl.Movies()
		if m.ctrl.DetailErrorMessage() != "" && m.list.cursor < len(movies) {
			return m, m.fetch(m.ctrl.OpenMovie(movies[m.list.cursor].ID))
		}
	}
	return m, nil
}

// resetInput empties the search box without emitting a query.
func (m *Model) resetInput() {
	m.input.SetValue("")
	m.input.Blur()
	m.coalescer.Clear()
}

func (m *Model) moveCursor(delta int) {
	m.list.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Movies())
	if m.list.cursor >= n {
		m.list.cursor = n - 1
	}
	if m.list.cursor < 0 {
		m.list.cursor = 0
	}
	rows := m.visibleRows()
	if m.list.cursor < m.list.offset {
		m.list.offset = m.list.cursor
	}
	if m.list.cursor >= m.list.offset+rows {
		m.list.offset = m.list.cursor - rows + 1
	}
}

func (m Model) visibleRows() int {
	rows := (m.height - 9) / 2
	if rows < 3 {
		return 3
	}
	return rows
}

// Query is the text currently in the search box.
func (m Model) Query() string { return strings.TrimSpace(m.input.Value()) }
