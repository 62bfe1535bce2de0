package ui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/peek"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

var (
	blockedCycle = []route.BlockedFilter{route.BlockedAny, route.BlockedOnly, route.BlockedExcluded}
	pageSizes    = []int{25, route.DefaultPageSize, 100, 200}
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.flash = ""

	switch {
	case m.filter != nil:
		return m.handleFilterKey(msg)
	case m.searching:
		return m.handleSearchKey(msg)
	case m.peek.Snapshot().State != peek.Closed:
		return m.handlePeekKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.nav.ShowList()
		return m, nil
	case "2":
		lane := route.SwimlaneStatus
		if b := m.nav.Base(); b.Kind == route.KindBoard {
			lane = b.Swimlane
		}
		m.nav.ShowBoard(lane)
		return m, nil
	case "3":
		m.cursor = 0
		m.nav.ShowOverview()
		return m, nil
	case "[", "alt+left":
		m.nav.Back()
		return m, nil
	case "]", "alt+right":
		m.nav.Forward()
		return m, nil
	case "r":
		m.nav.Reload()
		return m, nil
	case "y":
		m.copyAddress()
		return m, nil
	}

	switch m.nav.Base().Kind {
	case route.KindBoard:
		return m.handleBoardKey(msg)
	case route.KindOverview:
		return m.handleOverviewKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	s := m.store.State()
	rows := m.visibleRows()

	switch msg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, max(0, len(rows)-1))
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "enter", " ":
		if m.cursor < len(rows) {
			m.openPeek(rows[m.cursor].Task.ID)
		}
	case "n", "right":
		m.store.NextPage()
	case "p", "left":
		m.store.PrevPage()
	case "z":
		m.cursor = 0
		m.store.SetPageSize(cycle(pageSizes, s.PageSize))
	case "s":
		m.store.SetSort(cycle(route.SortFields, s.Sort), s.Order)
	case "o":
		m.store.SetSort(s.Sort, s.Order.Flip())
	case "g":
		m.store.SetGroupBy(cycle(route.GroupByOptions, s.GroupBy))
	case "b":
		m.store.SetFilter(route.FilterBlocked, string(cycle(blockedCycle, s.Filters.Blocked)))
	case "x":
		m.store.ResetFilters()
	case "/":
		m.searching = true
		m.search.SetValue(s.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "f":
		m.filter = newFilterForm(m.catalog, s.Filters)
		return m, m.filter.form.Init()
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.boardCol--
	case "l", "right":
		m.boardCol++
	case "k", "up":
		m.boardRow--
	case "j", "down":
		m.boardRow++
	case "s":
		m.nav.ShowBoard(cycle(route.Swimlanes, m.nav.Base().Swimlane))
	case "enter", " ":
		if row, ok := m.selectedBoardRow(); ok {
			m.openPeek(row.Task.ID)
		}
	}
	m.boardCol, m.boardRow = clampBoard(m.board, m.boardCol, m.boardRow)
	return m, nil
}

func (m Model) selectedBoardRow() (listview.Row, bool) {
	if m.boardCol >= len(m.board.Columns) {
		return listview.Row{}, false
	}
	rows := m.board.Columns[m.boardCol].Rows
	if m.boardRow >= len(rows) {
		return listview.Row{}, false
	}
	return rows[m.boardRow], true
}

// handleOverviewKey moves between phase cards; enter lists the phase's tasks.
func (m Model) handleOverviewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down", "l", "right":
		m.cursor = min(m.cursor+1, max(0, len(m.cards)-1))
	case "k", "up", "h", "left":
		m.cursor = max(m.cursor-1, 0)
	case "enter":
		if m.cursor < len(m.cards) {
			phase := m.cards[m.cursor].Phase.ID
			m.cursor = 0
			if !m.store.SetFilters(route.Filters{Phase: phase}) {
				m.nav.ShowList()
			}
		}
	}
	return m, nil
}

func (m Model) handlePeekKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.peek.Close()
		return m, nil
	case "enter":
		if m.peek.Promote() {
			m.copyAddress()
		}
		return m, nil
	case "[", "alt+left", "]", "alt+right":
		// A peek that was never addressed belongs to the view being left.
		if m.nav.Current().Kind != route.KindTask {
			m.peek.Close()
		}
		if k := msg.String(); k == "[" || k == "alt+left" {
			m.nav.Back()
		} else {
			m.nav.Forward()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.peekView, cmd = m.peekView.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.cursor = 0
		m.store.SetSearch(m.search.Value())
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.filter = nil
		return m, nil
	}
	next, cmd := m.filter.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.filter.form = f
	}
	switch m.filter.form.State {
	case huh.StateCompleted:
		filters := m.filter.filters()
		m.filter = nil
		m.cursor = 0
		m.store.SetFilters(filters)
		return m, nil
	case huh.StateAborted:
		m.filter = nil
		return m, nil
	}
	return m, cmd
}

// openPeek shows a task without making it addressable.
func (m *Model) openPeek(id string) {
	m.bridge.push(loadPeekCmd(m.ctx, m.peek, m.peek.Open(id)))
}

func (m *Model) copyAddress() {
	addr := m.nav.Address()
	if err := clipboard.WriteAll(addr); err != nil {
		m.flash = "address " + addr
		return
	}
	m.flash = "copied " + addr
}

// visibleRows returns rows in the order they are drawn: group by group.
func (m Model) visibleRows() []listview.Row {
	if len(m.list.Groups) <= 1 {
		return m.list.Rows
	}
	out := make([]listview.Row, 0, len(m.list.Rows))
	for _, g := range m.list.Groups {
		out = append(out, g.Rows...)
	}
	return out
}
