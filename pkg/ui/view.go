package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/peek"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch {
	case m.filter != nil:
		body = m.filter.form.View()
	case m.peek.Snapshot().State != peek.Closed:
		body = m.renderPeek()
	default:
		switch m.nav.Base().Kind {
		case route.KindBoard:
			body = m.renderBoard()
		case route.KindOverview:
			body = m.renderOverview()
		default:
			body = m.renderList()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	tabs := []struct {
		key  string
		name string
		kind route.Kind
	}{
		{"1", "List", route.KindList},
		{"2", "Board", route.KindBoard},
		{"3", "Overview", route.KindOverview},
	}
	var parts []string
	base := m.nav.Base().Kind
	for _, t := range tabs {
		label := t.key + " " + t.name
		if t.kind == base {
			parts = append(parts, TitleStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, MutedStyle.Render(" "+label+" "))
		}
	}
	nav := ""
	if m.nav.CanGoBack() {
		nav += "◀"
	}
	if m.nav.CanGoForward() {
		nav += "▶"
	}
	addr := AddressStyle.Render(truncate(m.nav.Address(), max(10, m.width-40)))
	return strings.Join(parts, " ") + "  " + MutedStyle.Render(nav) + " " + addr
}

func (m Model) renderFooter() string {
	if m.searching {
		return m.search.View()
	}
	if m.flash != "" {
		return SuccessStyle.Render(m.flash)
	}
	var help string
	switch {
	case m.filter != nil:
		help = "enter: next/apply • esc: cancel"
	case m.peek.Snapshot().State != peek.Closed:
		help = "enter: open as page • j/k: scroll • [ ]: back/forward • esc: close"
	case m.nav.Base().Kind == route.KindBoard:
		help = "h/l/j/k: move • enter: peek • s: swimlane • r: reload • q: quit"
	case m.nav.Base().Kind == route.KindOverview:
		help = "j/k: move • enter: list phase • r: reload • q: quit"
	default:
		help = "enter: peek • n/p: page • z: page size • s/o: sort • g: group • /: search • f: filter • b: blocked • x: reset • q: quit"
	}
	return MutedStyle.Render(truncate(help, max(10, m.width)))
}

// bodyHeight is the number of lines available between header and footer.
func (m Model) bodyHeight() int {
	return max(3, m.height-2)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST
// ══════════════════════════════════════════════════════════════════════════════

const (
	colID        = 6
	colStatus    = 4
	colRole      = 16
	colPhase     = 18
	colMilestone = 18
	colUpdated   = 14
)

func (m Model) titleWidth() int {
	fixed := colID + colStatus + colRole + colPhase + colMilestone + colUpdated + 7
	return max(12, m.width-fixed)
}

func (m Model) renderList() string {
	s := m.store.State()
	var lines []string

	if s.Filters.Active() || s.Search != "" {
		lines = append(lines, MutedStyle.Render(truncate(describeFilters(m.catalog, s), m.width)))
	}

	arrow := "↓"
	if s.Order == route.OrderAsc {
		arrow = "↑"
	}
	header := strings.Join([]string{
		cell("ID", colID), cell("STAT", colStatus), cell("TITLE", m.titleWidth()),
		cell("ROLE", colRole), cell("PHASE", colPhase), cell("MILESTONE", colMilestone),
		cell("UPDATED", colUpdated),
	}, " ")
	lines = append(lines, HeaderStyle.Render(header)+" "+MutedStyle.Render(string(s.Sort)+arrow))

	selected := -1
	switch {
	case m.list.Err != nil:
		lines = append(lines, ErrorStyle.Render("Could not load tasks: "+m.list.Err.Error()))
	case len(m.list.Rows) == 0 && m.listLoading():
		lines = append(lines, MutedStyle.Render("Loading…"))
	case len(m.list.Rows) == 0:
		lines = append(lines, MutedStyle.Render("No tasks match."))
	default:
		i := 0
		grouped := s.GroupBy != route.GroupNone
		for _, g := range m.list.Groups {
			if grouped {
				label := groupLabel(m.catalog, s.GroupBy, g.Key)
				lines = append(lines, GroupStyle.Render(fmt.Sprintf("%s (%d)", label, len(g.Rows))))
			}
			for _, r := range g.Rows {
				line := m.renderRow(r)
				if i == m.cursor {
					selected = len(lines)
					line = SelectedStyle.Render(line)
				}
				lines = append(lines, line)
				i++
			}
		}
	}

	lines = window(lines, selected, m.bodyHeight()-1)
	lines = append(lines, m.renderPagination())
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r listview.Row) string {
	t := r.Task
	return strings.Join([]string{
		cell(t.ID, colID),
		RenderStatusBadge(r.DisplayStatus()),
		cell(t.Title, m.titleWidth()),
		cell(roleLabel(t.Role), colRole),
		cell(m.catalog.PhaseLabel(t.PhaseID), colPhase),
		cell(m.catalog.MilestoneLabel(t.MilestoneID), colMilestone),
		cell(listview.Age(t.UpdatedAt, m.now()), colUpdated),
	}, " ")
}

func (m Model) renderPagination() string {
	s := m.store.State()
	var text string
	if m.list.CountKnown {
		text = fmt.Sprintf("Page %d/%d • %d tasks", s.Page, m.store.TotalPages(), m.store.TotalCount())
	} else {
		text = fmt.Sprintf("Page %d • count unavailable", s.Page)
	}
	if m.listLoading() {
		text += " • loading"
	}
	return MutedStyle.Render(text)
}

// window keeps at most height lines, scrolled so that line focus is visible.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	return lines[start : start+height]
}

func describeFilters(cat *catalog.Catalog, s route.ListState) string {
	var parts []string
	if f := s.Filters; f.Phase != "" {
		parts = append(parts, "phase: "+cat.PhaseLabel(f.Phase))
	}
	if f := s.Filters; f.Milestone != "" {
		parts = append(parts, "milestone: "+cat.MilestoneLabel(f.Milestone))
	}
	if f := s.Filters; f.Role != "" {
		parts = append(parts, "role: "+roleLabel(f.Role))
	}
	if f := s.Filters; f.Status != "" {
		parts = append(parts, "status: "+f.Status.Label())
	}
	if f := s.Filters; f.Blocked != route.BlockedAny {
		parts = append(parts, "only "+string(f.Blocked))
	}
	if s.Search != "" {
		parts = append(parts, "search: "+strconv.Quote(s.Search))
	}
	return "Filtered by " + strings.Join(parts, ", ")
}

func groupLabel(cat *catalog.Catalog, by route.GroupBy, key string) string {
	switch by {
	case route.GroupPhase:
		return cat.PhaseLabel(key)
	case route.GroupMilestone:
		return cat.MilestoneLabel(key)
	case route.GroupRole:
		return roleLabel(key)
	case route.GroupStatus:
		return model.Status(key).Label()
	}
	return key
}

func roleLabel(role string) string {
	if role == "" {
		return catalog.Placeholder
	}
	for _, r := range model.KnownRoles {
		if r.Value == role {
			return r.Label
		}
	}
	return role
}

// ══════════════════════════════════════════════════════════════════════════════
// BOARD
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) renderBoard() string {
	if m.board.Err != nil {
		return ErrorStyle.Render("Could not load tasks: " + m.board.Err.Error())
	}
	cols := m.board.Columns
	if len(cols) == 0 || m.boardGen < m.bridge.boardGen && m.boardGen == 0 {
		return MutedStyle.Render("Loading…")
	}

	width := max(16, m.width/len(cols)-2)
	height := max(1, m.bodyHeight()-4)
	rendered := make([]string, len(cols))
	for ci, c := range cols {
		lines := []string{TitleStyle.Render(truncate(fmt.Sprintf("%s (%d)", c.Title, len(c.Rows)), width))}
		focus := -1
		for ri, r := range c.Rows {
			line := RenderStatusBadge(r.DisplayStatus()) + " " + truncate(r.Task.ID+" "+r.Task.Title, width-5)
			if ci == m.boardCol && ri == m.boardRow {
				focus = len(lines)
				line = SelectedStyle.Render(line)
			}
			lines = append(lines, line)
		}
		style := PanelStyle.Width(width)
		if ci == m.boardCol {
			style = style.BorderForeground(ColorPrimary)
		}
		rendered[ci] = style.Render(strings.Join(window(lines, focus, height), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ══════════════════════════════════════════════════════════════════════════════
// OVERVIEW
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) renderOverview() string {
	if m.cardsGen == 0 {
		return MutedStyle.Render("Loading…")
	}
	if m.catalog != nil && m.catalog.PhaseErr != nil {
		return ErrorStyle.Render("Could not load phases: " + m.catalog.PhaseErr.Error())
	}
	if len(m.cards) == 0 {
		return MutedStyle.Render("No phases.")
	}

	width := max(30, min(m.width-4, 72))
	var out []string
	for i, c := range m.cards {
		var b strings.Builder
		b.WriteString(TitleStyle.Render(c.Phase.ID+" - "+c.Phase.Name) + " " + MutedStyle.Render(c.Phase.Status))
		b.WriteString("\n")
		if c.Err != nil {
			b.WriteString(ErrorStyle.Render("counts unavailable"))
		} else {
			b.WriteString(progressBar(c.Percent(), 20) + fmt.Sprintf(" %d%% (%d/%d done)", c.Percent(), c.Done, c.Total))
		}
		for _, ms := range c.Milestones {
			mark := MutedStyle.Render("○")
			if ms.Reached {
				mark = SuccessStyle.Render("✓")
			}
			b.WriteString("\n" + mark + " " + truncate(ms.ID+" "+ms.Name+": "+ms.Criterion, width-4))
		}
		style := PanelStyle.Width(width)
		if i == m.cursor {
			style = style.BorderForeground(ColorPrimary)
		}
		out = append(out, style.Render(b.String()))
	}
	return strings.Join(out, "\n")
}

func progressBar(percent, width int) string {
	filled := min(width, max(0, percent*width/100))
	return SuccessStyle.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}

// ══════════════════════════════════════════════════════════════════════════════
// PEEK
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) renderPeek() string {
	snap := m.peek.Snapshot()
	title := snap.TaskID
	if snap.Detail != nil {
		title += " " + snap.Detail.Task.Title
	}
	head := TitleStyle.Render(truncate(title, max(10, m.peekView.Width)))
	if m.nav.Current().Kind == route.KindTask {
		head += " " + AddressStyle.Render("(page)")
	}
	return OverlayStyle.Render(head + "\n" + m.peekView.View())
}

// syncPeek redraws the overlay content when the snapshot has moved on.
func (m Model) syncPeek() Model {
	snap := m.peek.Snapshot()
	if !m.peekStale && snap.Ticket == m.peekTicket && snap.State == m.peekState {
		return m
	}
	m.peekTicket, m.peekState, m.peekStale = snap.Ticket, snap.State, false
	m.peekView.SetContent(m.peekContent(snap))
	m.peekView.GotoTop()
	return m
}

func (m Model) peekContent(snap peek.Snapshot) string {
	switch snap.State {
	case peek.Loading:
		return MutedStyle.Render("Loading " + snap.TaskID + "…")
	case peek.Error:
		if snap.Reason == peek.ReasonNotFound {
			return ErrorStyle.Render("Task " + snap.TaskID + " was not found.")
		}
		return ErrorStyle.Render("Could not load " + snap.TaskID + ": " + snap.Err.Error())
	case peek.Closed:
		return ""
	}

	d := snap.Detail
	t := d.Task
	var b strings.Builder
	status := string(t.Status)
	if d.Blocked && t.Status == model.StatusToDo {
		status = "blocked"
	}
	fmt.Fprintf(&b, "%s  %s\n", RenderStatusBadge(status), MutedStyle.Render(roleLabel(t.Role)))
	fmt.Fprintf(&b, "Phase:     %s\n", m.catalog.PhaseLabel(t.PhaseID))
	fmt.Fprintf(&b, "Milestone: %s\n", m.catalog.MilestoneLabel(t.MilestoneID))
	if age := listview.Age(t.UpdatedAt, m.now()); age != "" {
		fmt.Fprintf(&b, "Updated:   %s\n", age)
	}
	if created, ok := t.CreatedTime(); ok {
		fmt.Fprintf(&b, "Created:   %s\n", created.Format("2006-01-02"))
	}
	if t.Creator != "" {
		fmt.Fprintf(&b, "Creator:   %s\n", t.Creator)
	}
	if d.Blocked {
		b.WriteString(ErrorStyle.Render("Waiting on unfinished dependencies") + "\n")
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(desc))
		b.WriteString("\n")
	}

	writeRelations(&b, "Depends on", d.Parents)
	writeRelations(&b, "Blocks", d.Children)

	if len(d.Notes) > 0 {
		b.WriteString("\n" + HeaderStyle.Render("Notes") + "\n")
		for _, n := range d.Notes {
			meta := strings.TrimSpace(n.Kind + " • " + roleLabel(n.Role) + " • " + listview.Age(n.CreatedAt, m.now()))
			b.WriteString(MutedStyle.Render(meta) + "\n" + n.Content + "\n")
		}
	}
	return b.String()
}

func writeRelations(b *strings.Builder, title string, rels []peek.Relation) {
	if len(rels) == 0 {
		return
	}
	b.WriteString("\n" + HeaderStyle.Render(title) + "\n")
	for _, r := range rels {
		if !r.Found {
			b.WriteString("  " + r.ID + " " + MutedStyle.Render("(unavailable)") + "\n")
			continue
		}
		b.WriteString("  " + RenderStatusBadge(string(r.Task.Status)) + " " + r.ID + " " + r.Task.Title + "\n")
	}
}

// renderMarkdown renders with glamour when a renderer is available, and falls
// back to the raw text.
func (m Model) renderMarkdown(s string) string {
	if m.md == nil {
		return s
	}
	out, err := m.md.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}
