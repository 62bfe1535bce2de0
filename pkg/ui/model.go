// Package ui is the Bubble Tea front end. It owns the navigation controller
// and the list state store on the update goroutine; every network call runs
// in a tea.Cmd.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/board"
	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/config"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/deps"
	"github.com/vanderheijden86/taskpeek/pkg/history"
	"github.com/vanderheijden86/taskpeek/pkg/liststate"
	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/nav"
	"github.com/vanderheijden86/taskpeek/pkg/overview"
	"github.com/vanderheijden86/taskpeek/pkg/peek"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// Options configures New.
type Options struct {
	Client *api.Client
	Config config.Config
	// Start is the address to open. Empty means Config.UI.StartRoute.
	Start string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Messages delivered by commands.
type (
	listLoadedMsg struct {
		res       listview.Result
		committed bool
	}
	boardLoadedMsg struct {
		gen   uint64
		board board.Board
	}
	overviewLoadedMsg struct {
		gen   uint64
		cat   *catalog.Catalog
		cards []overview.Card
	}
	catalogLoadedMsg struct {
		cat *catalog.Catalog
	}
	peekLoadedMsg struct {
		snap peek.Snapshot
	}
)

// bridge carries work that nav callbacks schedule while Update is running.
// Callbacks cannot return commands, so they queue them here and Update drains
// the queue before returning.
type bridge struct {
	cmds []tea.Cmd

	boardGen    uint64
	overviewGen uint64
	catalog     *catalog.Catalog
}

func (b *bridge) push(cmd tea.Cmd) {
	if cmd != nil {
		b.cmds = append(b.cmds, cmd)
	}
}

func (b *bridge) drain() tea.Cmd {
	cmds := b.cmds
	b.cmds = nil
	return tea.Batch(cmds...)
}

// detailPresenter opens and closes the peek overlay when the address names a
// task or stops naming one.
type detailPresenter struct {
	ctx    context.Context
	peek   *peek.Controller
	bridge *bridge
}

func (p *detailPresenter) ShowDetail(id string) {
	if p.peek.Showing(id) {
		return
	}
	p.bridge.push(loadPeekCmd(p.ctx, p.peek, p.peek.Open(id)))
}

func (p *detailPresenter) HideDetail() {
	p.peek.Close()
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	client *api.Client
	cfg    config.Config
	now    func() time.Time

	nav    *nav.Controller
	store  *liststate.Store
	loader *listview.Loader
	peek   *peek.Controller
	bridge *bridge

	catalog  *catalog.Catalog
	list     listview.Result
	board    board.Board
	boardGen uint64
	cards    []overview.Card
	cardsGen uint64

	cursor   int
	boardCol int
	boardRow int

	search    textinput.Model
	searching bool
	filter    *filterForm

	peekView   viewport.Model
	peekTicket peek.Ticket
	peekState  peek.State
	peekStale  bool
	md         *glamour.TermRenderer

	width  int
	height int
	flash  string
}

// New builds the model and applies the start address. The first loads are
// returned by Init.
func New(opts Options) Model {
	ctx := context.Background()
	cfg := opts.Config
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	b := &bridge{}
	cache := deps.NewStatusCache()
	resolver := deps.NewResolver(opts.Client, cache, deps.WithConcurrency(cfg.List.LookupConcurrency))
	loader := listview.NewLoader(opts.Client, resolver, listview.WithDepsLimit(cfg.List.DepsLimit))
	pk := peek.New(opts.Client, cache, peek.WithDepsLimit(cfg.List.DepsLimit))

	initial := route.DefaultListState()
	if cfg.List.PageSize > 0 {
		initial.PageSize = cfg.List.PageSize
	}
	store := liststate.New(initial)
	hist := history.New(route.Href(route.ListRoute(initial)))

	refresh := func(r route.Route) {
		switch r.Kind {
		case route.KindBoard:
			b.boardGen++
			b.push(loadBoardCmd(ctx, opts.Client, resolver, b.catalog, r.Swimlane, cfg.List.DepsLimit, b.boardGen))
		case route.KindOverview:
			b.overviewGen++
			b.push(loadOverviewCmd(ctx, opts.Client, cfg.List.LookupConcurrency, b.overviewGen))
		default:
			b.push(loadListCmd(ctx, loader, loader.Next(), r.List))
		}
	}
	presenter := &detailPresenter{ctx: ctx, peek: pk, bridge: b}
	ctrl := nav.New(store, hist, nav.WithRefresh(refresh), nav.WithPresenter(presenter))
	pk.SetRouter(ctrl)

	ti := textinput.New()
	ti.Placeholder = "search title, description or id"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:      ctx,
		client:   opts.Client,
		cfg:      cfg,
		now:      now,
		nav:      ctrl,
		store:    store,
		loader:   loader,
		peek:     pk,
		bridge:   b,
		search:   ti,
		peekView: viewport.New(80, 20),
		width:    100,
		height:   30,
	}

	start := opts.Start
	if start == "" {
		start = cfg.UI.StartRoute
	}
	ctrl.Start(route.WithPageSize(start, initial.PageSize))
	return m
}

// Init starts the catalog load and whatever Start scheduled.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCatalogCmd(m.ctx, m.client), m.bridge.drain())
}

// Nav exposes the navigation controller.
func (m Model) Nav() *nav.Controller {
	return m.nav
}

// Peek exposes the overlay controller.
func (m Model) Peek() *peek.Controller {
	return m.peek
}

// List returns the list result on screen.
func (m Model) List() listview.Result {
	return m.list
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.peekView.Width = max(20, m.width-6)
		m.peekView.Height = max(5, m.height-8)
		m.md, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(20, m.peekView.Width-2)),
		)
		m.peekStale = true

	case catalogLoadedMsg:
		m.catalog = msg.cat
		m.bridge.catalog = msg.cat

	case listLoadedMsg:
		m = m.applyList(msg)

	case boardLoadedMsg:
		if msg.gen == m.bridge.boardGen {
			m.board = msg.board
			m.boardGen = msg.gen
			m.boardCol, m.boardRow = clampBoard(m.board, m.boardCol, m.boardRow)
		}

	case overviewLoadedMsg:
		if msg.gen == m.bridge.overviewGen {
			m.cards = msg.cards
			m.cardsGen = msg.gen
			m.catalog = msg.cat
			m.bridge.catalog = msg.cat
			m.cursor = min(m.cursor, max(0, len(m.cards)-1))
		}

	case peekLoadedMsg:
		// The controller already holds the snapshot; syncPeek redraws it.

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	}

	m = m.syncPeek()
	return m, tea.Batch(cmd, m.bridge.drain())
}

// applyList shows a committed list result. The server count is only applied
// when the result matches the state on screen, so a late count for an older
// filter never clamps the current page.
func (m Model) applyList(msg listLoadedMsg) Model {
	if !msg.committed {
		debug.Log("ui: dropping list gen %d", msg.res.Generation)
		return m
	}
	m.list = msg.res
	m.cursor = min(m.cursor, max(0, len(m.list.Rows)-1))
	if msg.res.CountKnown && m.nav.Base().Kind == route.KindList && msg.res.State == m.store.State() {
		m.nav.ApplyTotalCount(msg.res.TotalCount)
	}
	return m
}

func clampBoard(b board.Board, col, row int) (int, int) {
	if len(b.Columns) == 0 {
		return 0, 0
	}
	col = min(max(col, 0), len(b.Columns)-1)
	row = min(max(row, 0), max(0, len(b.Columns[col].Rows)-1))
	return col, row
}

// listLoading reports whether a newer list load is in flight.
func (m Model) listLoading() bool {
	return m.list.Generation < m.loader.Latest()
}

func loadListCmd(ctx context.Context, l *listview.Loader, gen listview.Generation, s route.ListState) tea.Cmd {
	return func() tea.Msg {
		res, committed := l.Run(ctx, gen, s)
		return listLoadedMsg{res: res, committed: committed}
	}
}

func loadBoardCmd(ctx context.Context, src board.Source, r *deps.Resolver, cat *catalog.Catalog, lane route.Swimlane, depsLimit int, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return boardLoadedMsg{gen: gen, board: board.Load(ctx, src, r, cat, lane, depsLimit)}
	}
}

func loadOverviewCmd(ctx context.Context, client *api.Client, limit int, gen uint64) tea.Cmd {
	return func() tea.Msg {
		cat := catalog.Load(ctx, client)
		return overviewLoadedMsg{gen: gen, cat: cat, cards: overview.Load(ctx, client, cat, limit)}
	}
}

func loadCatalogCmd(ctx context.Context, src catalog.Source) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{cat: catalog.Load(ctx, src)}
	}
}

func loadPeekCmd(ctx context.Context, pk *peek.Controller, t peek.Ticket) tea.Cmd {
	return func() tea.Msg {
		return peekLoadedMsg{snap: pk.Load(ctx, t)}
	}
}
