package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"tabdeck/internal/bus"
	"tabdeck/internal/logs"
	"tabdeck/internal/page"
	"tabdeck/internal/tabs"
)

// Saver persists the current fragment, e.g. as a named bookmark.
type Saver func(fragment string) error

// Option configures a Model.
type Option func(*Model)

// WithSaver enables the save key.
func WithSaver(s Saver) Option {
	return func(m *Model) { m.save = s }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// Model is the root tea.Model.
type Model struct {
	page  *page.Page
	keys  KeyMap
	help  help.Model
	focus FocusManager
	zones *zone.Manager
	save  Saver

	width  int
	height int
	status string
	err    error

	// visible caches page.VisibleGroups; nil after a visibility broadcast.
	visible []*tabs.Group
	offs    []func()
	closed  bool
}

var _ tea.Model = (*Model)(nil)

// New builds a model over p.
func New(p *page.Page, opts ...Option) *Model {
	m := &Model{
		page:  p,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		zones: zone.New(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.offs = append(m.offs, p.Bus().Subscribe(bus.TopicVisibility, func(...any) {
		m.visible = nil
	}))
	for _, g := range p.Groups() {
		m.offs = append(m.offs, g.OnChange(func(tab string, g *tabs.Group) {
			m.status = fmt.Sprintf("%s → %s", g.Name(), tab)
			m.err = nil
		}))
	}
	m.visibleGroups()
	m.focus.OnChange = func(_, to string) {
		if to != "" {
			m.status = "focus " + to
		}
	}
	return m
}

// Focused returns the focused group name.
func (m *Model) Focused() string { return m.focus.Current }

// Status returns the status line text and the last error.
func (m *Model) Status() (string, error) { return m.status, m.err }

// Close detaches the model from the page. Call it once the program has exited.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, off := range m.offs {
		off()
	}
	m.offs = nil
	m.zones.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if g, tab, ok := m.tabAt(msg); ok {
				m.focus.SetFocus(g.Name())
				m.click(g, tab)
			}
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextGroup):
		m.visibleGroups()
		m.focus.Next()
	case key.Matches(msg, m.keys.PrevGroup):
		m.visibleGroups()
		m.focus.Prev()
	case key.Matches(msg, m.keys.NextTab):
		m.step(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.step(-1)
	case key.Matches(msg, m.keys.Pick):
		m.pick(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Save):
		m.saveFragment()
	}
	return nil
}

func (m *Model) focused() *tabs.Group {
	m.visibleGroups()
	g, _ := m.page.Group(m.focus.Current)
	return g
}

func (m *Model) step(delta int) {
	g := m.focused()
	if g == nil {
		return
	}
	m.report(m.page.Step(g.Name(), delta))
}

func (m *Model) pick(idx int) {
	g := m.focused()
	if g == nil {
		return
	}
	names := g.Tabs()
	if idx < 0 || idx >= len(names) {
		return
	}
	m.click(g, names[idx])
}

func (m *Model) click(g *tabs.Group, tab string) {
	m.report(m.page.Click(g.Name(), tab))
}

func (m *Model) saveFragment() {
	if m.save == nil {
		m.status = "no bookmark name given (--bookmark)"
		return
	}
	frag := m.page.Fragment()
	if err := m.save(frag); err != nil {
		m.report(err)
		return
	}
	m.status = "saved " + frag
	m.err = nil
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	logs.Warn("ui action failed", "err", err)
	m.err = err
}

// visibleGroups refreshes the cache and focus order after a visibility change.
func (m *Model) visibleGroups() []*tabs.Group {
	if m.visible == nil {
		m.visible = m.page.VisibleGroups()
		order := make([]string, len(m.visible))
		for i, g := range m.visible {
			order[i] = g.Name()
		}
		m.focus.SetOrder(order)
	}
	return m.visible
}

func (m *Model) tabAt(msg tea.MouseMsg) (*tabs.Group, string, bool) {
	for _, g := range m.visibleGroups() {
		for _, tab := range g.Tabs() {
			if m.zones.Get(zoneID(g, tab)).InBounds(msg) {
				return g, tab, true
			}
		}
	}
	return nil, "", false
}

func zoneID(g *tabs.Group, tab string) string {
	return "tab:" + g.Name() + "=" + tab
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	for _, g := range m.visibleGroups() {
		sections = append(sections, m.renderGroup(g))
	}
	if len(sections) == 0 {
		sections = append(sections, Styles.Hint.Render("no tab groups on this page"))
	}
	sections = append(sections, m.renderFooter(), m.help.View(m.keys))
	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderGroup(g *tabs.Group) string {
	var titles []string
	for i, tab := range g.Tabs() {
		label := tab
		if t := g.Title(tab); t != nil && t.Text() != "" {
			label = t.Text()
		}
		style := Styles.Tab
		if tab == g.ActiveTabName() {
			style = Styles.ActiveTab
		}
		titles = append(titles, m.zones.Mark(zoneID(g, tab), style.Render(fmt.Sprintf("%d %s", i+1, label))))
	}
	row := strings.Join(titles, Styles.TabGap.Render("│"))

	body := ""
	if b := g.Body(g.ActiveTabName()); b != nil {
		body = b.TextExcluding(m.page.Selectors().Group)
	}
	indent := 2 * m.page.Depth(g)
	bodyStyle := Styles.Body
	if m.width > 0 {
		bodyStyle = bodyStyle.Width(max(10, m.width-indent-4))
	}

	box := Styles.Group
	if g.Name() == m.focus.Current {
		box = Styles.FocusedGroup
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		Styles.Heading.Render(g.Name()),
		row,
		bodyStyle.Render(body),
	)
	return lipgloss.NewStyle().MarginLeft(indent).Render(box.Render(content))
}

func (m *Model) renderFooter() string {
	frag := m.page.Fragment()
	if frag == "" {
		frag = "#"
	}
	line := Styles.Fragment.Render(frag)
	if m.err != nil {
		return line + "  " + Styles.Error.Render(m.err.Error())
	}
	if m.status != "" {
		line += "  " + Styles.Status.Render(m.status)
	}
	return line
}
