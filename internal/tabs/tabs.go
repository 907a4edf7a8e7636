package tabs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"tabdeck/internal/anchor"
	"tabdeck/internal/bus"
	"tabdeck/internal/logs"
	"tabdeck/internal/markup"
	"tabdeck/internal/telemetry"
)

var (
	// ErrNoControls is returned when a container holds no tab controls.
	ErrNoControls = errors.New("no tab controls")
	// ErrMalformedLink is returned when a control's href lacks "#<group>=<tab>".
	ErrMalformedLink = errors.New("malformed tab link")
	// ErrNoSuchTab is returned by Show for a tab the group does not have.
	ErrNoSuchTab = errors.New("no such tab")
)

// Registry is the location registry a Group synchronizes with.
type Registry interface {
	Get(key string) (string, bool)
	Has(key string) bool
	Set(key, value string)
	On(event string, fn anchor.Handler) anchor.Subscription
}

// Classes are the marker classes toggled on the active title and body.
type Classes struct {
	ActiveTitle string
	ActiveBody  string
}

// DefaultClasses match the stock tab stylesheet.
var DefaultClasses = Classes{
	ActiveTitle: "tabs__title_active_yes",
	ActiveBody:  "tabs__body_active_yes",
}

// Selectors are the class names identifying each role in the markup.
type Selectors struct {
	Group   string // container; used by page discovery
	Titles  string // wrapper around the titles; the first one beneath the container wins
	Title   string
	Control string
	Body    string // direct children of the container
}

// DefaultSelectors match the stock tab markup.
var DefaultSelectors = Selectors{
	Group:   "tabs",
	Titles:  "tabs__titles",
	Title:   "tabs__title",
	Control: "tabs__control",
	Body:    "tabs__body",
}

// ChangeFunc observes tab changes on a single group.
type ChangeFunc func(tab string, g *Group)

// Option configures a Group.
type Option func(*Group)

// WithClasses overrides the active marker classes. Empty fields keep their defaults.
func WithClasses(c Classes) Option {
	return func(g *Group) {
		if c.ActiveTitle != "" {
			g.classes.ActiveTitle = c.ActiveTitle
		}
		if c.ActiveBody != "" {
			g.classes.ActiveBody = c.ActiveBody
		}
	}
}

// WithSelectors overrides the role class names.
func WithSelectors(s Selectors) Option {
	return func(g *Group) { g.sel = s }
}

// WithBus sets where visibility broadcasts go.
func WithBus(p bus.Publisher) Option {
	return func(g *Group) { g.pub = p }
}

// WithTelemetry traces transitions through p.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(g *Group) { g.tracer = p.Tracer() }
}

type observer struct {
	id int
	fn ChangeFunc
}

// Group is one set of mutually exclusive tabs.
type Group struct {
	root *markup.Element
	reg  Registry
	pub  bus.Publisher

	tracer  oteltrace.Tracer
	classes Classes
	sel     Selectors

	titles   []*markup.Element
	bodies   []*markup.Element
	controls []*markup.Element

	name   string
	named  bool
	active string

	observers []observer
	nextObs   int

	sub      anchor.Subscription
	offClick func()
}

// New binds a group to the markup beneath root and links it with reg. If reg
// already holds a tab for the group, that tab is shown instead of the first one.
func New(root *markup.Element, reg Registry, opts ...Option) (*Group, error) {
	g := &Group{
		root:    root,
		reg:     reg,
		tracer:  noop.NewTracerProvider().Tracer(telemetry.InstrumentationName),
		classes: DefaultClasses,
		sel:     DefaultSelectors,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.bind(); err != nil {
		return nil, err
	}
	if err := g.initActiveTab(); err != nil {
		return nil, err
	}
	if err := g.linkWithAnchor(); err != nil {
		g.Close()
		return nil, err
	}
	g.offClick = root.Document().On("click", markup.In(g.controls), g.onClick)
	return g, nil
}

func (g *Group) bind() error {
	wrapper := g.root.First(g.sel.Titles)
	if wrapper == nil {
		return fmt.Errorf("%w: no %q beneath container", ErrNoControls, g.sel.Titles)
	}
	g.controls = wrapper.Find(g.sel.Control)
	if len(g.controls) == 0 {
		return fmt.Errorf("%w: no %q beneath %q", ErrNoControls, g.sel.Control, g.sel.Titles)
	}
	g.titles = wrapper.Find(g.sel.Title)
	g.bodies = g.root.Children(g.sel.Body)
	return nil
}

func (g *Group) initActiveTab() error {
	_, tab, err := namesFromEl(g.controls[0])
	if err != nil {
		return err
	}
	g.active = tab
	return nil
}

func (g *Group) linkWithAnchor() error {
	name := g.Name()
	g.sub = g.reg.On(anchor.ChangeEvent(name), g.onAnchorChange)
	if !g.reg.Has(name) {
		return nil
	}
	tab, _ := g.reg.Get(name)
	if tab == "" {
		g.reassert()
		return nil
	}
	if err := g.Show(tab); err != nil {
		return fmt.Errorf("restore group %q: %w", name, err)
	}
	return nil
}

// reassert writes the active tab back over an empty registry value, so the
// registry never lags behind what the group shows.
func (g *Group) reassert() {
	g.reg.Set(g.Name(), g.active)
}

func (g *Group) onAnchorChange(_, tab string) {
	if tab == "" {
		g.reassert()
		return
	}
	if err := g.Show(tab); err != nil {
		logs.Warn("ignoring location change", "group", g.Name(), "err", err)
	}
}

func (g *Group) onClick(ev *markup.Event) {
	ev.PreventDefault()
	_, tab, err := namesFromEl(ev.CurrentTarget)
	if err != nil {
		logs.Warn("tab click", "group", g.Name(), "err", err)
		return
	}
	if err := g.Show(tab); err != nil {
		logs.Warn("tab click", "group", g.Name(), "err", err)
	}
}

// Show makes tab the active tab. Showing the active tab does nothing.
func (g *Group) Show(tab string) error {
	if tab == g.active {
		return nil
	}
	name := g.Name()

	title := g.titleByName(tab)
	if title == nil {
		return fmt.Errorf("%w: %q in group %q%s", ErrNoSuchTab, tab, name, g.Suggest(tab))
	}
	idx := markup.Index(g.titles, title)
	if idx >= len(g.bodies) {
		return fmt.Errorf("%w: %q in group %q has no body at position %d", ErrNoSuchTab, tab, name, idx)
	}
	body := g.bodies[idx]

	_, span := g.tracer.Start(context.Background(), "tabs.show", oteltrace.WithAttributes(
		attribute.String("tabdeck.group", name),
		attribute.String("tabdeck.tab.from", g.active),
		attribute.String("tabdeck.tab.to", tab),
	))
	defer span.End()

	for _, t := range g.titles {
		t.RemoveClass(g.classes.ActiveTitle)
	}
	title.AddClass(g.classes.ActiveTitle)
	for _, b := range g.bodies {
		b.RemoveClass(g.classes.ActiveBody)
	}
	body.AddClass(g.classes.ActiveBody)

	from := g.active
	g.active = tab
	logs.Debug("tab shown", "group", name, "from", from, "to", tab)

	// The registry calls back into onAnchorChange; g.active already equals tab.
	g.reg.Set(name, tab)

	for _, o := range g.snapshotObservers() {
		o.fn(tab, g)
	}
	if g.pub != nil {
		g.pub.Publish(bus.TopicVisibility)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Name returns the group name encoded in the first control's link. It is
// computed on first use and cached.
func (g *Group) Name() string {
	if !g.named {
		g.name, _, _ = namesFromEl(g.controls[0])
		g.named = true
	}
	return g.name
}

// ActiveTabName returns the active tab.
func (g *Group) ActiveTabName() string {
	return g.active
}

// Tabs returns the tab names in document order. Controls with malformed
// links are skipped.
func (g *Group) Tabs() []string {
	out := make([]string, 0, len(g.controls))
	for _, c := range g.controls {
		if _, tab, err := namesFromEl(c); err == nil {
			out = append(out, tab)
		}
	}
	return out
}

// Control returns the control element for tab, or nil.
func (g *Group) Control(tab string) *markup.Element {
	target := "#" + g.Name() + "=" + tab
	for _, c := range g.controls {
		if href, _ := c.Attr("href"); strings.HasSuffix(href, target) {
			return c
		}
	}
	return nil
}

// Title returns the title element for tab, or nil.
func (g *Group) Title(tab string) *markup.Element {
	return g.titleByName(tab)
}

// Body returns the body paired with tab, or nil.
func (g *Group) Body(tab string) *markup.Element {
	idx := markup.Index(g.titles, g.titleByName(tab))
	if idx < 0 || idx >= len(g.bodies) {
		return nil
	}
	return g.bodies[idx]
}

// Root returns the group's container.
func (g *Group) Root() *markup.Element { return g.root }

// OnChange registers fn to run after every effective tab change.
func (g *Group) OnChange(fn ChangeFunc) (off func()) {
	g.nextObs++
	id := g.nextObs
	g.observers = append(g.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range g.observers {
			if o.id == id {
				g.observers = append(g.observers[:i:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

// Close detaches the group from the registry and stops handling clicks.
// The markup keeps its current state. Close is idempotent.
func (g *Group) Close() {
	if g.sub != nil {
		g.sub.Unsubscribe()
		g.sub = nil
	}
	if g.offClick != nil {
		g.offClick()
		g.offClick = nil
	}
}

func (g *Group) titleByName(tab string) *markup.Element {
	c := g.Control(tab)
	if c == nil {
		return nil
	}
	t := c.Closest(g.sel.Title)
	if markup.Index(g.titles, t) < 0 {
		return nil
	}
	return t
}

func (g *Group) snapshotObservers() []observer {
	out := make([]observer, len(g.observers))
	copy(out, g.observers)
	return out
}

// Suggest returns a " (did you mean ...)" hint for a mistyped tab name, or
// "" when no tab is close enough.
func (g *Group) Suggest(tab string) string {
	best, bestDist := "", -1
	for _, name := range g.Tabs() {
		d := levenshtein.ComputeDistance(tab, name)
		if bestDist < 0 || d < bestDist {
			best, bestDist = name, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(tab)/3) {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// namesFromEl splits a control's href fragment into group and tab names.
func namesFromEl(el *markup.Element) (group, tab string, err error) {
	href, _ := el.Attr("href")
	return ParseLink(href)
}

// ParseLink splits "<anything>#<group>=<tab>" into its group and tab.
func ParseLink(href string) (group, tab string, err error) {
	_, frag, ok := strings.Cut(href, "#")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no fragment", ErrMalformedLink, href)
	}
	group, tab, ok = strings.Cut(frag, "=")
	if !ok || group == "" {
		return "", "", fmt.Errorf("%w: %q is not <group>=<tab>", ErrMalformedLink, href)
	}
	return group, tab, nil
}
