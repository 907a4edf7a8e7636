// Package page wires every tab group found in a document to one shared
// location registry and event bus.
package page

import (
	"errors"
	"fmt"

	"tabdeck/internal/anchor"
	"tabdeck/internal/bus"
	"tabdeck/internal/logs"
	"tabdeck/internal/markup"
	"tabdeck/internal/tabs"
	"tabdeck/internal/telemetry"
)

// ErrDuplicateGroup is returned when two containers encode the same group
// name; they would share one registry key.
var ErrDuplicateGroup = errors.New("duplicate tab group")

// ErrUnknownGroup is returned for a group name the page does not have.
var ErrUnknownGroup = errors.New("unknown tab group")

// Config controls how groups are discovered and built. Zero fields take defaults.
type Config struct {
	Selectors tabs.Selectors
	Classes   tabs.Classes
	Bus       *bus.Bus
	Telemetry *telemetry.Provider
}

// Page is a document plus the groups bound to it.
type Page struct {
	cfg    Config
	doc    *markup.Document
	reg    *anchor.Registry
	bus    *bus.Bus
	groups []*tabs.Group
	byName map[string]*tabs.Group
}

// Load binds a group to every container in doc, in document order. Groups
// whose name already has a value in reg start on that tab.
func Load(doc *markup.Document, reg *anchor.Registry, cfg Config) (*Page, error) {
	if cfg.Selectors == (tabs.Selectors{}) {
		cfg.Selectors = tabs.DefaultSelectors
	}
	if cfg.Classes.ActiveTitle == "" {
		cfg.Classes.ActiveTitle = tabs.DefaultClasses.ActiveTitle
	}
	if cfg.Classes.ActiveBody == "" {
		cfg.Classes.ActiveBody = tabs.DefaultClasses.ActiveBody
	}
	if cfg.Bus == nil {
		cfg.Bus = bus.New()
	}
	opts := []tabs.Option{
		tabs.WithSelectors(cfg.Selectors),
		tabs.WithClasses(cfg.Classes),
		tabs.WithBus(cfg.Bus),
		tabs.WithTelemetry(cfg.Telemetry),
	}

	p := &Page{cfg: cfg, doc: doc, reg: reg, bus: cfg.Bus, byName: make(map[string]*tabs.Group)}
	for _, root := range doc.Find(cfg.Selectors.Group) {
		g, err := tabs.New(root, reg, opts...)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("tab group %d: %w", len(p.groups)+1, err)
		}
		if _, dup := p.byName[g.Name()]; dup {
			g.Close()
			p.Close()
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroup, g.Name())
		}
		p.groups = append(p.groups, g)
		p.byName[g.Name()] = g
		logs.Debug("tab group bound", "group", g.Name(), "tabs", g.Tabs(), "active", g.ActiveTabName())
	}
	return p, nil
}

// Document returns the page's document.
func (p *Page) Document() *markup.Document { return p.doc }

// Registry returns the page's location registry.
func (p *Page) Registry() *anchor.Registry { return p.reg }

// Bus returns the page's event bus.
func (p *Page) Bus() *bus.Bus { return p.bus }

// Classes returns the marker classes in effect.
func (p *Page) Classes() tabs.Classes { return p.cfg.Classes }

// Selectors returns the role classes in effect.
func (p *Page) Selectors() tabs.Selectors { return p.cfg.Selectors }

// Groups returns the groups in document order.
func (p *Page) Groups() []*tabs.Group { return p.groups }

// Group looks a group up by name.
func (p *Page) Group(name string) (*tabs.Group, bool) {
	g, ok := p.byName[name]
	return g, ok
}

// Visible reports whether g sits only inside active bodies, i.e. a reader
// of the page could see it.
func (p *Page) Visible(g *tabs.Group) bool {
	for el := g.Root().Parent(); el != nil; el = el.Parent() {
		if el.HasClass(p.cfg.Selectors.Body) && !el.HasClass(p.cfg.Classes.ActiveBody) {
			return false
		}
	}
	return true
}

// VisibleGroups returns the visible groups in document order.
func (p *Page) VisibleGroups() []*tabs.Group {
	var out []*tabs.Group
	for _, g := range p.groups {
		if p.Visible(g) {
			out = append(out, g)
		}
	}
	return out
}

// Depth returns how many other groups enclose g.
func (p *Page) Depth(g *tabs.Group) int {
	depth := 0
	for el := g.Root().Parent(); el != nil; el = el.Parent() {
		if el.HasClass(p.cfg.Selectors.Group) {
			depth++
		}
	}
	return depth
}

// Click clicks the control of tab in group, as a user would.
func (p *Page) Click(group, tab string) error {
	g, ok := p.byName[group]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	c := g.Control(tab)
	if c == nil {
		return fmt.Errorf("%w: %q in group %q%s", tabs.ErrNoSuchTab, tab, group, g.Suggest(tab))
	}
	p.doc.Click(c)
	return nil
}

// Step clicks the tab delta positions away from the active one in group,
// wrapping around at either end.
func (p *Page) Step(group string, delta int) error {
	g, ok := p.byName[group]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	names := g.Tabs()
	if len(names) == 0 {
		return nil
	}
	cur := 0
	for i, n := range names {
		if n == g.ActiveTabName() {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(names) + len(names)) % len(names)
	return p.Click(group, names[next])
}

// Fragment returns the location fragment describing every group's selection.
func (p *Page) Fragment() string { return p.reg.Fragment() }

// Restore applies a location fragment; groups follow their keys.
func (p *Page) Restore(fragment string) error {
	return p.reg.SetFragment(fragment)
}

// Close detaches every group.
func (p *Page) Close() {
	for _, g := range p.groups {
		g.Close()
	}
}
