package markup

// Event is a dispatched UI event.
type Event struct {
	Type   string
	Target *Element

	// CurrentTarget is the element whose listener is running.
	CurrentTarget *Element

	DefaultPrevented bool

	// Navigate is the href a click would follow once dispatch finished
	// without PreventDefault. Empty otherwise.
	Navigate string

	stopped bool
}

// PreventDefault suppresses the default action (for a click on an anchor,
// navigating to its href).
func (ev *Event) PreventDefault() { ev.DefaultPrevented = true }

// StopPropagation stops the event from reaching listeners on outer elements.
func (ev *Event) StopPropagation() { ev.stopped = true }

// Matcher decides whether a listener applies to an element on the
// propagation path.
type Matcher func(*Element) bool

// Handler receives a delegated event with CurrentTarget set to the matched element.
type Handler func(*Event)

type listener struct {
	id      int
	typ     string
	match   Matcher
	handler Handler
}

// ByClass matches elements carrying class.
func ByClass(class string) Matcher {
	return func(e *Element) bool { return e.HasClass(class) }
}

// In matches elements that are members of set.
func In(set []*Element) Matcher {
	return func(e *Element) bool { return Index(set, e) >= 0 }
}

// On registers a delegated listener for events of typ. The returned func
// removes it; calling it more than once is harmless.
func (d *Document) On(typ string, match Matcher, h Handler) (off func()) {
	d.nextID++
	l := &listener{id: d.nextID, typ: typ, match: match, handler: h}
	d.listeners = append(d.listeners, l)
	return func() {
		for i, x := range d.listeners {
			if x.id == l.id {
				d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev along the path from its target up to the root,
// invoking each matching listener with CurrentTarget set. It returns false
// when a listener prevented the default action.
func (d *Document) Dispatch(ev *Event) bool {
	// Snapshot so handlers may add or remove listeners.
	ls := make([]*listener, len(d.listeners))
	copy(ls, d.listeners)

	for el := ev.Target; el != nil && !ev.stopped; el = el.Parent() {
		for _, l := range ls {
			if l.typ != ev.Type || !l.match(el) {
				continue
			}
			ev.CurrentTarget = el
			l.handler(ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.DefaultPrevented
}

// Click dispatches a click on target and reports whether the default action
// should run. When it should and the target sits in an <a href>, the href is
// recorded in Event.Navigate.
func (d *Document) Click(target *Element) (*Event, bool) {
	ev := &Event{Type: "click", Target: target}
	if !d.Dispatch(ev) {
		return ev, false
	}
	for el := target; el != nil; el = el.Parent() {
		if el.Tag() != "a" {
			continue
		}
		if href, ok := el.Attr("href"); ok {
			ev.Navigate = href
		}
		break
	}
	return ev, true
}
