package ui

// FocusManager tracks and rotates focus across tab groups.
type FocusManager struct {
	Current  string   // name of the focused group
	Order    []string // visible groups in document order
	OnChange func(from, to string)
}

// SetOrder replaces the focus order. Focus stays put if the current group
// is still present, otherwise it moves to the first group.
func (f *FocusManager) SetOrder(order []string) {
	f.Order = order
	if f.indexOf(f.Current) >= 0 {
		return
	}
	to := ""
	if len(order) > 0 {
		to = order[0]
	}
	f.set(to)
}

// Next advances focus to the next group in order.
// Returns the new current group.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous group in order.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

// SetFocus focuses the named group.
// Returns true if the group is in the order.
func (f *FocusManager) SetFocus(name string) bool {
	if f.indexOf(name) < 0 {
		return false
	}
	f.set(name)
	return true
}

func (f *FocusManager) step(delta int) string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.indexOf(f.Current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	n := len(f.Order)
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

func (f *FocusManager) set(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}

func (f *FocusManager) indexOf(name string) int {
	for i, o := range f.Order {
		if o == name {
			return i
		}
	}
	return -1
}
