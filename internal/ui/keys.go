package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the UI key bindings.
type KeyMap struct {
	NextGroup key.Binding
	PrevGroup key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Pick      key.Binding // 1-9: tab by position
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextGroup: key.NewBinding(key.WithKeys("tab", "j", "down"), key.WithHelp("tab/j", "next group")),
		PrevGroup: key.NewBinding(key.WithKeys("shift+tab", "k", "up"), key.WithHelp("S-tab/k", "prev group")),
		NextTab:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev tab")),
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pick tab"),
		),
		Save: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save bookmark")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.NextGroup, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab, k.Pick},
		{k.NextGroup, k.PrevGroup},
		{k.Save, k.Help, k.Quit},
	}
}
