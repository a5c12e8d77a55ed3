package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings of the browse view. It satisfies help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
	Search   key.Binding
	Focus    key.Binding
	Copy     key.Binding
	Quit     key.Binding
	Cancel   key.Binding
	Jump     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter/l", "open/close"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "close/parent"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find file"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy preview"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Jump: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump to match"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Expand, keys.Toggle, keys.Search, keys.Focus, keys.Copy, keys.Quit}
}

// FullHelp groups every binding.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Expand, keys.Collapse},
		{keys.Toggle, keys.Search, keys.Jump, keys.Cancel},
		{keys.Focus, keys.Copy, keys.Quit},
	}
}
