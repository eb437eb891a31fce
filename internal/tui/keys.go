package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit     key.Binding
	Newline    key.Binding
	FocusChips key.Binding
	NextChip   key.Binding
	PrevChip   key.Binding
	Reveal     key.Binding
	Back       key.Binding
	Export     key.Binding
	Help       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Newline:    key.NewBinding(key.WithKeys("alt+enter", "ctrl+j", "shift+enter"), key.WithHelp("alt+enter", "newline")),
		FocusChips: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "citations")),
		NextChip:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next citation")),
		PrevChip:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev citation")),
		Reveal:     key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "show verse")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Export:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export")),
		Help:       key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
