package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Clear  key.Binding
	Reload key.Binding
	Jump   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "select")),
		Clear:  key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "clear")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Jump:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Clear, k.Reload, k.Jump, k.Quit}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, helpDescStyle.Render("  "))
}
