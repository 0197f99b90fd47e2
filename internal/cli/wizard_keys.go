package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// wizardKeyMap holds the wizard's key bindings. Several bindings share a
// key and differ only in the step they apply to and their help text.
type wizardKeyMap struct {
	Quit   key.Binding
	Exit   key.Binding
	Clear  key.Binding
	Back   key.Binding
	Cancel key.Binding
	Next   key.Binding
	Remove key.Binding

	ToggleMode key.Binding
	CycleStyle key.Binding
	Improve    key.Binding

	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Move   key.Binding
	Grow   key.Binding
	Shrink key.Binding
	Resize key.Binding
	Snap   key.Binding
	Submit key.Binding

	Restart key.Binding
	Review  key.Binding
	Close   key.Binding
}

func newWizardKeyMap() wizardKeyMap {
	return wizardKeyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Exit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Next:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		Remove: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove")),

		ToggleMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch source")),
		CycleStyle: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "style")),
		Improve:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "improve prompt")),

		Left:   key.NewBinding(key.WithKeys("left", "h")),
		Right:  key.NewBinding(key.WithKeys("right", "l")),
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Move:   key.NewBinding(key.WithKeys("left", "right", "up", "down", "h", "j", "k", "l"), key.WithHelp("drag/arrows", "move")),
		Grow:   key.NewBinding(key.WithKeys("+", "=")),
		Shrink: key.NewBinding(key.WithKeys("-", "_")),
		Resize: key.NewBinding(key.WithKeys("+", "=", "-", "_"), key.WithHelp("+/-/wheel", "resize")),
		Snap:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "snap")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),

		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		Review:  key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back to placement")),
		Close:   key.NewBinding(key.WithKeys("q", "enter"), key.WithHelp("q", "quit")),
	}
}

// helpLine renders bindings as "key desc · key desc".
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
