package cli

import "github.com/charmbracelet/bubbles/key"

type tuiKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextProject key.Binding
	PrevProject key.Binding
	Fold        key.Binding
	ExpandAll   key.Binding
	Earlier     key.Binding
	Later       key.Binding
	Shorter     key.Binding
	Longer      key.Binding
	Undo        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultTUIKeys() tuiKeyMap {
	return tuiKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextProject: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next project")),
		PrevProject: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev project")),
		Fold:        key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "fold")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		Earlier:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "move -1d")),
		Later:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "move +1d")),
		Shorter:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "due -1d")),
		Longer:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "due +1d")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Fold, k.Earlier, k.Later, k.Longer, k.Help, k.Quit}
}

func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextProject, k.PrevProject},
		{k.Fold, k.ExpandAll, k.Undo},
		{k.Earlier, k.Later, k.Shorter, k.Longer},
		{k.Help, k.Quit},
	}
}
