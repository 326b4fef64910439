package cli

import "github.com/charmbracelet/bubbles/key"

type boardKeyMap struct {
	Left, Right, Up, Down key.Binding
	Advance, Retreat      key.Binding
	ShiftEarlier          key.Binding
	ShiftLater            key.Binding
	Shrink, Extend        key.Binding
	Collapse              key.Binding
	SwitchView            key.Binding
	Undo, Redo            key.Binding
	Help, Quit            key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Advance:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "advance status")),
		Retreat:      key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "reopen")),
		ShiftEarlier: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "shift earlier")),
		ShiftLater:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "shift later")),
		Shrink:       key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "end earlier")),
		Extend:       key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "end later")),
		Collapse:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "collapse")),
		SwitchView:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board/gantt")),
		Undo:         key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:         key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Advance, k.Retreat, k.Undo, k.Redo, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Advance, k.Retreat, k.Undo, k.Redo},
		{k.ShiftEarlier, k.ShiftLater, k.Shrink, k.Extend, k.Collapse},
		{k.SwitchView, k.Help, k.Quit},
	}
}
