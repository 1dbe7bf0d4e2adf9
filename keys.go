package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit          key.Binding
	Toggle        key.Binding
	Back          key.Binding
	BackLarge     key.Binding
	Forward       key.Binding
	ForwardLarge  key.Binding
	Mark          key.Binding
	LeftWider     key.Binding
	LeftNarrower  key.Binding
	RightNarrower key.Binding
	RightWider    key.Binding
	Cut           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "play/pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j/J", "back 3s/10s"),
		),
		BackLarge: key.NewBinding(
			key.WithKeys("J"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l/L", "forward 3s/10s"),
		),
		ForwardLarge: key.NewBinding(
			key.WithKeys("L"),
		),
		Mark: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "mark"),
		),
		LeftWider: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a/s", "start -/+"),
		),
		LeftNarrower: key.NewBinding(
			key.WithKeys("s"),
		),
		RightNarrower: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d/f", "end -/+"),
		),
		RightWider: key.NewBinding(
			key.WithKeys("f"),
		),
		Cut: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "cut & copy"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.Mark, k.LeftWider, k.RightNarrower, k.Cut, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Back, k.Forward},
		{k.Mark, k.LeftWider, k.RightNarrower},
		{k.Cut, k.Quit},
	}
}

// route maps a key press to its action. Unbound keys report false.
func (k keyMap) route(msg tea.KeyMsg) (Action, bool) {
	table := []struct {
		binding key.Binding
		action  Action
	}{
		{k.Quit, ActionQuit},
		{k.Toggle, ActionToggle},
		{k.Back, ActionBack},
		{k.BackLarge, ActionBackLarge},
		{k.Forward, ActionForward},
		{k.ForwardLarge, ActionForwardLarge},
		{k.Mark, ActionMark},
		{k.LeftWider, ActionLeftWider},
		{k.LeftNarrower, ActionLeftNarrower},
		{k.RightNarrower, ActionRightNarrower},
		{k.RightWider, ActionRightWider},
		{k.Cut, ActionCut},
	}
	for _, e := range table {
		if key.Matches(msg, e.binding) {
			return e.action, true
		}
	}
	return ActionNone, false
}
