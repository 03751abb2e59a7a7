package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formField describes one text input of a form
type formField struct {
	label       string
	placeholder string
	value       string
	limit       int
	width       int
}

// form is a vertical list of text inputs with tab navigation
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	err    error
}

type formAction int

const (
	formContinue formAction = iota
	formSubmit
	formCancel
)

func newForm(title string, fields ...formField) *form {
	f := &form{title: title}
	for _, field := range fields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.CharLimit = field.limit
		if in.CharLimit == 0 {
			in.CharLimit = 200
		}
		in.Width = field.width
		if in.Width == 0 {
			in.Width = 40
		}
		in.SetValue(field.value)
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()
	return f
}

// value returns the trimmed content of field i
func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) focusCmd() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// update handles navigation keys and forwards the rest to the focused input
func (f *form) update(msg tea.Msg) (formAction, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return formCancel, nil
		case "tab", "down":
			return formContinue, f.move(1)
		case "shift+tab", "up":
			return formContinue, f.move(-1)
		case "ctrl+s":
			return formSubmit, nil
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return formSubmit, nil
			}
			return formContinue, f.move(1)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formContinue, cmd
}

func (f *form) view() string {
	var s string
	s += titleStyle.Render(f.title) + "\n\n"

	for i, label := range f.labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == f.focus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), f.inputs[i].View())
	}

	if f.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", f.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")
	return s
}
