package bubble_tea

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type TextInput struct {
	ti *textinput.Model
}

func NewTextInput(placeholder string) *TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()
	return &TextInput{
		ti: &ti,
	}
}

func (m *TextInput) Value() string {
	return m.ti.Value()
}

func (m *TextInput) Init() tea.Cmd {
	return textinput.Blink
}

func (m *TextInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	*m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *TextInput) View() string {
	return m.ti.View() + "\n"
}
