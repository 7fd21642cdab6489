package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"formai/internal/ui/theme"
)

// FormSubmitMsg is emitted when the user confirms the form. Values are
// keyed by field name in declaration order.
type FormSubmitMsg struct{ Values map[string]string }

// FormCancelMsg is emitted when the user presses esc.
type FormCancelMsg struct{}

// Field declares one form input.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Secret      bool
}

var (
	labelStyle      = lipgloss.NewStyle().Foreground(theme.Subtext0).Width(12)
	labelFocusStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(12)
)

// Form is a vertical stack of labeled text inputs with tab/enter focus
// cycling, backed by bubbles/textinput.
type Form struct {
	fields []Field
	inputs []textinput.Model
	focus  int
}

func NewForm(fields []Field) Form {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 128
		if f.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	return Form{fields: fields, inputs: inputs}
}

// Focus gives keyboard focus to the first field.
func (f *Form) Focus() tea.Cmd {
	f.focus = 0
	return f.inputs[0].Focus()
}

// Reset clears every field and returns focus to the first one.
func (f *Form) Reset() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.Focus()
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return f, func() tea.Msg { return FormCancelMsg{} }
		case "tab", "down":
			return f, f.moveFocus(1)
		case "shift+tab", "up":
			return f, f.moveFocus(-1)
		case "enter":
			// Enter advances until the last field, then submits.
			if f.focus < len(f.inputs)-1 {
				return f, f.moveFocus(1)
			}
			values := make(map[string]string, len(f.fields))
			for i, field := range f.fields {
				values[field.Name] = strings.TrimSpace(f.inputs[i].Value())
			}
			return f, func() tea.Msg { return FormSubmitMsg{Values: values} }
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f Form) View() string {
	var sb strings.Builder
	for i, field := range f.fields {
		label := labelStyle
		if i == f.focus {
			label = labelFocusStyle
		}
		sb.WriteString(label.Render(field.Label) + " " + f.inputs[i].View())
		if i < len(f.fields)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}
