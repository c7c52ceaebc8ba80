package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/scicalc"
	"github.com/zephyrtronium/scicalc/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(2)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(2)
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// historyLines is the number of committed calculations shown.
const historyLines = 8

// functionShortcuts map alt keys to calculator function keys.
var functionShortcuts = map[string]string{
	"alt+s": "sin",
	"alt+c": "cos",
	"alt+t": "tan",
	"alt+l": "ln",
	"alt+e": "exp",
	"alt+g": "log",
	"alt+r": "√",
	"alt+p": "π",
}

func newReplCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive display",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, opts)
		},
	}
}

func runRepl(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	s := newSession(cfg, cmd.ErrOrStderr())
	p := tea.NewProgram(newReplModel(s), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	_, err = p.Run()
	return err
}

type replModel struct {
	s     *session.Session
	input textinput.Model
	// preview is the live result of the display, and msg is the error from
	// the last commit.
	preview string
	msg     string
}

func newReplModel(s *session.Session) *replModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "2+3×4"
	ti.CharLimit = 512
	ti.Focus()
	return &replModel{s: s, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.commit()
		return m, nil
	case "tab":
		if m.s.Context().Angle == scicalc.Degrees {
			m.s.SetAngle(scicalc.Radians)
		} else {
			m.s.SetAngle(scicalc.Degrees)
		}
		m.preview = m.s.Preview()
		return m, nil
	case "alt+i":
		m.s.ToggleInverse()
		return m, nil
	case "ctrl+l":
		m.s.Clear()
		m.sync()
		return m, nil
	}
	if k, ok := functionShortcuts[key.String()]; ok {
		m.s.Insert(k)
		m.sync()
		return m, nil
	}
	// Typing at the end of the display goes through the session so that
	// separators and new operands behave like calculator keys.
	if m.atEnd() {
		switch key.Type {
		case tea.KeyRunes:
			if !key.Paste {
				for _, r := range key.Runes {
					m.s.Insert(string(r))
				}
				m.sync()
				return m, nil
			}
		case tea.KeyBackspace:
			m.s.Backspace()
			m.sync()
			return m, nil
		}
	}
	old := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != old {
		m.s.SetText(v)
		m.msg = ""
		m.preview = m.s.Preview()
		if t := m.s.Text(); t != v {
			m.input.SetValue(t)
			m.input.CursorEnd()
		}
	}
	return m, cmd
}

func (m *replModel) atEnd() bool {
	return m.input.Position() == utf8.RuneCountInString(m.input.Value())
}

// sync shows the session display in the input.
func (m *replModel) sync() {
	m.input.SetValue(m.s.Text())
	m.input.CursorEnd()
	m.msg = ""
	m.preview = m.s.Preview()
}

func (m *replModel) commit() {
	_, err := m.s.Equals()
	if err != nil {
		var e *scicalc.Error
		if errors.As(err, &e) {
			m.msg = e.Message()
		} else {
			m.msg = err.Error()
		}
		m.preview = ""
		return
	}
	m.input.SetValue(m.s.Text())
	m.input.CursorEnd()
	m.msg = ""
	m.preview = ""
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("scicalc"))
	b.WriteByte('\n')
	hist := m.s.History()
	if len(hist) > historyLines {
		hist = hist[len(hist)-historyLines:]
	}
	for _, h := range hist {
		b.WriteString(historyStyle.Render(fmt.Sprintf("%s = %s", h.Calculation, h.Result)))
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	switch {
	case m.msg != "":
		b.WriteString(errorStyle.Render(m.msg))
	case m.preview != "":
		b.WriteString(previewStyle.Render("= " + m.preview))
	}
	b.WriteByte('\n')
	ctx := m.s.Context()
	status := ctx.Angle.String()
	if ctx.Inverse {
		status += " inv"
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString(helpStyle.Render("\nenter: =  tab: rad/deg  alt+i: inverse  alt+s/c/t/l/e/g/r/p: functions  ctrl+l: clear  esc: quit"))
	return b.String()
}
