package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestreldb/kestrel/gateway"
	"github.com/kestreldb/kestrel/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	scriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type shellModel struct {
	g        *gateway.Gateway
	handle   registry.Handle
	path     string
	readOnly bool

	input      textinput.Model
	history    []string
	histIdx    int
	lastScript string
	result     string
	errored    bool
	running    bool
}

type queryDoneMsg struct {
	script  string
	payload string
	errored bool
}

func newShellModel(g *gateway.Gateway, h registry.Handle, path string, readOnly bool) *shellModel {
	ti := textinput.New()
	ti.Prompt = "kestrel> "
	ti.Placeholder = "SELECT 1"
	ti.Width = 80
	ti.Focus()

	return &shellModel{
		g:        g,
		handle:   h,
		path:     path,
		readOnly: readOnly,
		input:    ti,
	}
}

func (m *shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.running {
				return m, nil
			}
			script := strings.TrimSpace(m.input.Value())
			if script == "" {
				return m, nil
			}
			if script == "exit" || script == "quit" {
				return m, tea.Quit
			}
			m.history = append(m.history, script)
			m.histIdx = len(m.history)
			m.input.Reset()
			m.running = true
			return m, m.runQuery(script)

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else if m.histIdx == len(m.history)-1 {
				m.histIdx = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}

	case queryDoneMsg:
		m.running = false
		m.lastScript = msg.script
		m.errored = msg.errored
		if msg.errored {
			m.result = msg.payload
		} else {
			m.result = indentJSON(msg.payload)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *shellModel) runQuery(script string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var out gateway.Outcome
		if m.readOnly {
			out = m.g.RunReadOnly(ctx, m.handle, script, "{}")
		} else {
			out = m.g.Run(ctx, m.handle, script, "{}")
		}
		return queryDoneMsg{script: script, payload: out.Payload, errored: out.Errored}
	}
}

func (m *shellModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Kestrel"))
	b.WriteString(" ")
	if m.path == "" {
		b.WriteString("in-memory")
	} else {
		b.WriteString(m.path)
	}
	if m.readOnly {
		b.WriteString(" (read-only)")
	}
	b.WriteString("\n\n")

	if m.lastScript != "" {
		b.WriteString(scriptStyle.Render(m.lastScript))
		b.WriteString("\n")
		if m.errored {
			b.WriteString(errorStyle.Render(m.result))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
	}

	if m.running {
		b.WriteString("running...\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(g *gateway.Gateway, h registry.Handle, path string, readOnly bool) error {
	p := tea.NewProgram(newShellModel(g, h, path, readOnly))
	_, err := p.Run()
	return err
}
