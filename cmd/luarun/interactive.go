package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/lua-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	st       *bridge.State
	logger   *zap.Logger
	script   string
	profile  string
	result   string
	funcs    []string
	argInput textinput.Model
	selected int
	loaded   bool
	state    modelState
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(script, profile string, logger *zap.Logger) *interactiveModel {
	return &interactiveModel{
		script:  script,
		profile: profile,
		logger:  logger,
		state:   stateSelectFunc,
	}
}

type loadedMsg struct {
	err   error
	st    *bridge.State
	funcs []string
}

type callResultMsg struct {
	err    error
	st     *bridge.State
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSession
}

func (m *interactiveModel) loadSession() tea.Msg {
	profile, err := loadProfile(m.profile)
	if err != nil {
		return loadedMsg{err: err}
	}

	st := bridge.InitWith(profile.options())
	st, err = profile.setup(st, m.logger)
	if err != nil {
		return loadedMsg{err: err, st: st}
	}

	if m.script != "" {
		_, st, err = st.RunFile(m.script)
		if err != nil {
			return loadedMsg{err: err, st: st}
		}
	}

	funcs, err := listCallables(st)
	if err != nil {
		return loadedMsg{err: err, st: st}
	}
	return loadedMsg{st: st, funcs: funcs}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "q":
			if m.state != stateInputArgs {
				return m.quit()
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.funcs) == 0 {
					break
				}
				m.argInput = textinput.New()
				m.argInput.Placeholder = "args (comma separated)"
				m.argInput.Prompt = "> "
				m.argInput.Width = 40
				m.argInput.Focus()
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.funcs = msg.funcs
		if msg.st != nil {
			m.st = msg.st
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		if msg.st != nil {
			m.st = msg.st
		}
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.argInput, cmd = m.argInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) quit() (tea.Model, tea.Cmd) {
	if m.st != nil {
		_ = m.st.Close()
		m.st = nil
	}
	return m, tea.Quit
}

func (m *interactiveModel) callFunction() tea.Msg {
	name := m.funcs[m.selected]

	args, st, err := parseArgs(m.st, m.argInput.Value())
	if err != nil {
		return callResultMsg{err: err, st: st}
	}

	results, st, err := st.CallByName(bridge.KeyPath(strings.Split(name, ".")), args)
	if err != nil {
		return callResultMsg{err: err, st: st}
	}

	if len(results) == 0 {
		return callResultMsg{st: st, result: "(no results)"}
	}
	parts := make([]string, len(results))
	for i, v := range results {
		parts[i] = formatValue(v)
	}
	return callResultMsg{st: st, result: strings.Join(parts, ", ")}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if !m.loaded {
		return "Loading session..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Lua Bridge"))
	b.WriteString(" ")
	if m.script != "" {
		b.WriteString(m.script)
	} else {
		b.WriteString("(fresh session)")
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		if len(m.funcs) == 0 {
			b.WriteString("No callable globals.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString("Select a function to call:\n\n")
		for i, name := range m.funcs {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + name))
			} else {
				b.WriteString(cursor + funcStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		name := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(name)))
		b.WriteString(m.argInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter call • esc back"))

	case stateShowResult:
		name := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(script, profile string, logger *zap.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(script, profile, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
