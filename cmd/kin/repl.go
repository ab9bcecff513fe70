package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#8B5CF6")
	okColor     = lipgloss.Color("#22C55E")
	failColor   = lipgloss.Color("#F87171")
	dimColor    = lipgloss.Color("#9CA3AF")
	keyColor    = lipgloss.Color("#FBBF24")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(okColor)

	failStyle = lipgloss.NewStyle().
			Foreground(failColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(keyColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	sess        *session
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showDefs    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlT key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlT: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle types"),
	),
	CtrlK: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type Widget"
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "kin> "

	return replModel{
		textInput:  ti,
		sess:       newSession(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlT):
			m.showDefs = !m.showDefs
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleMetaCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, err := m.sess.exec(input)
			entry := historyEntry{input: input, output: output}
			if err != nil {
				entry.output = err.Error()
				entry.isErr = true
			}
			m.history = append(m.history, entry)
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleMetaCommand(input string) (replModel, tea.Cmd) {
	switch strings.Fields(input)[0] {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":types", ":t":
		m.showDefs = !m.showDefs
	case ":reset", ":r":
		m.sess = newSession()
		m.history = append(m.history, historyEntry{input: input, output: "session reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("unknown command: %s", input),
			isErr:  true,
		})
	}
	return m, nil
}

var replVerbs = []string{
	"type", "extends", "implements", "copies", "let",
	"new", "get", "set", "call", "chain", "members",
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	for _, verb := range replVerbs {
		if strings.HasPrefix(verb, lastWord) {
			completions = append(completions, verb)
		}
	}
	for _, name := range m.sess.defOrder {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}
	for _, name := range m.sess.varOrder {
		if strings.HasPrefix(name, lastWord) {
			completions = append(completions, name)
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return dimStyle.Render("Bye!\n")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("kin type workbench") + "\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += len(replHelp) + 3
	}
	if m.showDefs {
		reservedLines += len(m.sess.defOrder) + len(m.sess.varOrder) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(dimStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + failStyle.Render("✗ "+entry.output) + "\n")
		} else if entry.output != "" {
			for _, line := range strings.Split(entry.output, "\n") {
				b.WriteString("  " + okStyle.Render(line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if m.showDefs {
		b.WriteString(renderDefsPanel(m.sess))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := hintKeyStyle.Render("ctrl+k") + dimStyle.Render(" help  ") +
		hintKeyStyle.Render("ctrl+t") + dimStyle.Render(" types  ") +
		hintKeyStyle.Render("ctrl+l") + dimStyle.Render(" clear  ") +
		hintKeyStyle.Render("ctrl+c") + dimStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderDefsPanel(sess *session) string {
	if len(sess.defOrder) == 0 && len(sess.varOrder) == 0 {
		return panelStyle.Render(dimStyle.Render("nothing defined yet"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Definitions"))
	nameStyle := lipgloss.NewStyle().Foreground(keyColor)
	for _, name := range sess.defOrder {
		lines = append(lines, fmt.Sprintf("  %s  %s", nameStyle.Render(name), sess.defs[name].String()))
	}
	for _, name := range sess.varOrder {
		lines = append(lines, fmt.Sprintf("  %s = %s", nameStyle.Render(name), sess.vars[name].String()))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

var replHelp = []struct {
	key  string
	desc string
}{
	{"type T", "define a type (or: type T from <seed>)"},
	{"extends T S", "rewire T's chain onto supertype S"},
	{"implements", "implements T [static] name = value [flags]"},
	{"copies", "copies T src... [nokey] [key k] [map a=b]"},
	{"let v = x", "bind a value (scalars or {k: v, ...})"},
	{"new v T", "instantiate T into v"},
	{"get/set/call", "work with members via ref.member"},
	{"chain T", "render the prototype chain"},
	{"members T", "list static and prototype members"},
	{":reset", "drop all definitions"},
	{":quit", "exit"},
}

func renderHelpPanel() string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range replHelp {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			hintKeyStyle.Render(fmt.Sprintf("%-12s", h.key)),
			dimStyle.Render(h.desc)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
