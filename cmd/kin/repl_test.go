package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func pressEnter(t *testing.T, m replModel, input string) replModel {
	t.Helper()
	m.textInput.SetValue(input)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(replModel)
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
	if !updated.(replModel).quitting {
		t.Fatalf("model should be quitting")
	}
}

func TestUpdateCtrlCQuits(t *testing.T) {
	m := newREPLModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestUpdateEnterExecutesCommand(t *testing.T) {
	m := pressEnter(t, newREPLModel(), "type Widget")

	if _, ok := m.sess.defs["Widget"]; !ok {
		t.Fatalf("type not defined through the REPL")
	}
	if len(m.history) != 1 || m.history[0].isErr {
		t.Fatalf("unexpected history: %+v", m.history)
	}
	if m.history[0].output != "defined Widget" {
		t.Fatalf("unexpected output: %q", m.history[0].output)
	}
	if m.textInput.Value() != "" {
		t.Fatalf("input not cleared")
	}
}

func TestUpdateEnterRecordsErrors(t *testing.T) {
	m := pressEnter(t, newREPLModel(), "frobnicate Widget")

	if len(m.history) != 1 || !m.history[0].isErr {
		t.Fatalf("error not recorded: %+v", m.history)
	}
	if !strings.Contains(m.history[0].output, "unknown command") {
		t.Fatalf("unexpected error output: %q", m.history[0].output)
	}
}

func TestUpdateMetaHelpToggles(t *testing.T) {
	m := pressEnter(t, newREPLModel(), ":help")
	if !m.showHelp {
		t.Fatalf("help panel should be visible")
	}
	m = pressEnter(t, m, ":help")
	if m.showHelp {
		t.Fatalf("help panel should toggle off")
	}
}

func TestUpdateMetaResetClearsSession(t *testing.T) {
	m := pressEnter(t, newREPLModel(), "type Widget")
	m = pressEnter(t, m, ":reset")

	if len(m.sess.defs) != 0 {
		t.Fatalf("reset kept definitions: %v", m.sess.defOrder)
	}
	last := m.history[len(m.history)-1]
	if last.output != "session reset" {
		t.Fatalf("unexpected reset entry: %+v", last)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := pressEnter(t, newREPLModel(), "type Widget")
	m = pressEnter(t, m, "new w Widget")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(replModel)
	if m.textInput.Value() != "new w Widget" {
		t.Fatalf("up should recall the last command: %q", m.textInput.Value())
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(replModel)
	if m.textInput.Value() != "type Widget" {
		t.Fatalf("second up should recall the first command: %q", m.textInput.Value())
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(replModel)
	if m.textInput.Value() != "new w Widget" {
		t.Fatalf("down should move forward: %q", m.textInput.Value())
	}
}

func TestAutocompleteCompletesVerb(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue("ty")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "type" {
		t.Fatalf("unexpected completion: %q", m.textInput.Value())
	}
}

func TestAutocompleteCompletesDefinedName(t *testing.T) {
	m := pressEnter(t, newREPLModel(), "type Widget")
	m.textInput.SetValue("new w Wid")
	m = m.handleAutocomplete()
	if m.textInput.Value() != "new w Widget" {
		t.Fatalf("unexpected completion: %q", m.textInput.Value())
	}
}

func TestViewShowsTitleAfterResize(t *testing.T) {
	m := newREPLModel()
	if got := m.View(); got != "Loading..." {
		t.Fatalf("pre-init view: %q", got)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(replModel)
	if !strings.Contains(m.View(), "kin type workbench") {
		t.Fatalf("title missing from view")
	}
}
