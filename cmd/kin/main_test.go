package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defs.kin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	runErr := fn()
	w.Close()
	os.Stdout = old
	data, _ := io.ReadAll(r)
	return string(data), runErr
}

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"kin", "help"}); err != nil {
		t.Fatalf("help should succeed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"kin", "frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runCLI([]string{"kin"}); err == nil {
		t.Fatalf("missing command should fail")
	}
}

func TestEvalCommandString(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return evalCommand([]string{"-c", `type Account; implements Account currency = "USD"`})
	})
	if err != nil {
		t.Fatalf("eval -c failed: %v", err)
	}
	if !strings.Contains(out, "defined Account") {
		t.Fatalf("missing command output:\n%s", out)
	}
}

func TestEvalCommandQuiet(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return evalCommand([]string{"-quiet", "-c", "type Account"})
	})
	if err != nil {
		t.Fatalf("eval -quiet failed: %v", err)
	}
	if out != "" {
		t.Fatalf("quiet run produced output:\n%s", out)
	}
}

func TestEvalCommandScriptFile(t *testing.T) {
	path := writeScript(t, strings.Join([]string{
		"# account hierarchy",
		"type Account",
		"",
		"type Savings",
		"extends Savings Account",
		"new acct Savings",
		"get acct.toString",
	}, "\n"))

	out, err := captureStdout(t, func() error {
		return evalCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("eval script failed: %v", err)
	}
	if !strings.Contains(out, "Savings extends Account") {
		t.Fatalf("missing extends output:\n%s", out)
	}
}

func TestEvalCommandReportsLineNumbers(t *testing.T) {
	path := writeScript(t, "type Account\nextends Account Missing\n")
	_, err := captureStdout(t, func() error {
		return evalCommand([]string{path})
	})
	if err == nil || !strings.Contains(err.Error(), "line 2:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvalCommandRequiresInput(t *testing.T) {
	err := evalCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "script path or -c required") {
		t.Fatalf("unexpected error: %v", err)
	}
}
