package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/kinlang/kinscript/kin"
)

func execAll(t *testing.T, s *session, lines ...string) string {
	t.Helper()
	var last string
	for _, line := range lines {
		out, err := s.exec(line)
		if err != nil {
			t.Fatalf("exec %q: %v", line, err)
		}
		last = out
	}
	return last
}

func TestDefineExtendAndDelegate(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Account",
		`implements Account currency = "USD"`,
		"type Savings",
		"extends Savings Account",
		"new acct Savings",
	)

	if got := execAll(t, s, "get acct.currency"); got != "USD" {
		t.Fatalf("delegated member: %q", got)
	}
	if got := execAll(t, s, "get acct.missing"); got != "undefined" {
		t.Fatalf("missing member: %q", got)
	}
}

func TestStaticMembersLiveOnTheType(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Counter",
		"implements Counter static count = 0",
		"new c Counter",
	)

	if got := execAll(t, s, "get Counter.count"); got != "0" {
		t.Fatalf("static member on type: %q", got)
	}
	if got := execAll(t, s, "get c.count"); got != "undefined" {
		t.Fatalf("static member should not reach instances: %q", got)
	}
}

func TestCopiesWithRename(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Mix",
		"let a = {x: 1}",
		"let b = {x: 2}",
		"copies Mix a b nokey map x=y",
		"new m Mix",
	)

	if got := execAll(t, s, "get m.y"); got != "2" {
		t.Fatalf("later source should win under the mapped name: %q", got)
	}
	if got := execAll(t, s, "get m.x"); got != "undefined" {
		t.Fatalf("source name should not leak: %q", got)
	}
}

func TestSetRejectsReadOnlyMembers(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Quota",
		"implements Quota limit = 10",
		"new q Quota",
	)

	_, err := s.exec("set q.limit = 11")
	if !errors.Is(err, kin.ErrReadOnlyProperty) {
		t.Fatalf("expected read-only error, got %v", err)
	}

	execAll(t, s, "implements Quota score = 1 writable")
	if got := execAll(t, s, "set q.score = 5", "get q.score"); got != "5" {
		t.Fatalf("writable member should shadow: %q", got)
	}
}

func TestCallResolvesInheritedHelpers(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Widget",
		"new w Widget",
	)

	if got := execAll(t, s, "call w.toString"); got != "#<Widget>" {
		t.Fatalf("toString through the chain: %q", got)
	}
}

func TestChainRendersFullLineage(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Account",
		"type Savings",
		"extends Savings Account",
		"new acct Savings",
	)

	out := execAll(t, s, "chain acct")
	for _, want := range []string{"#<Savings>", "Savings.prototype", "Account.prototype", "Base.prototype"} {
		if !strings.Contains(out, want) {
			t.Fatalf("chain output missing %q:\n%s", want, out)
		}
	}
}

func TestMembersListsDescriptors(t *testing.T) {
	s := newSession()
	execAll(t, s,
		"type Conf",
		`implements Conf mode = "strict"`,
		"implements Conf static version = 2",
	)

	out := execAll(t, s, "members Conf")
	if !strings.Contains(out, "[---] mode = strict") {
		t.Fatalf("prototype member listing wrong:\n%s", out)
	}
	if !strings.Contains(out, "[---] version = 2") || !strings.Contains(out, "static:") {
		t.Fatalf("static member listing wrong:\n%s", out)
	}
}

func TestTypeFromTemplate(t *testing.T) {
	s := newSession()
	execAll(t, s,
		`let tmpl = {kind: "widget"}`,
		"type Widget from tmpl",
		"new w Widget",
	)

	if got := execAll(t, s, "get w.kind"); got != "widget" {
		t.Fatalf("template member not reachable: %q", got)
	}
}

func TestUnknownCommandAndNames(t *testing.T) {
	s := newSession()
	if _, err := s.exec("explode Widget"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.exec("extends Nope Base"); err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.exec("new v Missing"); err == nil {
		t.Fatalf("expected unknown type error")
	}
}

func TestParseValueLiterals(t *testing.T) {
	v, err := parseValue(`{name: "Ada Lovelace", age: 36}`)
	if err != nil {
		t.Fatalf("parse hash literal: %v", err)
	}
	name, _ := v.Object().Get("name")
	if name.String() != "Ada Lovelace" {
		t.Fatalf("quoted string with spaces: %q", name.String())
	}
	age, _ := v.Object().Get("age")
	if age.Int() != 36 {
		t.Fatalf("int entry: %v", age)
	}

	if v, err := parseScalar("2.5"); err != nil || v.Kind() != kin.KindFloat {
		t.Fatalf("float literal: %v %v", v, err)
	}
	if v, err := parseScalar("nil"); err != nil || !v.IsNil() {
		t.Fatalf("nil literal: %v %v", v, err)
	}
	if _, err := parseScalar("not-a-literal"); err == nil {
		t.Fatalf("expected literal error")
	}
	if _, err := splitTokens(`let s = "unterminated`); err == nil {
		t.Fatalf("expected unterminated string error")
	}
}
