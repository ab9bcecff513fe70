package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/kinlang/kinscript/kin"
)

// session holds the types and values defined during an interactive or
// scripted run. Both the REPL and `kin eval` drive it one command line
// at a time.
type session struct {
	defs     map[string]*kin.Definition
	defOrder []string
	vars     map[string]kin.Value
	varOrder []string
}

func newSession() *session {
	return &session{
		defs: make(map[string]*kin.Definition),
		vars: make(map[string]kin.Value),
	}
}

// chain attributes managed by the builder; skipped when listing
// class-level members.
var chainAttrs = map[string]bool{
	"prototype":      true,
	"constructor":    true,
	"supertype":      true,
	"superprototype": true,
}

func (s *session) exec(line string) (string, error) {
	tokens, err := splitTokens(line)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", nil
	}
	verb, rest := tokens[0], tokens[1:]
	switch verb {
	case "type":
		return s.execType(rest)
	case "extends":
		return s.execExtends(rest)
	case "implements":
		return s.execImplements(rest)
	case "copies":
		return s.execCopies(rest)
	case "let":
		return s.execLet(rest)
	case "new":
		return s.execNew(rest)
	case "get":
		return s.execGet(rest)
	case "set":
		return s.execSet(rest)
	case "call":
		return s.execCall(rest)
	case "chain":
		return s.execChain(rest)
	case "members":
		return s.execMembers(rest)
	default:
		return "", fmt.Errorf("unknown command %q", verb)
	}
}

func (s *session) execType(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: type <name> [from <seed>]")
	}
	name := args[0]
	var def *kin.Definition
	switch {
	case len(args) == 1:
		ctor := kin.NewFunc(name, func(receiver kin.Value, _ []kin.Value) (kin.Value, error) {
			return kin.NewNil(), nil
		})
		def = kin.NewType(ctor)
	case len(args) == 3 && args[1] == "from":
		seed, err := s.resolveValue(args[2])
		if err != nil {
			return "", err
		}
		def = kin.NewType(seed)
	default:
		return "", errors.New("usage: type <name> [from <seed>]")
	}
	if _, ok := s.defs[name]; !ok {
		s.defOrder = append(s.defOrder, name)
	}
	s.defs[name] = def
	return "defined " + name, nil
}

func (s *session) execExtends(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("usage: extends <type> <supertype>")
	}
	def, err := s.definition(args[0])
	if err != nil {
		return "", err
	}
	sup, err := s.resolveValue(args[1])
	if err != nil {
		return "", err
	}
	if def.Extends(sup); def.Err() != nil {
		return "", def.Err()
	}
	return fmt.Sprintf("%s extends %s", args[0], args[1]), nil
}

func (s *session) execImplements(args []string) (string, error) {
	if len(args) < 3 {
		return "", errors.New("usage: implements <type> [static] <name> = <value> [writable] [enumerable] [configurable]")
	}
	def, err := s.definition(args[0])
	if err != nil {
		return "", err
	}
	rest := args[1:]
	static := false
	if rest[0] == "static" {
		static = true
		rest = rest[1:]
	}
	if len(rest) < 3 || rest[1] != "=" {
		return "", errors.New("usage: implements <type> [static] <name> = <value> [flags]")
	}
	name := rest[0]
	value, err := s.resolveValue(rest[2])
	if err != nil {
		return "", err
	}
	desc := make(map[string]kin.Value)
	if static {
		desc["static"] = value
	} else {
		desc["value"] = value
	}
	for _, flag := range rest[3:] {
		switch flag {
		case "writable", "enumerable", "configurable":
			desc[flag] = kin.NewBool(true)
		default:
			return "", fmt.Errorf("unknown flag %q", flag)
		}
	}
	if def.Member(name, kin.NewHash(desc)); def.Err() != nil {
		return "", def.Err()
	}
	kindLabel := "member"
	if static {
		kindLabel = "static member"
	}
	return fmt.Sprintf("%s: defined %s %s", args[0], kindLabel, name), nil
}

func (s *session) execCopies(args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("usage: copies <type> <source>... [nokey] [key <name>]... [map <from>=<to>]...")
	}
	def, err := s.definition(args[0])
	if err != nil {
		return "", err
	}
	opts := kin.CopyOptions{}
	var sources []kin.Value
	i := 1
	for ; i < len(args); i++ {
		if args[i] == "key" || args[i] == "nokey" || args[i] == "map" {
			break
		}
		v, err := s.resolveValue(args[i])
		if err != nil {
			return "", err
		}
		sources = append(sources, v)
	}
	for ; i < len(args); i++ {
		switch args[i] {
		case "nokey":
			opts.Keys = []string{}
		case "key":
			if i++; i >= len(args) {
				return "", errors.New("key: member name required")
			}
			opts.Keys = append(opts.Keys, args[i])
		case "map":
			if i++; i >= len(args) {
				return "", errors.New("map: <from>=<to> required")
			}
			kv := strings.SplitN(args[i], "=", 2)
			if len(kv) != 2 {
				return "", fmt.Errorf("map: want <from>=<to>, got %q", args[i])
			}
			if opts.Map == nil {
				opts.Map = make(map[string]string)
			}
			opts.Map[kv[0]] = kv[1]
		default:
			return "", fmt.Errorf("unexpected argument %q", args[i])
		}
	}
	if len(sources) == 0 {
		return "", errors.New("copies: at least one source required")
	}
	if def.Copies(sources, opts); def.Err() != nil {
		return "", def.Err()
	}
	return fmt.Sprintf("%s: copied %d source(s)", args[0], len(sources)), nil
}

func (s *session) execLet(args []string) (string, error) {
	if len(args) < 3 || args[1] != "=" {
		return "", errors.New("usage: let <name> = <value>")
	}
	name := args[0]
	v, err := parseValue(strings.Join(args[2:], " "))
	if err != nil {
		return "", err
	}
	s.putVar(name, v)
	return name + " = " + v.String(), nil
}

func (s *session) execNew(args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("usage: new <var> <type> [args...]")
	}
	def, err := s.definition(args[1])
	if err != nil {
		return "", err
	}
	callArgs := make([]kin.Value, 0, len(args)-2)
	for _, raw := range args[2:] {
		v, err := s.resolveValue(raw)
		if err != nil {
			return "", err
		}
		callArgs = append(callArgs, v)
	}
	inst, err := kin.New(def.Identity(), callArgs...)
	if err != nil {
		return "", err
	}
	s.putVar(args[0], inst)
	return args[0] + " = " + inst.String(), nil
}

func (s *session) execGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: get <ref>.<member>")
	}
	receiver, name, err := s.memberRef(args[0])
	if err != nil {
		return "", err
	}
	v, ok := receiver.Object().Get(name)
	if !ok {
		return "undefined", nil
	}
	return v.String(), nil
}

func (s *session) execSet(args []string) (string, error) {
	if len(args) != 3 || args[1] != "=" {
		return "", errors.New("usage: set <ref>.<member> = <value>")
	}
	receiver, name, err := s.memberRef(args[0])
	if err != nil {
		return "", err
	}
	v, err := s.resolveValue(args[2])
	if err != nil {
		return "", err
	}
	if err := receiver.Object().Set(name, v); err != nil {
		return "", err
	}
	return args[0] + " = " + v.String(), nil
}

func (s *session) execCall(args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.New("usage: call <ref>.<member> [args...]")
	}
	receiver, name, err := s.memberRef(args[0])
	if err != nil {
		return "", err
	}
	method, ok := receiver.Object().Get(name)
	if !ok {
		return "", fmt.Errorf("unknown member %q", name)
	}
	callArgs := make([]kin.Value, 0, len(args)-1)
	for _, raw := range args[1:] {
		v, err := s.resolveValue(raw)
		if err != nil {
			return "", err
		}
		callArgs = append(callArgs, v)
	}
	result, err := kin.Call(method, receiver, callArgs...)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

func (s *session) execChain(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: chain <type|var>")
	}
	ref := args[0]
	var start *kin.Object
	var rootLabel string
	switch {
	case s.defs[ref] != nil:
		p, ok := s.defs[ref].Identity().Object().GetOwn("prototype")
		if !ok || p.Kind() != kin.KindObject {
			return "", fmt.Errorf("%s has no prototype", ref)
		}
		start = p.Object()
		rootLabel = protoLabel(start)
	case s.vars[ref].Kind() == kin.KindObject:
		start = s.vars[ref].Object()
		rootLabel = s.vars[ref].String()
	default:
		return "", fmt.Errorf("unknown type or object %q", ref)
	}

	labels := []string{rootLabel}
	for cur := start.Proto(); cur != nil; cur = cur.Proto() {
		labels = append(labels, protoLabel(cur))
	}
	var node *tree.Tree
	for i := len(labels) - 1; i >= 0; i-- {
		if node == nil {
			node = tree.Root(labels[i])
		} else {
			node = tree.Root(labels[i]).Child(node)
		}
	}
	return node.String(), nil
}

func (s *session) execMembers(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("usage: members <type|var>")
	}
	ref := args[0]
	var b strings.Builder
	if def, ok := s.defs[ref]; ok {
		id := def.Identity().Object()
		writeMembers(&b, "static", id, chainAttrs)
		p, ok := id.GetOwn("prototype")
		if ok && p.Kind() == kin.KindObject {
			writeMembers(&b, "prototype", p.Object(), map[string]bool{"constructor": true})
		}
	} else if v, ok := s.vars[ref]; ok && v.Kind() == kin.KindObject {
		writeMembers(&b, "own", v.Object(), nil)
	} else {
		return "", fmt.Errorf("unknown type or object %q", ref)
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		out = "no members"
	}
	return out, nil
}

func writeMembers(b *strings.Builder, heading string, o *kin.Object, skip map[string]bool) {
	names := kin.OwnNames(o)
	listed := false
	for _, n := range names {
		if skip[n] {
			continue
		}
		if !listed {
			fmt.Fprintf(b, "%s:\n", heading)
			listed = true
		}
		d, _ := kin.OwnDescriptor(o, n)
		fmt.Fprintf(b, "  [%s] %s = %s\n", flagString(d), n, d.Value.String())
	}
}

func flagString(d kin.Descriptor) string {
	flags := []byte{'-', '-', '-'}
	if d.Writable {
		flags[0] = 'w'
	}
	if d.Enumerable {
		flags[1] = 'e'
	}
	if d.Configurable {
		flags[2] = 'c'
	}
	return string(flags)
}

func protoLabel(o *kin.Object) string {
	if c, ok := o.GetOwn("constructor"); ok && c.Kind() == kin.KindObject && c.Object().Name() != "" {
		return c.Object().Name() + ".prototype"
	}
	return "(object)"
}

func (s *session) definition(name string) (*kin.Definition, error) {
	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return def, nil
}

func (s *session) putVar(name string, v kin.Value) {
	if _, ok := s.vars[name]; !ok {
		s.varOrder = append(s.varOrder, name)
	}
	s.vars[name] = v
}

// resolveValue turns a token into a value: a type name yields its
// constructor, a variable its value, anything else parses as a scalar
// literal.
func (s *session) resolveValue(tok string) (kin.Value, error) {
	if def, ok := s.defs[tok]; ok {
		return def.Identity(), nil
	}
	if v, ok := s.vars[tok]; ok {
		return v, nil
	}
	v, err := parseScalar(tok)
	if err != nil {
		return kin.NewNil(), fmt.Errorf("unknown name or literal %q", tok)
	}
	return v, nil
}

// memberRef resolves "ref.member" into the receiver value and the
// member name.
func (s *session) memberRef(ref string) (kin.Value, string, error) {
	idx := strings.LastIndex(ref, ".")
	if idx <= 0 || idx == len(ref)-1 {
		return kin.NewNil(), "", fmt.Errorf("want <ref>.<member>, got %q", ref)
	}
	target, name := ref[:idx], ref[idx+1:]
	v, err := s.resolveValue(target)
	if err != nil {
		return kin.NewNil(), "", err
	}
	if v.Kind() != kin.KindObject {
		return kin.NewNil(), "", fmt.Errorf("%s is not an object", target)
	}
	return v, name, nil
}

// splitTokens splits on whitespace while keeping double-quoted string
// literals (quotes included) as single tokens.
func splitTokens(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			cur.WriteByte('"')
			if inQuote {
				flush()
			}
			inQuote = !inQuote
		case inQuote:
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, errors.New("unterminated string literal")
	}
	flush()
	return tokens, nil
}

// parseValue parses a scalar literal or a single-level hash literal of
// the form {name: scalar, ...}, which becomes a plain object.
func parseValue(text string) (kin.Value, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return parseScalar(text)
	}
	if !strings.HasSuffix(text, "}") {
		return kin.NewNil(), fmt.Errorf("unterminated hash literal %q", text)
	}
	members := make(map[string]kin.Value)
	inner := strings.TrimSpace(text[1 : len(text)-1])
	if inner == "" {
		return kin.NewPlainObject(members), nil
	}
	for _, part := range splitEntries(inner) {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return kin.NewNil(), fmt.Errorf("bad hash entry %q", part)
		}
		v, err := parseScalar(strings.TrimSpace(kv[1]))
		if err != nil {
			return kin.NewNil(), err
		}
		members[strings.TrimSpace(kv[0])] = v
	}
	return kin.NewPlainObject(members), nil
}

// splitEntries splits hash entries on commas outside string literals.
func splitEntries(inner string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func parseScalar(tok string) (kin.Value, error) {
	switch tok {
	case "nil":
		return kin.NewNil(), nil
	case "true":
		return kin.NewBool(true), nil
	case "false":
		return kin.NewBool(false), nil
	}
	if strings.HasPrefix(tok, `"`) {
		unquoted, err := strconv.Unquote(tok)
		if err != nil {
			return kin.NewNil(), fmt.Errorf("bad string literal %s", tok)
		}
		return kin.NewString(unquoted), nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return kin.NewInt(i), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return kin.NewFloat(f), nil
	}
	return kin.NewNil(), fmt.Errorf("unknown literal %q", tok)
}
