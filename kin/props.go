package kin

import (
	"fmt"
	"sort"
)

// Descriptor carries a member's value and mutability flags. The zero
// flags match the definition defaults: non-writable, non-enumerable,
// non-configurable.
type Descriptor struct {
	Value        Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Descriptor record keys.
const (
	descValue        = "value"
	descWritable     = "writable"
	descEnumerable   = "enumerable"
	descConfigurable = "configurable"
)

// ParseDescriptor interprets a hash record as a property descriptor.
// The value defaults to nil and every flag to false. A non-hash record
// or a non-boolean flag fails with ErrInvalidDescriptor; unrecognized
// keys are ignored.
func ParseDescriptor(v Value) (Descriptor, error) {
	if v.Kind() != KindHash {
		return Descriptor{}, fmt.Errorf("descriptor must be a hash, got %s: %w", v.Kind(), ErrInvalidDescriptor)
	}
	h := v.Hash()
	d := Descriptor{Value: NewNil()}
	if mv, ok := h[descValue]; ok {
		d.Value = mv
	}
	var err error
	if d.Writable, err = descriptorFlag(h, descWritable); err != nil {
		return Descriptor{}, err
	}
	if d.Enumerable, err = descriptorFlag(h, descEnumerable); err != nil {
		return Descriptor{}, err
	}
	if d.Configurable, err = descriptorFlag(h, descConfigurable); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func descriptorFlag(h map[string]Value, key string) (bool, error) {
	fv, ok := h[key]
	if !ok {
		return false, nil
	}
	if fv.Kind() != KindBool {
		return false, fmt.Errorf("flag %q must be a bool, got %s: %w", key, fv.Kind(), ErrInvalidDescriptor)
	}
	return fv.Bool(), nil
}

// ObjectCreate allocates an empty object backed by the given prototype.
func ObjectCreate(proto *Object) *Object {
	return newObject(proto)
}

// DefineProperty installs name on target with the exact descriptor.
// Redefining a non-configurable member is rejected unless the new
// descriptor matches the existing one.
func DefineProperty(target *Object, name string, d Descriptor) error {
	if target == nil {
		return fmt.Errorf("define %q on nil object: %w", name, ErrInvalidDescriptor)
	}
	if existing := target.own(name); existing != nil && !existing.configurable {
		if sameDescriptor(existing, d) {
			return nil
		}
		return fmt.Errorf("property %q is not configurable: %w", name, ErrInvalidDescriptor)
	}
	target.setOwn(name, &property{
		value:        d.Value,
		writable:     d.Writable,
		enumerable:   d.Enumerable,
		configurable: d.Configurable,
	})
	return nil
}

func sameDescriptor(p *property, d Descriptor) bool {
	return p.writable == d.Writable && p.enumerable == d.Enumerable &&
		p.configurable == d.Configurable && p.value.Equal(d.Value)
}

// DefineProperties parses each record and installs the members in
// sorted name order.
func DefineProperties(target *Object, members map[string]Value) error {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d, err := ParseDescriptor(members[name])
		if err != nil {
			return fmt.Errorf("member %q: %w", name, err)
		}
		if err := DefineProperty(target, name, d); err != nil {
			return err
		}
	}
	return nil
}

// OwnDescriptor fetches the full descriptor of an own member.
func OwnDescriptor(o *Object, name string) (Descriptor, bool) {
	p := o.own(name)
	if p == nil {
		return Descriptor{}, false
	}
	return Descriptor{
		Value:        p.value,
		Writable:     p.writable,
		Enumerable:   p.enumerable,
		Configurable: p.configurable,
	}, true
}

// SetDescriptor overwrites name on target unconditionally. It is the
// raw primitive behind inheritance rewiring; DefineProperty is the
// validating form.
func SetDescriptor(target *Object, name string, d Descriptor) {
	target.setOwn(name, &property{
		value:        d.Value,
		writable:     d.Writable,
		enumerable:   d.Enumerable,
		configurable: d.Configurable,
	})
}

// OwnNames lists the object's own member names, enumerable or not, in
// definition order.
func OwnNames(o *Object) []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Assign shallow-copies the enumerable members of src (own and
// inherited, nearest shadow winning) onto dst with assignment
// semantics: read-only destinations are skipped silently, existing
// writable members keep their flags, and new members arrive writable,
// enumerable, and configurable. Non-enumerable values contribute
// nothing.
func Assign(dst *Object, src Value) {
	assignMapped(dst, src, nil)
}

func assignMapped(dst *Object, src Value, rename map[string]string) {
	if dst == nil {
		return
	}
	for _, entry := range enumerate(src) {
		name := entry.name
		if to, ok := rename[name]; ok {
			name = to
		}
		if p := dst.own(name); p != nil {
			if p.writable {
				p.value = entry.value
			}
			continue
		}
		if p := dst.lookup(name); p != nil && !p.writable {
			continue
		}
		dst.setOwn(name, &property{value: entry.value, writable: true, enumerable: true, configurable: true})
	}
}

type memberEntry struct {
	name  string
	value Value
}

// enumerate lists the enumerable members of a hash or object value in a
// deterministic order: hash keys sorted, object names in definition
// order from the object out through its prototype chain.
func enumerate(src Value) []memberEntry {
	switch src.Kind() {
	case KindHash:
		h := src.Hash()
		names := make([]string, 0, len(h))
		for n := range h {
			names = append(names, n)
		}
		sort.Strings(names)
		out := make([]memberEntry, 0, len(names))
		for _, n := range names {
			out = append(out, memberEntry{name: n, value: h[n]})
		}
		return out
	case KindObject:
		o := src.Object()
		names := enumerableNames(o)
		out := make([]memberEntry, 0, len(names))
		for _, n := range names {
			v, _ := o.Get(n)
			out = append(out, memberEntry{name: n, value: v})
		}
		return out
	default:
		return nil
	}
}

// CopyOptions shapes a mixin copy. A nil Keys slice means "not set"
// and takes the default candidate list; an explicitly empty slice
// disables key redirection so sources are copied verbatim. Map renames
// members on the way in; unmapped names pass through.
type CopyOptions struct {
	Keys []string
	Map  map[string]string
}

// defaultCopyKeys is consulted only by mergeCopyOptions and never
// handed out, so callers cannot mutate the defaults.
var defaultCopyKeys = []string{"prototype"}

func mergeCopyOptions(opts CopyOptions) CopyOptions {
	if opts.Keys == nil {
		opts.Keys = append([]string(nil), defaultCopyKeys...)
	}
	return opts
}
