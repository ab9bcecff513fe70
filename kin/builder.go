package kin

import (
	"fmt"
	"maps"
	"sort"
)

// markerKeys redirect a member to the constructor when present in a
// descriptor record, checked in priority order.
var markerKeys = [...]string{"s", "shared", "static"}

// Definition wraps a single constructor (the identity) and exposes the
// chainable type-building operations. The first failed operation
// latches: later calls no-op and Err reports it.
type Definition struct {
	identity *Object
	err      error
}

// NewType begins a definition. A callable object is adopted as the
// constructor directly. Anything else is treated as a template: a
// synthetic auto-instantiating constructor is generated, the
// template's own callable `constructor` member (when present) becomes
// the default supertype, and otherwise the template itself heads the
// inheritance chain. There is no invalid input; seeds with no usable
// members coerce to an anonymous type over Base.
func NewType(v Value) *Definition {
	if v.Kind() == KindObject && v.Object().Callable() {
		d := &Definition{identity: v.Object()}
		d.initIdentity()
		return d
	}
	ctor := newObject(nil)
	ctor.call = autoConstructor(ctor)
	d := &Definition{identity: ctor}
	d.initIdentity()
	if template := templateObject(v); template != nil {
		if c, ok := template.GetOwn("constructor"); ok && c.Kind() == KindObject && c.Object().Callable() {
			d.rewire(c, false)
		} else {
			d.rewire(objectValue(template), false)
		}
	}
	return d
}

// initIdentity gives a fresh constructor its default member table and
// chain attributes. Everything stays writable until the first Extends.
func (d *Definition) initIdentity() {
	id := d.identity
	if _, ok := id.GetOwn("prototype"); !ok {
		proto := newObject(rootProto)
		SetDescriptor(proto, "constructor", Descriptor{Value: objectValue(id), Writable: true, Configurable: true})
		SetDescriptor(id, "prototype", Descriptor{Value: objectValue(proto), Writable: true, Configurable: true})
	}
	if _, ok := id.GetOwn("supertype"); !ok {
		SetDescriptor(id, "supertype", Descriptor{Value: Base(), Writable: true, Configurable: true})
		SetDescriptor(id, "superprototype", Descriptor{Value: objectValue(rootProto), Writable: true, Configurable: true})
	}
}

// templateObject coerces a non-callable seed into an object usable as
// the head of an inheritance chain. Hashes become plain objects; other
// kinds carry no members worth inheriting and yield nil.
func templateObject(v Value) *Object {
	switch v.Kind() {
	case KindObject:
		return v.Object()
	case KindHash:
		o := newObject(rootProto)
		Assign(o, v)
		return o
	default:
		return nil
	}
}

// Extends rewires the inheritance chain against super. The fresh
// prototype is backed by super's prototype when it has one, or by
// super itself, so plain objects can head a chain too. Members already
// defined on the old prototype keep their exact descriptors, which
// makes Extends order-independent with respect to Implements and
// Copies. After the call the identity's prototype, constructor,
// supertype, and superprototype no longer accept assignment; only a
// later Extends re-resolves them.
func (d *Definition) Extends(super Value) *Definition {
	if d.err != nil {
		return d
	}
	d.rewire(super, true)
	return d
}

// Inherit is the legacy spelling of Extends.
func (d *Definition) Inherit(super Value) *Definition { return d.Extends(super) }

func (d *Definition) rewire(super Value, lock bool) {
	id := d.identity
	supObj := templateObject(super)
	if supObj == nil {
		supObj = baseCtor
		super = Base()
	}
	backing := supObj
	if p, ok := supObj.Get("prototype"); ok && p.Kind() == KindObject {
		backing = p.Object()
	}
	next := newObject(backing)
	if old := d.prototype(); old != nil {
		for _, name := range OwnNames(old) {
			desc, _ := OwnDescriptor(old, name)
			SetDescriptor(next, name, desc)
		}
	}
	SetDescriptor(next, "constructor", Descriptor{Value: objectValue(id), Writable: true, Configurable: true})
	writable := !lock
	SetDescriptor(id, "prototype", Descriptor{Value: objectValue(next), Writable: writable, Configurable: true})
	SetDescriptor(id, "constructor", Descriptor{Value: objectValue(id), Writable: writable, Configurable: true})
	SetDescriptor(id, "supertype", Descriptor{Value: super, Writable: writable, Configurable: true})
	SetDescriptor(id, "superprototype", Descriptor{Value: objectValue(backing), Writable: writable, Configurable: true})
}

// Copies merges the enumerable members of each source into the
// prototype, later sources winning. A source carrying one of the
// candidate key members (opts.Keys) contributes that nested object
// instead of itself.
func (d *Definition) Copies(sources []Value, opts CopyOptions) *Definition {
	if d.err != nil {
		return d
	}
	opts = mergeCopyOptions(opts)
	proto := d.prototype()
	for _, src := range sources {
		assignMapped(proto, resolveCopySource(src, opts.Keys), opts.Map)
	}
	return d
}

// Mixin is the legacy spelling of Copies.
func (d *Definition) Mixin(sources []Value, opts CopyOptions) *Definition {
	return d.Copies(sources, opts)
}

// resolveCopySource picks the object to copy from: the first candidate
// key present on src redirects to that member, otherwise src itself is
// used verbatim.
func resolveCopySource(src Value, keys []string) Value {
	switch src.Kind() {
	case KindObject:
		o := src.Object()
		for _, k := range keys {
			if v, ok := o.Get(k); ok {
				return v
			}
		}
	case KindHash:
		h := src.Hash()
		for _, k := range keys {
			if v, ok := h[k]; ok {
				return v
			}
		}
	}
	return src
}

// Implements defines many members at once from descriptor records of
// the {value, writable, enumerable, configurable} shape, all flags
// defaulting to false. A marker key (s, shared, or static, first match
// winning) moves the member onto the constructor itself with the
// marker's value.
func (d *Definition) Implements(members map[string]Value) *Definition {
	if d.err != nil {
		return d
	}
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if d.Member(name, members[name]); d.err != nil {
			break
		}
	}
	return d
}

// Define is the legacy spelling of Implements.
func (d *Definition) Define(members map[string]Value) *Definition {
	return d.Implements(members)
}

// Member defines a single member from a descriptor record.
func (d *Definition) Member(name string, desc Value) *Definition {
	if d.err != nil {
		return d
	}
	desc, static := splitStatic(desc)
	parsed, err := ParseDescriptor(desc)
	if err != nil {
		d.err = fmt.Errorf("member %q: %w", name, err)
		return d
	}
	target := d.prototype()
	if static {
		target = d.identity
	}
	if err := DefineProperty(target, name, parsed); err != nil {
		d.err = fmt.Errorf("member %q: %w", name, err)
	}
	return d
}

// DefineMember is the legacy spelling of Member.
func (d *Definition) DefineMember(name string, desc Value) *Definition {
	return d.Member(name, desc)
}

// splitStatic strips the first matching marker key from a descriptor
// record and substitutes its value as the member value.
func splitStatic(desc Value) (Value, bool) {
	if desc.Kind() != KindHash {
		return desc, false
	}
	h := desc.Hash()
	for _, marker := range markerKeys {
		mv, ok := h[marker]
		if !ok {
			continue
		}
		rest := maps.Clone(h)
		delete(rest, marker)
		rest[descValue] = mv
		return NewHash(rest), true
	}
	return desc, false
}

func (d *Definition) prototype() *Object {
	if v, ok := d.identity.GetOwn("prototype"); ok && v.Kind() == KindObject {
		return v.Object()
	}
	return nil
}

// String yields a debug label carrying the constructor name.
func (d *Definition) String() string {
	if name := d.identity.Name(); name != "" {
		return "type " + name
	}
	return "type (anonymous)"
}

// ValueOf returns the wrapped constructor so the definition can stand
// in for it.
func (d *Definition) ValueOf() Value { return objectValue(d.identity) }

// Identity returns the wrapped constructor.
func (d *Definition) Identity() Value { return d.ValueOf() }

// Err reports the first operation failure, if any.
func (d *Definition) Err() error { return d.err }
