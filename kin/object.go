package kin

import "fmt"

// CallFunc is the native implementation behind a callable object. The
// receiver is the value the call was dispatched on; constructors
// receive the instance under construction.
type CallFunc func(receiver Value, args []Value) (Value, error)

type property struct {
	value        Value
	writable     bool
	enumerable   bool
	configurable bool
}

// Object is a prototype-chained property table. Member lookup walks
// the chain at read time; writes land on the object itself. Functions
// and constructors are objects with a non-nil call implementation.
type Object struct {
	proto *Object
	slots map[string]*property
	names []string
	call  CallFunc
	name  string
}

func newObject(proto *Object) *Object {
	return &Object{proto: proto, slots: make(map[string]*property)}
}

func (o *Object) Proto() *Object { return o.proto }

func (o *Object) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

func (o *Object) Callable() bool { return o != nil && o.call != nil }

// Value wraps the object for use wherever a Value is expected.
func (o *Object) Value() Value { return objectValue(o) }

func (o *Object) Call(receiver Value, args ...Value) (Value, error) {
	if !o.Callable() {
		return NewNil(), fmt.Errorf("%s: %w", o.label(), ErrNotCallable)
	}
	return o.call(receiver, args)
}

// Get resolves a member through the prototype chain, nearest first.
func (o *Object) Get(name string) (Value, bool) {
	if p := o.lookup(name); p != nil {
		return p.value, true
	}
	return NewNil(), false
}

func (o *Object) GetOwn(name string) (Value, bool) {
	if p := o.own(name); p != nil {
		return p.value, true
	}
	return NewNil(), false
}

func (o *Object) Has(name string) bool { return o.lookup(name) != nil }

func (o *Object) HasOwn(name string) bool { return o.own(name) != nil }

// Set assigns through the chain: an existing own member is updated in
// place, a read-only member (own or inherited) rejects the write, and
// an unknown name becomes a new own writable member.
func (o *Object) Set(name string, v Value) error {
	if p := o.own(name); p != nil {
		if !p.writable {
			return fmt.Errorf("%s: %w", name, ErrReadOnlyProperty)
		}
		p.value = v
		return nil
	}
	if p := o.lookup(name); p != nil && !p.writable {
		return fmt.Errorf("%s: %w", name, ErrReadOnlyProperty)
	}
	o.setOwn(name, &property{value: v, writable: true, enumerable: true, configurable: true})
	return nil
}

func (o *Object) own(name string) *property {
	if o == nil || o.slots == nil {
		return nil
	}
	return o.slots[name]
}

func (o *Object) lookup(name string) *property {
	for cur := o; cur != nil; cur = cur.proto {
		if p := cur.own(name); p != nil {
			return p
		}
	}
	return nil
}

func (o *Object) setOwn(name string, p *property) {
	if o.slots == nil {
		o.slots = make(map[string]*property)
	}
	if _, ok := o.slots[name]; !ok {
		o.names = append(o.names, name)
	}
	o.slots[name] = p
}

// enumerableNames lists member names visible to enumeration: own names
// in definition order, then unshadowed inherited names chain-outward.
// A non-enumerable member still shadows an inherited enumerable one.
func enumerableNames(o *Object) []string {
	var out []string
	seen := make(map[string]bool)
	for cur := o; cur != nil; cur = cur.proto {
		for _, n := range cur.names {
			if seen[n] {
				continue
			}
			seen[n] = true
			if cur.slots[n].enumerable {
				out = append(out, n)
			}
		}
	}
	return out
}

func (o *Object) label() string {
	if o == nil {
		return "<nil>"
	}
	if o.Callable() {
		if o.name != "" {
			return o.name + "()"
		}
		return "(anonymous)()"
	}
	if c, ok := o.Get("constructor"); ok && c.Kind() == KindObject && c.Object().Name() != "" {
		return "#<" + c.Object().Name() + ">"
	}
	return "#<object>"
}
