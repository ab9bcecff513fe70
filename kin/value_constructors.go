package kin

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewHash(h map[string]Value) Value {
	return Value{kind: KindHash, data: h}
}

// NewFunc builds a named callable object. Functions carry no property
// table of their own until the builder attaches one.
func NewFunc(name string, fn CallFunc) Value {
	return objectValue(&Object{name: name, call: fn})
}

// NewPlainObject builds an object backed by the root prototype whose
// members are the given entries, each writable, enumerable, and
// configurable. Plain objects serve as mixin sources and as templates
// or supertypes for NewType.
func NewPlainObject(members map[string]Value) Value {
	o := newObject(rootProto)
	Assign(o, NewHash(members))
	return objectValue(o)
}

func objectValue(o *Object) Value { return Value{kind: KindObject, data: o} }
