package kin

import "fmt"

// prototypeOf resolves a constructor's prototype object, falling back
// to the root prototype when the member is missing or not an object.
func prototypeOf(ctor *Object) *Object {
	if ctor != nil {
		if v, ok := ctor.Get("prototype"); ok && v.Kind() == KindObject {
			return v.Object()
		}
	}
	return rootProto
}

// New instantiates ctor: it allocates an object backed by the
// constructor's prototype, invokes the constructor with the instance
// as receiver, and returns the instance. A constructor that returns an
// object overrides the result.
func New(ctor Value, args ...Value) (Value, error) {
	c := ctor.Object()
	if !c.Callable() {
		return NewNil(), fmt.Errorf("new %s: %w", ctor.String(), ErrNotCallable)
	}
	inst := objectValue(newObject(prototypeOf(c)))
	ret, err := c.Call(inst, args...)
	if err != nil {
		return NewNil(), err
	}
	if ret.Kind() == KindObject {
		return ret, nil
	}
	return inst, nil
}

// Call invokes a callable value with an explicit receiver.
func Call(fn Value, receiver Value, args ...Value) (Value, error) {
	f := fn.Object()
	if !f.Callable() {
		return NewNil(), fmt.Errorf("call %s: %w", fn.String(), ErrNotCallable)
	}
	return f.Call(receiver, args...)
}

// InstanceOf reports whether v's prototype chain passes through ctor's
// prototype.
func InstanceOf(v Value, ctor Value) bool {
	if v.Kind() != KindObject || ctor.Kind() != KindObject {
		return false
	}
	return isInstance(v.Object(), ctor.Object())
}

func isInstance(o *Object, ctor *Object) bool {
	if o == nil || ctor == nil {
		return false
	}
	target := prototypeOf(ctor)
	for cur := o.proto; cur != nil; cur = cur.proto {
		if cur == target {
			return true
		}
	}
	return false
}
