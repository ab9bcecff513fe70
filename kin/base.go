package kin

// rootProto sits at the top of every prototype chain. baseCtor is the
// universal base constructor each new type initially descends from.
var (
	rootProto *Object
	baseCtor  *Object
)

func init() {
	rootProto = newObject(nil)
	baseCtor = &Object{name: "Base", slots: make(map[string]*property)}
	baseCtor.call = autoConstructor(baseCtor)
	SetDescriptor(baseCtor, "prototype", Descriptor{Value: objectValue(rootProto), Configurable: true})
	SetDescriptor(baseCtor, "supertype", Descriptor{Value: NewNil(), Writable: true, Configurable: true})
	SetDescriptor(baseCtor, "superprototype", Descriptor{Value: NewNil(), Writable: true, Configurable: true})
	SetDescriptor(rootProto, "constructor", Descriptor{Value: objectValue(baseCtor), Writable: true, Configurable: true})
	SetDescriptor(rootProto, "toString", Descriptor{
		Value: NewFunc("toString", func(receiver Value, _ []Value) (Value, error) {
			return NewString(receiver.String()), nil
		}),
		Writable:     true,
		Configurable: true,
	})
	SetDescriptor(rootProto, "valueOf", Descriptor{
		Value: NewFunc("valueOf", func(receiver Value, _ []Value) (Value, error) {
			return receiver, nil
		}),
		Writable:     true,
		Configurable: true,
	})
}

// Base returns the universal base constructor.
func Base() Value { return objectValue(baseCtor) }

// autoConstructor builds a constructor body that allocates on demand:
// a call whose receiver is not already an instance of ctor returns a
// fresh object backed by ctor's current prototype.
func autoConstructor(ctor *Object) CallFunc {
	return func(receiver Value, _ []Value) (Value, error) {
		if receiver.Kind() == KindObject && isInstance(receiver.Object(), ctor) {
			return receiver, nil
		}
		return objectValue(newObject(prototypeOf(ctor))), nil
	}
}
