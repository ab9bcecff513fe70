package kin

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindHash
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindHash:
		return "hash"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

type Value struct {
	kind ValueKind
	data any
}
