package kin

import (
	"sort"
	"strconv"
	"strings"
)

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Hash() map[string]Value {
	if v.kind != KindHash {
		return nil
	}
	return v.data.(map[string]Value)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

// Equal reports structural equality for scalars and hashes and
// identity for objects.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindInt, KindFloat, KindString:
		return v.data == other.data
	case KindHash:
		a, b := v.Hash(), other.Hash()
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case KindObject:
		return v.data == other.data
	default:
		return false
	}
}

// String renders strings verbatim and everything else in a debug form.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.data.(bool))
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.data.(float64), 'g', -1, 64)
	case KindString:
		return v.data.(string)
	case KindHash:
		h := v.Hash()
		names := make([]string, 0, len(h))
		for n := range h {
			names = append(names, n)
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteString("{")
		for i, n := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(n)
			b.WriteString(": ")
			b.WriteString(quoteIfString(h[n]))
		}
		b.WriteString("}")
		return b.String()
	case KindObject:
		return v.data.(*Object).label()
	default:
		return "unknown"
	}
}

func quoteIfString(v Value) string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return v.String()
}
