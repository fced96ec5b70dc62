package sema

// Type is a SimC data type (spec.md §3 "data_type").
type Type int

const (
	Void Type = iota
	Int
	Float
)

func (t Type) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	default:
		return "VOID"
	}
}

// Size returns the element memory size of t, in logical units, used to
// compute a declaration's memory_size (spec.md §3/§4.7: "memory size is
// element_size × length" for arrays).
func (t Type) Size() int {
	switch t {
	case Int:
		return 4
	case Float:
		return 8
	default:
		return 0
	}
}

// ParseType resolves a type keyword lexeme (as it appears on a KindType
// terminal child) to a Type.
func ParseType(name string) (Type, bool) {
	switch name {
	case "INT":
		return Int, true
	case "FLOAT":
		return Float, true
	case "VOID":
		return Void, true
	default:
		return 0, false
	}
}
