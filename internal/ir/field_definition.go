package ir

// FieldIOType tags whether a blossom schema field is consumed or produced.
type FieldIOType int

const (
	FieldInput FieldIOType = iota
	FieldOutput
)

// FieldType is the declared scalar/structural type of a blossom field.
type FieldType int

const (
	FieldInt FieldType = iota
	FieldFloat
	FieldBool
	FieldString
	FieldArray
	FieldMap
)

func (t FieldType) String() string {
	switch t {
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldBool:
		return "bool"
	case FieldString:
		return "string"
	case FieldArray:
		return "array"
	case FieldMap:
		return "map"
	default:
		return "unknown"
	}
}

// Matches reports whether a resolved DataItem's kind satisfies this
// field's declared FieldType (Int→IntValue etc).
func (t FieldType) Matches(kind DataKind) bool {
	switch t {
	case FieldInt:
		return kind == KindInt
	case FieldFloat:
		return kind == KindFloat
	case FieldBool:
		return kind == KindBool
	case FieldString:
		return kind == KindString
	case FieldArray:
		return kind == KindArray
	case FieldMap:
		return kind == KindMap
	default:
		return false
	}
}

// FieldDefinition declares one input/output field of a blossom's schema.
type FieldDefinition struct {
	Name      string
	IOType    FieldIOType
	FieldType FieldType
	Required  bool

	// Match, when non-nil, is a constant the stringified resolved value
	// must equal exactly.
	Match *string

	Default *DataItem
	Regex   string

	// Min/Max bound a numeric (Int/Float) field. Nil means unbounded.
	Min *float64
	Max *float64

	// Comment is documentation only; nothing validates against it.
	// Carried over from the original BlossomLeaf schema purely so a
	// generated reference doc has somewhere to pull a description from.
	Comment string
}

// RequiredKeysWildcard is the `*` sentinel meaning "accept any additional
// input key" in a blossom's required-keys set.
const RequiredKeysWildcard = "*"
