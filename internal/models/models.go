package models

// Kind identifies which variant of a JSON value is populated.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. Only the field matching Kind is meaningful.
// Numbers keep their lexical text so callers decide how to interpret them.
type Value struct {
	Kind   Kind
	Bool   bool
	Number string
	Str    string
	Items  []Value
	Fields []Member
}

// Member is one key/value pair of a JSON object. Objects keep members in the
// order they appear in the input.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns a JSON null.
func NullValue() Value { return Value{Kind: Null} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// NumberValue returns a JSON number with the given lexical form.
func NumberValue(lexical string) Value { return Value{Kind: Number, Number: lexical} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// ArrayValue returns a JSON array holding items.
func ArrayValue(items ...Value) Value { return Value{Kind: Array, Items: items} }

// ObjectValue returns a JSON object holding members in the given order.
func ObjectValue(members ...Member) Value { return Value{Kind: Object, Fields: members} }

// Get returns the value stored under key in an object.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Fields {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Set stores val under key. An existing key keeps its position and has its
// value replaced; a new key is appended.
func (v *Value) Set(key string, val Value) {
	for i := range v.Fields {
		if v.Fields[i].Key == key {
			v.Fields[i].Value = val
			return
		}
	}
	v.Fields = append(v.Fields, Member{Key: key, Value: val})
}

// Document is one top-level JSON value read from a stream, together with its
// position in the stream.
type Document struct {
	// Index is the zero-based position of the document within its source.
	Index int
	// Source names where the document came from, usually a file path.
	Source string
	Root   Value
}
