package sensors

import "strconv"

// Kind discriminates the concrete type held by a Variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt64
	KindFloat64
	KindBool
	KindString
)

// Variant is a tagged union over the four value types a sensor property can
// carry on the wire: 64-bit signed integer, double, boolean and string.
// The zero Variant has KindInvalid and answers "not ok" to every accessor,
// which is how a missing or type-mismatched property degrades instead of
// erroring.
type Variant struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

func Int64Value(v int64) Variant     { return Variant{kind: KindInt64, i: v} }
func Float64Value(v float64) Variant { return Variant{kind: KindFloat64, f: v} }
func BoolValue(v bool) Variant       { return Variant{kind: KindBool, b: v} }
func StringValue(v string) Variant   { return Variant{kind: KindString, s: v} }

// FromRaw converts a dynamically typed value (as decoded from the message
// bus) into a Variant. All integer widths are normalized to int64, float32
// to float64. The second result is false for types that have no place in a
// property bag; callers drop such values.
func FromRaw(raw interface{}) (Variant, bool) {
	switch v := raw.(type) {
	case int64:
		return Int64Value(v), true
	case int32:
		return Int64Value(int64(v)), true
	case int16:
		return Int64Value(int64(v)), true
	case int:
		return Int64Value(int64(v)), true
	case uint64:
		return Int64Value(int64(v)), true
	case uint32:
		return Int64Value(int64(v)), true
	case uint16:
		return Int64Value(int64(v)), true
	case byte:
		return Int64Value(int64(v)), true
	case float64:
		return Float64Value(v), true
	case float32:
		return Float64Value(float64(v)), true
	case bool:
		return BoolValue(v), true
	case string:
		return StringValue(v), true
	}
	return Variant{}, false
}

// Kind reports which type the Variant holds.
func (v Variant) Kind() Kind { return v.kind }

// Int64 returns the held integer; ok is false for every other kind.
func (v Variant) Int64() (int64, bool) { return v.i, v.kind == KindInt64 }

// Float64 returns the held double; ok is false for every other kind.
func (v Variant) Float64() (float64, bool) { return v.f, v.kind == KindFloat64 }

// Bool returns the held boolean; ok is false for every other kind.
func (v Variant) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the held string; ok is false for every other kind.
func (v Variant) Str() (string, bool) { return v.s, v.kind == KindString }

// String renders the value for logs and debugging.
func (v Variant) String() string {
	switch v.kind {
	case KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	}
	return "<invalid>"
}

// Bag is one sensor's property set, keyed by property name. Absent keys are
// a normal state; the typed getters below fold "absent" and "wrong type"
// into a single not-ok result.
type Bag map[string]Variant

// Int64 returns the named property as an integer.
func (b Bag) Int64(key string) (int64, bool) {
	v, ok := b[key]
	if !ok {
		return 0, false
	}
	return v.Int64()
}

// Bool returns the named property as a boolean.
func (b Bag) Bool(key string) (bool, bool) {
	v, ok := b[key]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Str returns the named property as a string.
func (b Bag) Str(key string) (string, bool) {
	v, ok := b[key]
	if !ok {
		return "", false
	}
	return v.Str()
}
