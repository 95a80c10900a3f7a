package domain

import (
	"math"
	"strconv"
	"strings"
)

// CellKind identifies the dynamic type held by a Cell
type CellKind uint8

const (
	KindNull CellKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the kind name
func (k CellKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Cell is a single typed value of a Table. The zero Cell is null.
type Cell struct {
	kind CellKind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns a null cell
func Null() Cell { return Cell{} }

// Bool returns a boolean cell
func Bool(v bool) Cell { return Cell{kind: KindBool, b: v} }

// Int returns an integer cell
func Int(v int64) Cell { return Cell{kind: KindInt, i: v} }

// Float returns a float cell. NaN is stored as null.
func Float(v float64) Cell {
	if math.IsNaN(v) {
		return Null()
	}
	return Cell{kind: KindFloat, f: v}
}

// String returns a string cell
func String(v string) Cell { return Cell{kind: KindString, s: v} }

// Kind returns the cell kind
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether the cell is missing
func (c Cell) IsNull() bool { return c.kind == KindNull }

// IsNumeric reports whether the cell holds an int or a float
func (c Cell) IsNumeric() bool { return c.kind == KindInt || c.kind == KindFloat }

// BoolValue returns the boolean payload
func (c Cell) BoolValue() bool { return c.b }

// IntValue returns the integer payload
func (c Cell) IntValue() int64 { return c.i }

// FloatValue returns the numeric payload as float64 for int and float cells
func (c Cell) FloatValue() float64 {
	if c.kind == KindInt {
		return float64(c.i)
	}
	return c.f
}

// StringValue returns the string payload
func (c Cell) StringValue() string { return c.s }

// Value returns the payload as an interface value, nil for null
func (c Cell) Value() interface{} {
	switch c.kind {
	case KindBool:
		return c.b
	case KindInt:
		return c.i
	case KindFloat:
		return c.f
	case KindString:
		return c.s
	default:
		return nil
	}
}

// Equal reports value equality. Null equals null and numbers compare by exact
// value, so Int(1) equals Float(1.0) but Int(1<<53 + 1) does not equal
// Float(1<<53).
func (c Cell) Equal(o Cell) bool {
	if c.IsNumeric() && o.IsNumeric() {
		return c.Compare(o) == 0
	}
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindNull:
		return true
	case KindBool:
		return c.b == o.b
	case KindString:
		return c.s == o.s
	}
	return false
}

// rank orders kinds for Compare: null < bool < number < string
func (c Cell) rank() int {
	switch c.kind {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	default:
		return 3
	}
}

// Compare defines a total order over cells: null < bool < number < string.
// Booleans order false before true, numbers by value, strings bytewise.
func (c Cell) Compare(o Cell) int {
	if rc, ro := c.rank(), o.rank(); rc != ro {
		if rc < ro {
			return -1
		}
		return 1
	}
	switch c.kind {
	case KindBool:
		switch {
		case c.b == o.b:
			return 0
		case !c.b:
			return -1
		default:
			return 1
		}
	case KindInt, KindFloat:
		switch {
		case c.kind == KindInt && o.kind == KindInt:
			switch {
			case c.i < o.i:
				return -1
			case c.i > o.i:
				return 1
			}
			return 0
		case c.kind == KindInt:
			return compareIntFloat(c.i, o.f)
		case o.kind == KindInt:
			return -compareIntFloat(o.i, c.f)
		}
		a, b := c.f, o.f
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(c.s, o.s)
	}
	return 0
}

// Key returns a string that is identical for two cells exactly when Equal
// reports true. Integral floats share the integer form. Used for hashing
// rows and counting distinct values.
func (c Cell) Key() string {
	switch c.kind {
	case KindNull:
		return "\x00"
	case KindBool:
		if c.b {
			return "\x01T"
		}
		return "\x01F"
	case KindInt:
		return "\x02" + strconv.FormatInt(c.i, 10)
	case KindFloat:
		f := c.f
		if f == 0 {
			f = 0 // folds -0.0
		}
		if i, ok := floatAsInt(f); ok {
			return "\x02" + strconv.FormatInt(i, 10)
		}
		return "\x02" + strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return "\x03" + c.s
	}
}

// Format renders the cell the way the CSV export writes it.
// Nulls are empty, booleans are True/False and integral floats keep a
// trailing ".0".
func (c Cell) Format() string {
	switch c.kind {
	case KindBool:
		if c.b {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return FormatFloat(c.f)
	case KindString:
		return c.s
	default:
		return ""
	}
}

// String implements fmt.Stringer
func (c Cell) String() string {
	if c.kind == KindNull {
		return "<null>"
	}
	return c.Format()
}

// FormatFloat renders a float in shortest round-trip form. Integral values get
// a ".0" suffix; magnitudes at or above 1e16 or below 1e-4 use exponent form.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// floatAsInt returns f as an int64 when it is integral and representable
func floatAsInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// compareIntFloat orders i against f without rounding i to a float64
func compareIntFloat(i int64, f float64) int {
	if fi, ok := floatAsInt(f); ok {
		switch {
		case i < fi:
			return -1
		case i > fi:
			return 1
		}
		return 0
	}
	a := float64(i)
	switch {
	case a < f:
		return -1
	case a > f:
		return 1
	case f > 0:
		// f is at least 2^63
		return -1
	}
	return 1
}
