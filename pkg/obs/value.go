package obs

import (
	"math"
	"strconv"
	"strings"
)

// Kind tells what a Value holds.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
)

// Value is a single cell of an observation table. The zero Value is
// missing.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Missing is the missing value.
var Missing = Value{}

// String creates a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a numeric Value. NaN is treated as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing
	}
	return Value{kind: KindNumber, num: f}
}

// Int creates a numeric Value from an integer.
func Int(i int) Value {
	return Value{kind: KindNumber, num: float64(i)}
}

// Parse turns a text field into a Value. Empty fields and the usual
// NA markers become missing, everything else stays a string verbatim.
// Numeric readers convert strings through Float.
func Parse(s string) Value {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "<NA>":
		return Missing
	}
	return String(s)
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing is true for missing values.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the numeric content of the value. Strings holding a
// number are converted. The second result is false for missing values
// and non-numeric strings.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String stringifies the value. Integral numbers have no fractional
// part, missing values are empty.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatFloat(v.num, 'f', 0, 64)
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return ""
	}
}

// Equal compares two values by kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.str == o.str && v.num == o.num
}
