package runtime

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a number the way swan prints it: integers without a
// fractional part, the shortest round-tripping decimal otherwise, and
// exponent notation outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Inspect renders a value as a swan-like source literal for the REPL and
// test failures. It is not the Str conversion.
func Inspect(v Value) string {
	var b strings.Builder
	inspect(&b, v)
	return b.String()
}

func inspect(b *strings.Builder, v Value) {
	switch Classify(v) {
	case KindNothing:
		b.WriteString("()")
	case KindBool:
		if v.(BoolValue).Val {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case KindNumber:
		b.WriteString(FormatNumber(v.(NumberValue).Val))
	case KindString:
		b.WriteString(strconv.Quote(v.(StringValue).Val))
	case KindList:
		b.WriteByte('[')
		for i, el := range v.(ListValue).Elements() {
			if i > 0 {
				b.WriteString(", ")
			}
			inspect(b, el)
		}
		b.WriteByte(']')
	case KindNamespace:
		ns := v.(*NamespaceValue)
		b.WriteByte('{')
		for i, k := range ns.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(" = ")
			val, _ := ns.Get(k)
			inspect(b, val)
		}
		b.WriteByte('}')
	case KindFunction:
		b.WriteString("[[Function]]")
	case KindTuple:
		b.WriteByte('(')
		for i, item := range Items(v) {
			if i > 0 {
				b.WriteString(", ")
			}
			inspect(b, item)
		}
		b.WriteByte(')')
	}
}
