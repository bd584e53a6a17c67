// Package jsnum converts between numerals and float64 using browser number
// semantics: prefix parsing, shortest round-trip output and toFixed rounding.
package jsnum

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// exactDigits is enough fractional digits to print any float64 exactly.
const exactDigits = 1100

// ParseFloat parses the longest numeric prefix of s. It returns NaN when no
// prefix is a valid decimal literal.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign, rest := splitSign(s)
	if strings.HasPrefix(rest, "Infinity") {
		return math.Copysign(math.Inf(1), sign)
	}
	n := scanDecimal(rest)
	if n == 0 {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(rest[:n], 64)
	if err != nil {
		// Range errors still carry ±Inf or a denormal result.
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return math.NaN()
		}
	}
	return math.Copysign(v, sign)
}

// ParseInt parses the longest decimal integer prefix of s. The result is a
// float64 so that a missing prefix can be reported as NaN.
func ParseInt(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign, rest := splitSign(s)
	n := scanDigits(rest)
	if n == 0 {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(rest[:n], 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return math.NaN()
		}
	}
	return math.Copysign(v, sign)
}

func splitSign(s string) (float64, string) {
	switch {
	case strings.HasPrefix(s, "-"):
		return -1, s[1:]
	case strings.HasPrefix(s, "+"):
		return 1, s[1:]
	default:
		return 1, s
	}
}

// scanDecimal returns the length of the longest prefix shaped like
// digits[.digits][e[+-]digits] with at least one mantissa digit.
func scanDecimal(s string) int {
	intDigits := scanDigits(s)
	i := intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = scanDigits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if expDigits := scanDigits(s[j:]); expDigits > 0 {
			i = j + expDigits
		}
	}
	return i
}

func scanDigits(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// Format renders f the way a browser stringifies a number.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	prefix := ""
	if f < 0 {
		prefix = "-"
		f = -f
	}
	digits, n := shortestDigits(f)
	k := len(digits)
	var b strings.Builder
	b.WriteString(prefix)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		exp := n - 1
		if exp >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(exp))
	}
	return b.String()
}

// shortestDigits returns the significant digits of f and the position n of
// the decimal point, so that f = 0.digits * 10^n.
func shortestDigits(f float64) (string, int) {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mant, ".", "", 1)
	return digits, exp + 1
}

// ToFixed renders f with exactly d fractional digits, rounding ties away
// from zero on the exact binary value.
func ToFixed(f float64, d int) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.Abs(f) >= 1e21 || math.IsInf(f, 0) {
		return Format(f)
	}
	if d < 0 {
		d = 0
	}
	prefix := ""
	if f < 0 {
		prefix = "-"
	}
	f = math.Abs(f)
	exact := strconv.FormatFloat(f, 'f', exactDigits, 64)
	intPart, fracPart, _ := strings.Cut(exact, ".")
	digits := []byte(intPart + fracPart[:d])
	if fracPart[d] >= '5' {
		digits = incrementDigits(digits)
	}
	intLen := len(digits) - d
	out := string(digits[:intLen])
	if d > 0 {
		out += "." + string(digits[intLen:])
	}
	return prefix + out
}

func incrementDigits(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}

// RoundTo rounds f to d decimal places through its fixed-point rendering.
func RoundTo(f float64, d int) float64 {
	return ParseFloat(ToFixed(f, d))
}
