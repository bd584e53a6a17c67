// Package calc implements the immediate-execution arithmetic accumulator
// shared by the basic and scientific calculators.
package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

// Variant selects the operator set of a calculator.
type Variant string

// Calculator variants.
const (
	Basic      Variant = "basic"
	Scientific Variant = "scientific"
)

// Operator is a binary operator symbol.
type Operator string

// Binary operators. NoOperator means nothing is pending.
const (
	NoOperator Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
	OpPercent  Operator = "%"
	OpPower    Operator = "^"
)

// Func is a unary function applied immediately to the current numeral.
type Func string

// Unary functions. Trigonometric arguments are in degrees.
const (
	FuncSin  Func = "sin"
	FuncCos  Func = "cos"
	FuncTan  Func = "tan"
	FuncLog  Func = "log"
	FuncSqrt Func = "sqrt"
)

// Constant names a fixed value that replaces the current numeral.
type Constant string

// ConstPi is the only constant.
const ConstPi Constant = "pi"

// unaryPrecision is the number of decimals unary results are rounded to.
const unaryPrecision = 5

type binaryFunc func(p, n float64) float64

type unaryFunc func(v float64) float64

type variantSpec struct {
	binary    map[Operator]binaryFunc
	unary     map[Func]unaryFunc
	constants map[Constant]string
}

var (
	addFunc      binaryFunc = func(p, n float64) float64 { return p + n }
	subtractFunc binaryFunc = func(p, n float64) float64 { return p - n }
	multiplyFunc binaryFunc = func(p, n float64) float64 { return p * n }
	divideFunc   binaryFunc = func(p, n float64) float64 { return p / n }
	percentFunc  binaryFunc = func(p, n float64) float64 { return p * (n / 100) }
	powerFunc    binaryFunc = pow
)

// pow differs from math.Pow only for a base of ±1 raised to ±Inf, which is
// NaN here.
func pow(p, n float64) float64 {
	if math.IsInf(n, 0) && math.Abs(p) == 1 {
		return math.NaN()
	}
	return math.Pow(p, n)
}

func degrees(fn func(float64) float64) unaryFunc {
	return func(v float64) float64 {
		return fn(v * math.Pi / 180)
	}
}

var variants = map[Variant]variantSpec{
	Basic: {
		binary: map[Operator]binaryFunc{
			OpAdd:      addFunc,
			OpSubtract: subtractFunc,
			OpMultiply: multiplyFunc,
			OpDivide:   divideFunc,
			OpPercent:  percentFunc,
		},
	},
	Scientific: {
		binary: map[Operator]binaryFunc{
			OpAdd:      addFunc,
			OpSubtract: subtractFunc,
			OpMultiply: multiplyFunc,
			OpDivide:   divideFunc,
			OpPower:    powerFunc,
		},
		unary: map[Func]unaryFunc{
			FuncSin:  degrees(math.Sin),
			FuncCos:  degrees(math.Cos),
			FuncTan:  degrees(tan),
			FuncLog:  math.Log10,
			FuncSqrt: math.Sqrt,
		},
		constants: map[Constant]string{
			ConstPi: jsnum.ToFixed(math.Pi, 10),
		},
	},
}

// ParseVariant resolves a variant name, case-insensitively.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := variants[v]; !ok {
		return "", fmt.Errorf("unknown calculator variant %q (use basic or scientific)", name)
	}
	return v, nil
}

// Variants lists the available variants in display order.
func Variants() []Variant {
	return []Variant{Basic, Scientific}
}

// Operators returns the binary operators supported by v in keypad order.
func (v Variant) Operators() []Operator {
	spec := variants[v]
	out := make([]Operator, 0, len(spec.binary))
	for _, op := range []Operator{OpAdd, OpSubtract, OpMultiply, OpDivide, OpPercent, OpPower} {
		if _, ok := spec.binary[op]; ok {
			out = append(out, op)
		}
	}
	return out
}

// Funcs returns the unary functions supported by v in keypad order.
func (v Variant) Funcs() []Func {
	spec := variants[v]
	out := make([]Func, 0, len(spec.unary))
	for _, fn := range []Func{FuncSin, FuncCos, FuncTan, FuncLog, FuncSqrt} {
		if _, ok := spec.unary[fn]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Constants returns the constants supported by v.
func (v Variant) Constants() []Constant {
	if _, ok := variants[v].constants[ConstPi]; ok {
		return []Constant{ConstPi}
	}
	return nil
}

// HasOperator reports whether op belongs to the variant's operator set.
func (v Variant) HasOperator(op Operator) bool {
	_, ok := variants[v].binary[op]
	return ok
}

// HasFunc reports whether fn is available in the variant.
func (v Variant) HasFunc(fn Func) bool {
	_, ok := variants[v].unary[fn]
	return ok
}

// HasConstant reports whether c is available in the variant.
func (v Variant) HasConstant(c Constant) bool {
	_, ok := variants[v].constants[c]
	return ok
}

// coerce mirrors number-to-string-to-number coercion of an operand.
func coerce(v float64) float64 {
	return jsnum.ParseFloat(jsnum.Format(v))
}

// apply evaluates p op n. Invalid operands fall back to n.
func (v Variant) apply(p, n float64, op Operator) float64 {
	p, n = coerce(p), coerce(n)
	if math.IsNaN(p) || math.IsNaN(n) {
		return n
	}
	fn, ok := variants[v].binary[op]
	if !ok {
		return n
	}
	return fn(p, n)
}
