package calc

import (
	"math"
	"strings"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

const initialInput = "0"

// State is a snapshot of the accumulator registers.
type State struct {
	Input       string
	Previous    float64
	HasPrevious bool
	Operator    Operator
	Waiting     bool
}

// Evaluation describes one computation performed by the accumulator.
type Evaluation struct {
	Variant  Variant
	Left     float64
	Operator Operator
	Func     Func
	Right    float64
	Result   float64
	// Chained is set when an operator press evaluated the pending operation.
	Chained bool
}

// Unary reports whether the evaluation applied a unary function.
func (e Evaluation) Unary() bool {
	return e.Func != ""
}

// Expression renders the evaluated expression without its result.
func (e Evaluation) Expression() string {
	if e.Unary() {
		return string(e.Func) + "(" + jsnum.Format(e.Right) + ")"
	}
	return jsnum.Format(e.Left) + " " + string(e.Operator) + " " + jsnum.Format(e.Right)
}

// Accumulator turns key events into a running result. It is not safe for
// concurrent use; each widget owns its own instance.
type Accumulator struct {
	variant Variant
	display func(string)
	observe func(Evaluation)

	input    string
	previous float64
	hasPrev  bool
	operator Operator
	waiting  bool
}

// New returns an accumulator in its initial state. display, when non-nil,
// receives the current numeral after every event.
func New(variant Variant, display func(string)) *Accumulator {
	return &Accumulator{
		variant: variant,
		display: display,
		input:   initialInput,
	}
}

// OnEvaluate registers fn to be called after each computation.
func (a *Accumulator) OnEvaluate(fn func(Evaluation)) {
	a.observe = fn
}

// Variant returns the accumulator's variant.
func (a *Accumulator) Variant() Variant {
	return a.variant
}

// Display returns the numeral currently shown.
func (a *Accumulator) Display() string {
	return a.input
}

// State returns a snapshot of the registers.
func (a *Accumulator) State() State {
	return State{
		Input:       a.input,
		Previous:    a.previous,
		HasPrevious: a.hasPrev,
		Operator:    a.operator,
		Waiting:     a.waiting,
	}
}

// Digit enters a single decimal digit (0-9). Other bytes are ignored.
func (a *Accumulator) Digit(d byte) {
	if d < '0' || d > '9' {
		a.emit()
		return
	}
	a.enter(string(d))
}

// Point enters a decimal point.
func (a *Accumulator) Point() {
	a.enter(".")
}

func (a *Accumulator) enter(symbol string) {
	defer a.emit()
	if symbol == "." && strings.Contains(a.input, ".") {
		return
	}
	if a.waiting {
		if symbol == "." {
			a.input = "0."
		} else {
			a.input = symbol
		}
		a.waiting = false
		return
	}
	if a.input == initialInput && symbol != "." {
		a.input = symbol
		return
	}
	a.input += symbol
}

// Clear resets the accumulator to its initial state.
func (a *Accumulator) Clear() {
	a.input = initialInput
	a.previous = 0
	a.hasPrev = false
	a.operator = NoOperator
	a.waiting = false
	a.emit()
}

// Backspace removes the last character of the current numeral.
func (a *Accumulator) Backspace() {
	if len(a.input) == 1 || a.input == initialInput {
		a.input = initialInput
	} else {
		a.input = a.input[:len(a.input)-1]
	}
	a.emit()
}

// Operator records op as the pending operator, first evaluating any
// operation that is already pending. Operators outside the variant are
// ignored.
func (a *Accumulator) Operator(op Operator) {
	defer a.emit()
	if !a.variant.HasOperator(op) {
		return
	}
	x := jsnum.ParseFloat(a.input)
	switch {
	case !a.hasPrev && !math.IsNaN(x):
		a.previous = x
		a.hasPrev = true
	case a.operator != NoOperator:
		result := a.evaluate(x, true)
		a.input = jsnum.Format(result)
		a.previous = result
		a.hasPrev = true
	}
	a.waiting = true
	a.operator = op
}

// Equals evaluates the pending operation. It does nothing when no operator
// is pending or no second operand has been entered.
func (a *Accumulator) Equals() {
	defer a.emit()
	if a.operator == NoOperator || a.waiting {
		return
	}
	result := a.evaluate(jsnum.ParseFloat(a.input), false)
	a.input = jsnum.Format(result)
	a.operator = NoOperator
	a.previous = 0
	a.hasPrev = false
	a.waiting = true
}

// Unary applies fn to the current numeral, rounding to five decimals.
func (a *Accumulator) Unary(fn Func) {
	defer a.emit()
	f, ok := variants[a.variant].unary[fn]
	if !ok {
		return
	}
	arg := jsnum.ParseFloat(a.input)
	result := jsnum.RoundTo(f(arg), unaryPrecision)
	a.input = jsnum.Format(result)
	a.waiting = true
	a.notify(Evaluation{Variant: a.variant, Func: fn, Right: arg, Result: result})
}

// Constant replaces the current numeral with c.
func (a *Accumulator) Constant(c Constant) {
	defer a.emit()
	text, ok := variants[a.variant].constants[c]
	if !ok {
		return
	}
	a.input = text
	a.waiting = true
}

func (a *Accumulator) evaluate(right float64, chained bool) float64 {
	left := math.NaN()
	if a.hasPrev {
		left = a.previous
	}
	result := a.variant.apply(left, right, a.operator)
	a.notify(Evaluation{
		Variant:  a.variant,
		Left:     left,
		Operator: a.operator,
		Right:    right,
		Result:   result,
		Chained:  chained,
	})
	return result
}

func (a *Accumulator) notify(ev Evaluation) {
	if a.observe != nil {
		a.observe(ev)
	}
}

func (a *Accumulator) emit() {
	if a.display != nil {
		a.display(a.input)
	}
}
