package calc

// Trace is the outcome of running a key sequence on a fresh accumulator.
type Trace struct {
	Variant     Variant
	Displays    []string
	Evaluations []Evaluation
	Final       string
}

// Run presses every event in order on a new accumulator.
func Run(v Variant, events []Event) Trace {
	tr := Trace{Variant: v}
	acc := New(v, func(s string) {
		tr.Displays = append(tr.Displays, s)
	})
	acc.OnEvaluate(func(ev Evaluation) {
		tr.Evaluations = append(tr.Evaluations, ev)
	})
	for _, ev := range events {
		acc.Press(ev)
	}
	tr.Final = acc.Display()
	return tr
}

// RunKeys parses input with ParseKeys and runs the result.
func RunKeys(v Variant, input string) (Trace, error) {
	events, err := ParseKeys(v, input)
	if err != nil {
		return Trace{}, err
	}
	return Run(v, events), nil
}
