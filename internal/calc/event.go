package calc

import (
	"fmt"
	"strings"
)

// Kind identifies the type of an input event.
type Kind int

// Event kinds.
const (
	KindDigit Kind = iota
	KindPoint
	KindOperator
	KindEquals
	KindClear
	KindBackspace
	KindUnary
	KindConstant
)

// Event is one discrete key press.
type Event struct {
	Kind     Kind
	Digit    byte
	Operator Operator
	Func     Func
	Constant Constant
}

// Press dispatches ev to the matching accumulator operation.
func (a *Accumulator) Press(ev Event) {
	switch ev.Kind {
	case KindDigit:
		a.Digit(ev.Digit)
	case KindPoint:
		a.Point()
	case KindOperator:
		a.Operator(ev.Operator)
	case KindEquals:
		a.Equals()
	case KindClear:
		a.Clear()
	case KindBackspace:
		a.Backspace()
	case KindUnary:
		a.Unary(ev.Func)
	case KindConstant:
		a.Constant(ev.Constant)
	default:
		a.emit()
	}
}

// String renders the event as the key token that produces it.
func (ev Event) String() string {
	switch ev.Kind {
	case KindDigit:
		return string(ev.Digit)
	case KindPoint:
		return "."
	case KindOperator:
		return string(ev.Operator)
	case KindEquals:
		return "="
	case KindClear:
		return "C"
	case KindBackspace:
		return "B"
	case KindUnary:
		return string(ev.Func)
	case KindConstant:
		return string(ev.Constant)
	default:
		return "?"
	}
}

// ParseKey maps a key token to an event for the given variant. Digits,
// ".", "=", "C" and "B" are shared; operators, functions and constants must
// belong to the variant.
func ParseKey(v Variant, token string) (Event, error) {
	token = strings.TrimSpace(token)
	if len(token) == 1 && token[0] >= '0' && token[0] <= '9' {
		return Event{Kind: KindDigit, Digit: token[0]}, nil
	}
	switch strings.ToLower(token) {
	case ".":
		return Event{Kind: KindPoint}, nil
	case "=":
		return Event{Kind: KindEquals}, nil
	case "c", "clear":
		return Event{Kind: KindClear}, nil
	case "b", "backspace":
		return Event{Kind: KindBackspace}, nil
	}
	if op := Operator(token); v.HasOperator(op) {
		return Event{Kind: KindOperator, Operator: op}, nil
	}
	lower := strings.ToLower(token)
	if fn := Func(lower); v.HasFunc(fn) {
		return Event{Kind: KindUnary, Func: fn}, nil
	}
	if c := Constant(lower); v.HasConstant(c) {
		return Event{Kind: KindConstant, Constant: c}, nil
	}
	return Event{}, fmt.Errorf("unknown key %q for %s calculator", token, v)
}

// ParseKeys splits a key sequence and parses every token. Tokens are
// separated by whitespace; a token made only of digits and points expands
// into one event per character, so "12.5" is four key presses.
func ParseKeys(v Variant, input string) ([]Event, error) {
	var events []Event
	for _, field := range strings.Fields(input) {
		if isNumeral(field) {
			for i := 0; i < len(field); i++ {
				ev, err := ParseKey(v, field[i:i+1])
				if err != nil {
					return nil, err
				}
				events = append(events, ev)
			}
			continue
		}
		ev, err := ParseKey(v, field)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func isNumeral(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return false
		}
	}
	return true
}
