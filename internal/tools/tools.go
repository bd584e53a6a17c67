// Package tools implements the closed-form formula tools that sit next to
// the calculators: finance, health, unit conversion, data and dates.
package tools

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/calcdeck/internal/generator"
	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

// Category groups tools for listing.
type Category string

// Tool categories in display order.
const (
	General Category = "general"
	Finance Category = "finance"
	Health  Category = "health"
	Science Category = "science"
	Data    Category = "data"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{General, Finance, Health, Science, Data}
}

// Field is one named input of a tool.
type Field struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default string `json:"default"`
	// Options, when set, lists the only accepted values.
	Options []string `json:"options,omitempty"`
}

// Line is one labelled output value.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tool describes a formula tool.
type Tool struct {
	Name     string
	Title    string
	Category Category
	Fields   []Field
	compute  func(env *env, in values) []Line
}

// Result is the outcome of running a tool.
type Result struct {
	Tool   string
	Inputs map[string]string
	Lines  []Line
}

// String renders the result lines as "label: value" pairs.
func (r Result) String() string {
	parts := make([]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		parts = append(parts, l.Label+": "+l.Value)
	}
	return strings.Join(parts, ", ")
}

type env struct {
	rand *generator.Generator
	now  func() time.Time
}

// Registry holds the tool table and the sources tools draw on.
type Registry struct {
	tools  []Tool
	byName map[string]int
	env    env
}

// Option configures a Registry.
type Option func(*Registry)

// WithGenerator sets the random source used by the random tool.
func WithGenerator(g *generator.Generator) Option {
	return func(r *Registry) {
		r.env.rand = g
	}
}

// WithClock sets the clock used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.env.now = now
	}
}

// NewRegistry returns a registry with every tool.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName: map[string]int{},
		env:    env{rand: generator.New(), now: time.Now},
	}
	for _, opt := range opts {
		opt(r)
	}
	groups := [][]Tool{generalTools(), financeTools(), healthTools(), scienceTools(), dataTools()}
	for _, group := range groups {
		for _, t := range group {
			r.byName[t.Name] = len(r.tools)
			r.tools = append(r.tools, t)
		}
	}
	return r
}

// Tools returns all tools in display order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	idx, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Tool{}, false
	}
	return r.tools[idx], true
}

// Run computes the named tool. Missing inputs take field defaults; unknown
// keys and values outside a field's options are rejected.
func (r *Registry) Run(name string, inputs map[string]string) (Result, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("unknown tool %q", name)
	}
	in, err := t.resolve(inputs)
	if err != nil {
		return Result{}, err
	}
	return Result{Tool: t.Name, Inputs: in, Lines: t.compute(&r.env, in)}, nil
}

func (t Tool) resolve(inputs map[string]string) (values, error) {
	known := make(map[string]Field, len(t.Fields))
	for _, f := range t.Fields {
		known[f.Key] = f
	}
	var unknown []string
	for key := range inputs {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown input %s for tool %s", strings.Join(unknown, ", "), t.Name)
	}
	in := make(values, len(t.Fields))
	for _, f := range t.Fields {
		v, ok := inputs[f.Key]
		if !ok {
			v = f.Default
		}
		if len(f.Options) > 0 && !contains(f.Options, v) {
			return nil, fmt.Errorf("invalid %s %q for tool %s (want one of %s)", f.Key, v, t.Name, strings.Join(f.Options, ", "))
		}
		in[f.Key] = v
	}
	return in, nil
}

// Defaults returns the field defaults keyed by field.
func (t Tool) Defaults() map[string]string {
	out := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Key] = f.Default
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type values map[string]string

func (v values) float(key string) float64 {
	return jsnum.ParseFloat(v[key])
}

func (v values) int(key string) float64 {
	return jsnum.ParseInt(v[key])
}

// orZero maps NaN and zero to zero, the way falsy numbers fall back.
func orZero(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}

func anyNaN(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}

func currency(f float64) string {
	return "$" + jsnum.ToFixed(f, 2)
}

func line(label, value string) Line {
	return Line{Label: label, Value: value}
}
