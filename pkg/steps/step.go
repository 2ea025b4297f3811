package steps

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/systemstart/stylepipe/pkg/api"
)

var (
	ErrDuplicateStep       = errors.New("duplicate step")
	ErrConflictingDelivery = errors.New("style injection and extraction are mutually exclusive")
)

// Step is one loader in a rule's chain.
type Step struct {
	Name    string         `yaml:"name" json:"name"`
	Loader  string         `yaml:"loader" json:"loader"`
	Options map[string]any `yaml:"options" json:"options"`
}

// List is an ordered loader chain.
//
// Steps are kept in declaration order: delivery (injection or extraction)
// first, the language transform last. The host runs the chain from the last
// step to the first, so the last step sees the raw source.
type List struct {
	steps []Step
}

// Append adds s to the end of the chain. A name may appear only once, and a
// chain never holds both the style injection and the extraction step.
func (l *List) Append(s Step) error {
	if l.Has(s.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, s.Name)
	}
	if (s.Name == api.StepStyle && l.Has(api.StepExtractCSS)) ||
		(s.Name == api.StepExtractCSS && l.Has(api.StepStyle)) {
		return ErrConflictingDelivery
	}
	l.steps = append(l.steps, s)
	return nil
}

func (l List) Len() int { return len(l.steps) }

// Steps returns the chain in declaration order.
func (l List) Steps() []Step { return slices.Clone(l.steps) }

// ExecutionOrder returns the chain in the order the host runs it.
func (l List) ExecutionOrder() []Step {
	out := slices.Clone(l.steps)
	slices.Reverse(out)
	return out
}

// Names returns the step names in declaration order.
func (l List) Names() []string {
	names := make([]string, len(l.steps))
	for i, s := range l.steps {
		names[i] = s.Name
	}
	return names
}

func (l List) Get(name string) (Step, bool) {
	i := slices.IndexFunc(l.steps, func(s Step) bool { return s.Name == name })
	if i < 0 {
		return Step{}, false
	}
	return l.steps[i], true
}

func (l List) Has(name string) bool {
	_, ok := l.Get(name)
	return ok
}

func (l List) MarshalYAML() (any, error) {
	return l.Steps(), nil
}

func (l List) MarshalJSON() ([]byte, error) {
	if l.steps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.steps)
}
