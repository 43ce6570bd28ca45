// Package prompt describes the interactive questions feature modules
// contribute and assembles them into the final prompt sequence.
package prompt

import "sort"

// Type selects how a prompt is presented and what its answer looks like.
type Type string

const (
	// List asks for one choice; the answer is the choice value (string).
	List Type = "list"
	// Checkbox asks for any number of choices; the answer is []string.
	Checkbox Type = "checkbox"
	// Confirm asks yes or no; the answer is a bool.
	Confirm Type = "confirm"
	// Input asks for free text; the answer is a string.
	Input Type = "input"
)

// Choice is one option of a List or Checkbox prompt.
type Choice struct {
	Name        string
	Value       string
	Short       string
	Description string
	Checked     bool
}

// Predicate decides whether a prompt is shown, given the answers collected
// so far. It must not modify the answers.
type Predicate func(Answers) bool

// Prompt is a single question.
type Prompt struct {
	Name        string
	Type        Type
	Message     string
	Description string
	Choices     []Choice
	Default     any
	PageSize    int
	When        Predicate
}

// WhenFeature returns a predicate that shows a prompt only when the named
// feature was selected.
func WhenFeature(feature string) Predicate {
	return func(a Answers) bool {
		return a.HasFeature(feature)
	}
}

// FeatureDescriptor is the checkbox entry a feature module contributes to
// the feature prompt. Value is the module key.
type FeatureDescriptor struct {
	Name        string
	Value       string
	Short       string
	Description string
	Checked     bool
}

// Choice converts the descriptor into a checkbox option.
func (d FeatureDescriptor) Choice() Choice {
	return Choice(d)
}

// Answers maps prompt names to answers.
type Answers map[string]any

// Features returns the selected feature keys.
func (a Answers) Features() []string {
	switch v := a["features"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasFeature reports whether key is among the selected features.
func (a Answers) HasFeature(key string) bool {
	for _, f := range a.Features() {
		if f == key {
			return true
		}
	}
	return false
}

// String returns a string answer, or "" when absent.
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns a boolean answer, or false when absent.
func (a Answers) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Clone returns a copy that shares no slices with a.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		switch t := v.(type) {
		case []string:
			out[k] = append([]string(nil), t...)
		case []any:
			out[k] = append([]any(nil), t...)
		default:
			out[k] = v
		}
	}
	return out
}

// Names lists the answered prompt names in sorted order.
func (a Answers) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
