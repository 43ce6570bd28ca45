package prompt

import (
	"fmt"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

const (
	// FeaturesKey is the answer key of the feature selection prompt.
	FeaturesKey = "features"

	// UseConfigFilesKey is the answer key of the config placement prompt.
	UseConfigFilesKey = "useConfigFiles"
)

// Composer accumulates feature descriptors, prompts and finalize callbacks
// from feature modules and turns them into the final prompt sequence.
type Composer struct {
	features  []FeatureDescriptor
	injected  []*Prompt
	outro     []*Prompt
	finalizer []func(Answers)
	mode      Predicate
}

// NewComposer returns a composer in manual mode with the standard outro
// prompt that picks config placement.
func NewComposer() *Composer {
	return &Composer{
		mode:  ManualMode,
		outro: []*Prompt{UseConfigFilesPrompt()},
	}
}

// ManualMode reports whether prompts should be asked. Every run is
// currently manual; presets skip prompting altogether.
func ManualMode(Answers) bool { return true }

// UseConfigFilesPrompt asks where tool configuration should live.
func UseConfigFilesPrompt() *Prompt {
	return &Prompt{
		Name:    UseConfigFilesKey,
		Type:    List,
		Message: "Where do you prefer placing config for Babel, ESLint, etc.?",
		Choices: []Choice{
			{Name: "In dedicated config files", Value: "files"},
			{Name: "In package.json", Value: "pkg"},
		},
	}
}

// InjectFeature registers a feature descriptor.
func (c *Composer) InjectFeature(d FeatureDescriptor) {
	c.features = append(c.features, d)
}

// InjectPrompt registers a prompt shown after feature selection.
func (c *Composer) InjectPrompt(p *Prompt) {
	c.injected = append(c.injected, p)
}

// OnPromptComplete registers a callback run on the raw answers before
// generation starts.
func (c *Composer) OnPromptComplete(fn func(Answers)) {
	c.finalizer = append(c.finalizer, fn)
}

// Features returns the registered feature descriptors in order.
func (c *Composer) Features() []FeatureDescriptor {
	return append([]FeatureDescriptor(nil), c.features...)
}

// FeaturePrompt builds the multi-select over all registered features.
func (c *Composer) FeaturePrompt() *Prompt {
	choices := make([]Choice, len(c.features))
	for i, d := range c.features {
		choices[i] = d.Choice()
	}
	return &Prompt{
		Name:     FeaturesKey,
		Type:     Checkbox,
		Message:  "Check the features needed for your project:",
		Choices:  choices,
		PageSize: 10,
	}
}

// ResolveFinalPrompts validates the registrations and returns the prompt
// sequence: feature selection, injected prompts in registration order, then
// the outro prompts. Injected predicates are wrapped with the mode check.
// The registered prompts are not modified.
func (c *Composer) ResolveFinalPrompts() ([]*Prompt, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	prompts := []*Prompt{c.FeaturePrompt()}
	for _, p := range c.injected {
		wrapped := *p
		wrapped.When = c.withMode(p.When)
		prompts = append(prompts, &wrapped)
	}
	return append(prompts, c.outro...), nil
}

// Resolve normalizes raw answers and applies the finalize callbacks in
// registration order. The input map is not modified.
func (c *Composer) Resolve(raw Answers) Answers {
	answers := raw.Clone()
	if _, ok := answers[FeaturesKey]; !ok {
		answers[FeaturesKey] = []string{}
	} else {
		answers[FeaturesKey] = answers.Features()
	}
	for _, fn := range c.finalizer {
		fn(answers)
	}
	return answers
}

func (c *Composer) withMode(when Predicate) Predicate {
	mode := c.mode
	return func(a Answers) bool {
		if !mode(a) {
			return false
		}
		return when == nil || when(a)
	}
}

func (c *Composer) validate() error {
	seen := make(map[string]bool, len(c.features))
	for _, d := range c.features {
		if d.Value == "" {
			return cerrors.NewConfigurationError("feature has no key", "feature "+d.Name, nil)
		}
		if seen[d.Value] {
			return cerrors.NewConfigurationError(
				fmt.Sprintf("feature key %q registered more than once", d.Value),
				"feature "+d.Value, nil)
		}
		seen[d.Value] = true
	}

	names := map[string]bool{FeaturesKey: true}
	for _, p := range append(append([]*Prompt(nil), c.injected...), c.outro...) {
		if p.Name == "" {
			return cerrors.NewConfigurationError("prompt has no name", p.Message, nil)
		}
		if names[p.Name] {
			return cerrors.NewConfigurationError(
				fmt.Sprintf("prompt name %q registered more than once", p.Name),
				"prompt "+p.Name, nil)
		}
		names[p.Name] = true
	}
	return nil
}
