// Package feature holds the selectable feature modules and the ordered
// registry they are composed from.
package feature

import (
	"github.com/magic-gear/calcifer/internal/project"
	"github.com/magic-gear/calcifer/internal/prompt"
)

// Module is a selectable feature: a checkbox entry, its follow-up prompts
// and its contribution to the generated project.
type Module interface {
	project.Feature
	Prompts() []*prompt.Prompt
}

// Finalizer is implemented by modules that derive answers after prompting.
type Finalizer interface {
	Finalize(answers prompt.Answers)
}

// Builtin returns the bundled modules in registration order. The order
// fixes both the prompt sequence and the order fragments are applied in.
func Builtin() []Module {
	return []Module{
		TypeScript{},
		Router{},
		UILibrary{},
		CSSPreprocessor{},
		CSSInJS{},
		Linter{},
		Unit{},
		E2E{},
	}
}

// Registry is an ordered set of modules with lookup by feature key.
type Registry struct {
	modules []Module
	byKey   map[string]Module
}

// NewRegistry registers modules in the given order. Duplicate keys are
// kept here and reported by the composer when the prompts are resolved.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{byKey: make(map[string]Module, len(modules))}
	for _, m := range modules {
		r.modules = append(r.modules, m)
		key := m.Describe().Value
		if _, ok := r.byKey[key]; !ok {
			r.byKey[key] = m
		}
	}
	return r
}

// Default returns a registry of the builtin modules.
func Default() *Registry {
	return NewRegistry(Builtin()...)
}

// Modules returns the modules in registration order.
func (r *Registry) Modules() []Module {
	return append([]Module(nil), r.modules...)
}

// Lookup returns the module registered under key.
func (r *Registry) Lookup(key string) (Module, bool) {
	m, ok := r.byKey[key]
	return m, ok
}

// Register feeds every module's descriptor, prompts and finalizer into c.
func (r *Registry) Register(c *prompt.Composer) {
	for _, m := range r.modules {
		c.InjectFeature(m.Describe())
		for _, p := range m.Prompts() {
			c.InjectPrompt(p)
		}
		if f, ok := m.(Finalizer); ok {
			c.OnPromptComplete(f.Finalize)
		}
	}
}

// Features returns the modules as generation contributors.
func (r *Registry) Features() []project.Feature {
	out := make([]project.Feature, len(r.modules))
	for i, m := range r.modules {
		out[i] = m
	}
	return out
}

// defaultChoice fills in a single-choice answer that is missing while its
// feature is selected, as happens when answers come from a preset.
func defaultChoice(answers prompt.Answers, feature string, p *prompt.Prompt) {
	if !answers.HasFeature(feature) {
		return
	}
	if _, ok := answers[p.Name]; !ok {
		answers[p.Name] = prompt.Default(p)
	}
}
