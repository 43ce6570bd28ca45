// Package project assembles the package.json manifest and config files of
// a new project from the contributions of the selected features.
package project

import (
	"github.com/charmbracelet/log"

	"github.com/magic-gear/calcifer/internal/merge"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/value"
)

// Feature contributes configuration for one selectable capability.
type Feature interface {
	Describe() prompt.FeatureDescriptor
	Contribute(g *Generation, answers prompt.Answers)
}

// Generation is the mutable state of one run. Features receive it in
// registration order and extend the manifest, config blocks and files.
type Generation struct {
	Name    string
	Answers prompt.Answers

	pkg       *value.Object
	configs   []*ConfigBlock
	files     map[string]fileEntry
	conflicts []merge.Conflict
	logger    *log.Logger
}

type fileEntry struct {
	transform string
	value     any
	literal   []byte
}

type extendOptions struct {
	merge bool
}

// ExtendOption adjusts how ExtendPackage applies a fragment.
type ExtendOption func(*extendOptions)

// WithMerge selects between merging into existing keys (the default) and
// replacing them outright. Dependency maps are always merged.
func WithMerge(merge bool) ExtendOption {
	return func(o *extendOptions) {
		o.merge = merge
	}
}

func newGeneration(name string, answers prompt.Answers, logger *log.Logger) *Generation {
	g := &Generation{
		Name:    name,
		Answers: answers,
		pkg: value.Of(
			"name", name,
			"version", "0.1.0",
			"private", true,
			"dependencies", value.NewObject(),
			"devDependencies", value.NewObject(),
		),
		files:  make(map[string]fileEntry),
		logger: logger,
	}
	g.configs = baseConfigs()
	return g
}

// ExtendPackage applies a manifest fragment. Dependency maps go through the
// dependency merger and report conflicts; other keys are merged with the
// existing value, or replaced when merging is off or the key is new.
func (g *Generation) ExtendPackage(fields *value.Object, opts ...ExtendOption) {
	o := extendOptions{merge: true}
	for _, opt := range opts {
		opt(&o)
	}

	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		existing, has := g.pkg.Get(key)

		if deps, ok := v.(*value.Object); ok && isDependencyKey(key) {
			current, _ := existing.(*value.Object)
			merged, conflicts := merge.Dependencies(current, deps)
			for _, c := range conflicts {
				g.logger.Warn("dependency conflict", "name", c.Name, "from", c.From, "to", c.To)
			}
			g.conflicts = append(g.conflicts, conflicts...)
			g.pkg.Set(key, merged)
			continue
		}

		if !o.merge || !has {
			g.pkg.Set(key, value.Clone(v))
			continue
		}
		g.pkg.Set(key, merge.Merge(v, existing))
	}
}

// Package returns the manifest being built.
func (g *Generation) Package() *value.Object {
	return g.pkg
}

// Config returns the value of the named config block for in-place edits,
// or nil when no such block exists.
func (g *Generation) Config(key string) *value.Object {
	if b := g.block(key); b != nil {
		return b.Value
	}
	return nil
}

// EnableConfig marks an optional config block for output.
func (g *Generation) EnableConfig(key string) {
	if b := g.block(key); b != nil {
		b.Enabled = true
	}
}

// AddFile adds a file with fixed content. It replaces anything on disk.
func (g *Generation) AddFile(path, content string) {
	g.files[path] = fileEntry{literal: []byte(content)}
}

// AddConfigFile adds a file rendered by the named transform, merged over
// the file's existing content.
func (g *Generation) AddConfigFile(path, transform string, v any) {
	g.files[path] = fileEntry{transform: transform, value: v}
}

// HasFeature reports whether the feature key was selected.
func (g *Generation) HasFeature(key string) bool {
	return g.Answers.HasFeature(key)
}

// Conflicts returns the dependency conflicts recorded so far.
func (g *Generation) Conflicts() []merge.Conflict {
	return append([]merge.Conflict(nil), g.conflicts...)
}

func (g *Generation) block(key string) *ConfigBlock {
	for _, b := range g.configs {
		if b.Key == key {
			return b
		}
	}
	return nil
}

func isDependencyKey(key string) bool {
	return key == "dependencies" || key == "devDependencies"
}
