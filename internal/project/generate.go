package project

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/magic-gear/calcifer/internal/logging"
	"github.com/magic-gear/calcifer/internal/merge"
	"github.com/magic-gear/calcifer/internal/prompt"
	"github.com/magic-gear/calcifer/internal/transform"
	"github.com/magic-gear/calcifer/internal/value"
)

// Options configures Generate.
type Options struct {
	// Name is the package name written to the manifest.
	Name string

	// Answers are the resolved prompt answers.
	Answers prompt.Answers

	// Features in registration order. Only selected ones contribute.
	Features []Feature

	// Existing exposes the target directory when generating into a
	// project that already has files. Nil means a fresh directory.
	Existing fs.FS

	Logger *log.Logger
}

// Result is the generated file mapping and what happened along the way.
type Result struct {
	// Files maps slash-separated relative paths to content.
	Files map[string][]byte

	// Package is the final, ordered manifest.
	Package *value.Object

	// Conflicts lists dependency ranges that were replaced.
	Conflicts []merge.Conflict

	// Recovered holds parse errors for existing files that were treated
	// as absent.
	Recovered []error
}

// Paths returns the generated paths in sorted order.
func (r *Result) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Generate builds the manifest and config files for the selected features.
// It is a pure function of its options apart from reading Existing.
func Generate(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}
	answers := opts.Answers
	if answers == nil {
		answers = prompt.Answers{}
	}

	g := newGeneration(opts.Name, answers, logger)
	applyBase(g)

	for _, f := range opts.Features {
		key := f.Describe().Value
		if !g.HasFeature(key) {
			continue
		}
		logger.Debug("applying feature", "feature", key)
		f.Contribute(g, answers)
	}

	g.placeConfigs()
	g.pkg = sortPackage(g.pkg)
	g.AddConfigFile("package.json", "json", g.pkg)

	res := &Result{
		Files:     make(map[string][]byte, len(g.files)),
		Package:   g.pkg,
		Conflicts: g.Conflicts(),
	}

	paths := make([]string, 0, len(g.files))
	for p := range g.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		entry := g.files[p]
		if entry.transform == "" {
			res.Files[p] = entry.literal
			continue
		}

		t, ok := transform.Get(entry.transform)
		if !ok {
			return nil, fmt.Errorf("file %s: unknown transform %q", p, entry.transform)
		}

		existing, err := readExisting(opts.Existing, p, t)
		if err != nil {
			logger.Warn("ignoring unreadable existing file", "path", p, "err", err)
			res.Recovered = append(res.Recovered, fmt.Errorf("%s: %w", p, err))
		}

		content, err := t.Write(entry.value, existing)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", p, err)
		}
		res.Files[p] = content
	}

	return res, nil
}

// placeConfigs writes each enabled config block to its own file, or inlines
// it into the manifest when the user chose package.json placement.
func (g *Generation) placeConfigs() {
	inline := g.Answers.String(prompt.UseConfigFilesKey) != "files"
	inlined := value.NewObject()

	for _, b := range g.configs {
		if !b.Enabled {
			continue
		}
		if b.FileOnly || !inline {
			g.AddConfigFile(b.File, b.Transform, b.fileValue())
			continue
		}
		inlined.Set(b.Key, b.Value)
	}

	if inlined.Len() > 0 {
		g.ExtendPackage(inlined)
	}
}

// readExisting returns the parsed content of path in fsys. A missing file
// yields nil with no error; a malformed one yields nil and the parse error.
func readExisting(fsys fs.FS, path string, t transform.Transform) (any, error) {
	if fsys == nil {
		return nil, nil
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	v, err := t.Read(data)
	if err != nil {
		return nil, err
	}
	return v, nil
}
