// Package transform reads and writes the config file formats a generated
// project uses: CommonJS modules, JSON, YAML and line lists.
package transform

import (
	"fmt"
	"sort"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
)

// Transform reads a file format into the value model and writes a value
// back, merged over whatever the file already held.
type Transform interface {
	// Read parses file contents. It returns a *ParseError for malformed input.
	Read(source []byte) (any, error)

	// Write serializes v. When existing is non-nil, v is merged over it first.
	Write(v any, existing any) ([]byte, error)
}

// ParseError reports malformed input handed to a Transform.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Format, e.Err)
}

// Unwrap exposes both the parse category and the decoder error.
func (e *ParseError) Unwrap() []error {
	return []error{cerrors.ErrParse, e.Err}
}

var registry = map[string]Transform{
	"js":    JS{},
	"json":  JSON{},
	"yaml":  YAML{},
	"lines": Lines{},
}

// Get returns the transform registered under name.
func Get(name string) (Transform, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names lists the registered transform names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
