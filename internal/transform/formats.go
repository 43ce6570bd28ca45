package transform

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/magic-gear/calcifer/internal/merge"
	"github.com/magic-gear/calcifer/internal/value"
)

const exportsPrefix = "module.exports = "

// JS handles CommonJS config files of the form `module.exports = {...}`.
// Reading accepts JSON or an object literal YAML's flow syntax can parse,
// such as unquoted keys and single-quoted strings.
type JS struct{}

func (JS) Read(source []byte) (any, error) {
	text := strings.TrimSpace(string(source))
	text = strings.TrimPrefix(text, strings.TrimSpace(exportsPrefix))
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")

	if v, err := value.DecodeJSON([]byte(text)); err == nil {
		return v, nil
	}
	v, err := value.DecodeYAML([]byte(text))
	if err != nil {
		return nil, &ParseError{Format: "js", Err: err}
	}
	if _, ok := v.(*value.Object); !ok {
		return nil, &ParseError{Format: "js", Err: fmt.Errorf("exported value is %T, not an object", v)}
	}
	return v, nil
}

func (JS) Write(v any, existing any) ([]byte, error) {
	data, err := value.EncodeJSON(mergeExisting(v, existing))
	if err != nil {
		return nil, err
	}
	return append([]byte(exportsPrefix), data...), nil
}

// JSON handles JSON documents, written with two-space indentation.
type JSON struct{}

func (JSON) Read(source []byte) (any, error) {
	v, err := value.DecodeJSON(source)
	if err != nil {
		return nil, &ParseError{Format: "json", Err: err}
	}
	return v, nil
}

func (JSON) Write(v any, existing any) ([]byte, error) {
	return value.EncodeJSON(mergeExisting(v, existing))
}

// YAML handles YAML documents.
type YAML struct{}

func (YAML) Read(source []byte) (any, error) {
	v, err := value.DecodeYAML(source)
	if err != nil {
		return nil, &ParseError{Format: "yaml", Err: err}
	}
	return v, nil
}

func (YAML) Write(v any, existing any) ([]byte, error) {
	return value.EncodeYAML(mergeExisting(v, existing))
}

// Lines handles newline-separated lists such as .browserslistrc.
type Lines struct{}

func (Lines) Read(source []byte) (any, error) {
	text := strings.TrimSuffix(string(source), "\n")
	parts := strings.Split(text, "\n")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func (Lines) Write(v any, existing any) ([]byte, error) {
	merged, ok := mergeExisting(v, existing).([]any)
	if !ok {
		return nil, fmt.Errorf("lines: expected a list, got %T", v)
	}
	var buf bytes.Buffer
	for _, item := range merged {
		fmt.Fprintf(&buf, "%v\n", item)
	}
	return buf.Bytes(), nil
}

func mergeExisting(v, existing any) any {
	if existing == nil {
		return value.Normalize(v)
	}
	return merge.Merge(v, existing)
}
