// Package preset loads saved prompt answers so a project can be created
// without interaction.
package preset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	cerrors "github.com/magic-gear/calcifer/internal/errors"
	"github.com/magic-gear/calcifer/internal/prompt"
)

//go:embed schema/preset.schema.json
var schemaBytes []byte

// DefaultConfigPlacement is used when a preset leaves useConfigFiles out.
const DefaultConfigPlacement = "files"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Issue is one schema violation.
type Issue struct {
	Path    string // Instance location, e.g. "/features/1"
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("preset.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("preset.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Load reads a preset file. YAML and JSON are both accepted.
func Load(path string) (prompt.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.NewConfigurationError("cannot read preset", path, err)
	}
	answers, err := Parse(data)
	if err != nil {
		var de *cerrors.DetailError
		if errors.As(err, &de) && de.Location == "" {
			de.Location = path
		}
		return nil, err
	}
	return answers, nil
}

// Parse validates preset content and returns it as answers. A missing
// useConfigFiles defaults to DefaultConfigPlacement.
func Parse(data []byte) (prompt.Answers, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cerrors.NewConfigurationError("preset is not valid YAML or JSON", "", err)
	}
	if raw == nil {
		return nil, cerrors.NewConfigurationError("preset is empty", "", nil)
	}

	// Round-trip through JSON so the validator sees json.Number values.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, cerrors.NewConfigurationError("preset cannot be represented as JSON", "", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("unexpected validation error type: %w", err)
		}
		issues := collectIssues(ve)
		lines := make([]string, len(issues))
		for i, issue := range issues {
			lines[i] = issue.String()
		}
		return nil, &cerrors.DetailError{
			Type:    "invalid preset",
			Message: strings.Join(lines, "; "),
			Hint:    "features must be a list of feature keys; run `calcifer features` to see them",
			Kind:    cerrors.ErrConfiguration,
		}
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return nil, cerrors.NewConfigurationError("preset must be a mapping", "", nil)
	}

	answers := prompt.Answers{}
	for k, v := range m {
		answers[k] = v
	}
	answers[prompt.FeaturesKey] = answers.Features()
	if _, ok := answers[prompt.UseConfigFilesKey]; !ok {
		answers[prompt.UseConfigFilesKey] = DefaultConfigPlacement
	}
	return answers, nil
}

// collectIssues flattens the error tree to its leaves.
func collectIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		path := ""
		if len(e.InstanceLocation) > 0 {
			path = "/" + strings.Join(e.InstanceLocation, "/")
		}
		msg := e.Error()
		if e.ErrorKind != nil {
			msg = e.ErrorKind.LocalizedString(printer)
		}
		issues = append(issues, Issue{Path: path, Message: msg})
	}
	walk(ve)

	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}
