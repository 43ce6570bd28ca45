package generator

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	r := NewRenderer()
	assert.NotNil(t, r)
	assert.NotNil(t, r.funcMap)
	assert.NotNil(t, r.cache)
	assert.Empty(t, r.cache)
}

func TestRenderString(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name        string
		templateStr string
		data        any
		expected    string
		wantErr     bool
		errContains string
	}{
		{
			name:        "simple template with no data",
			templateStr: "Hello World",
			expected:    "Hello World",
		},
		{
			name:        "template with struct data",
			templateStr: "<title>{{ .Name }}</title>",
			data:        struct{ Name string }{Name: "my-app"},
			expected:    "<title>my-app</title>",
		},
		{
			name:        "template with helpers",
			templateStr: "{{ .name | title }} / {{ .name | pascalCase }}",
			data:        map[string]any{"name": "my-app"},
			expected:    "My App / MyApp",
		},
		{
			name:        "template with syntax error",
			templateStr: "{{ .Name }",
			wantErr:     true,
			errContains: "failed to parse template",
		},
		{
			name:        "missing map key",
			templateStr: "{{ .missing }}",
			data:        map[string]any{},
			wantErr:     true,
			errContains: "failed to render template",
		},
		{
			name:        "template with execution error",
			templateStr: "{{ .NonExistent }}",
			data:        struct{}{},
			wantErr:     true,
			errContains: "failed to render template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := r.RenderString(tt.name, tt.templateStr, tt.data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, string(output))
			}
		})
	}
}

func TestRenderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"public/index.html.tmpl": {Data: []byte("<title>{{ .Name }}</title>")},
		"invalid.tmpl":           {Data: []byte("{{ .Name }")},
	}
	r := NewRenderer()

	out, err := r.RenderFS(fsys, "public/index.html.tmpl", struct{ Name string }{"demo"})
	require.NoError(t, err)
	assert.Equal(t, "<title>demo</title>", string(out))

	_, err = r.RenderFS(fsys, "missing.tmpl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read template from fs")

	_, err = r.RenderFS(fsys, "invalid.tmpl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

func TestRenderer_Cache(t *testing.T) {
	r := NewRenderer()

	_, err := r.RenderString("greeting", "Hello {{ . }}", "a")
	require.NoError(t, err)
	assert.Len(t, r.cache, 1)

	// Same name reuses the parsed template.
	out, err := r.RenderString("greeting", "ignored", "b")
	require.NoError(t, err)
	assert.Equal(t, "Hello b", string(out))

	r.ClearCache()
	assert.Empty(t, r.cache)
}

func TestCaseHelpers(t *testing.T) {
	tests := []struct {
		in, pascal, camel, title string
	}{
		{"my-app", "MyApp", "myApp", "My App"},
		{"user_name", "UserName", "userName", "User Name"},
		{"@acme/ui-kit", "UIKit", "uiKit", "Ui Kit"},
		{"api", "API", "api", "Api"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.title, Title(tt.in))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"my-app"`, Quote("my-app"))
	assert.Equal(t, `"a\"b"`, Quote(`a"b`))
}

func TestDict(t *testing.T) {
	m, err := Dict("name", "app", "private", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "app", "private": true}, m)

	_, err = Dict("odd")
	assert.Error(t, err)

	_, err = Dict(1, 2)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "npm", Default("npm", nil))
	assert.Equal(t, "npm", Default("npm", ""))
	assert.Equal(t, "npm", Default("npm", []string{}))
	assert.Equal(t, "yarn", Default("npm", "yarn"))
	assert.Equal(t, 0, Default(1, 0))
}
